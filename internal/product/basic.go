// Package product extracts the basic fields of a product page (name, brand,
// price, description, specification rows) that seed AI enrichment.
package product

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxSpecifications caps the specification rows kept from a page.
const MaxSpecifications = 30

// Basic holds the fields read directly from product page markup. Empty
// strings mean the field was not found.
type Basic struct {
	Name           string   `json:"product_name,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Price          string   `json:"price,omitempty"`
	Description    string   `json:"description,omitempty"`
	Specifications []string `json:"specifications"`
}

// source is one place a field may be read from, tried in order.
type source struct {
	selector string
	attr     string // empty reads the element text
}

var (
	nameSources = []source{
		{"h1", ""},
		{`meta[property="og:title"]`, "content"},
		{"title", ""},
	}
	brandSources = []source{
		{"[itemprop=brand] [itemprop=name]", "content"},
		{"[itemprop=brand] [itemprop=name]", ""},
		{"[itemprop=brand]", "content"},
		{"[itemprop=brand]", ""},
		{`meta[property="product:brand"]`, "content"},
		{"[data-brand]", "data-brand"},
	}
	priceSources = []source{
		{"[itemprop=price]", "content"},
		{"[itemprop=price]", ""},
		{`meta[property="product:price:amount"]`, "content"},
	}
	descriptionSources = []source{
		{`meta[name="description"]`, "content"},
		{"[itemprop=description]", ""},
	}
)

// ExtractBasic parses page and reads its basic fields.
func ExtractBasic(page string) (Basic, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Basic{}, fmt.Errorf("parse product page: %w", err)
	}
	return Basic{
		Name:           firstOf(doc, nameSources),
		Brand:          firstOf(doc, brandSources),
		Price:          firstOf(doc, priceSources),
		Description:    firstOf(doc, descriptionSources),
		Specifications: specifications(doc),
	}, nil
}

func firstOf(doc *goquery.Document, sources []source) string {
	for _, src := range sources {
		sel := doc.Find(src.selector).First()
		if sel.Length() == 0 {
			continue
		}
		var v string
		if src.attr == "" {
			v = sel.Text()
		} else {
			v = sel.AttrOr(src.attr, "")
		}
		if v = collapse(v); v != "" {
			return v
		}
	}
	return ""
}

// specifications reads "key: value" rows from two-cell table rows and
// from dt/dd pairs, in document order.
func specifications(doc *goquery.Document) []string {
	specs := []string{}
	add := func(k, v string) bool {
		k, v = collapse(k), collapse(v)
		if k != "" && v != "" {
			specs = append(specs, k+": "+v)
		}
		return len(specs) < MaxSpecifications
	}

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Children().Filter("th, td")
		if cells.Length() != 2 {
			return true
		}
		return add(cells.Eq(0).Text(), cells.Eq(1).Text())
	})
	if len(specs) >= MaxSpecifications {
		return specs
	}

	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return true
		}
		return add(dt.Text(), dd.Text())
	})
	return specs
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
