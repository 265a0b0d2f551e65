package catalog

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// regionKeywords mark product containers when found in a class attribute.
var regionKeywords = []string{"product", "item", "card", "товар"}

// blockTags close a product block.
var blockTags = map[string]bool{"div": true, "article": true, "li": true}

// scanBrandPattern finds capitalized Latin words; blockBrand keeps the
// first one that stands as a whole word.
var scanBrandPattern = regexp.MustCompile(`[A-Z][a-zA-Z]+`)

const minBlockLen = 10

type scanState int

const (
	outsideRegion scanState = iota
	insideRegion
)

// ScanResult holds what the streaming scan found.
type ScanResult struct {
	Products []string
	// Brands are unique, in first-seen order.
	Brands []string
}

type scanner struct {
	state  scanState
	text   strings.Builder
	result ScanResult
	seen   map[string]bool
}

// Scan walks the markup once, collecting text from product regions.
func Scan(r io.Reader) (*ScanResult, error) {
	s := &scanner{seen: make(map[string]bool)}
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return &s.result, nil
			}
			return nil, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if hasAttr && regionClass(z) {
				s.state = insideRegion
			}
			if tt == html.SelfClosingTagToken {
				s.endTag(tag)
			}
		case html.TextToken:
			if s.state == insideRegion {
				s.text.WriteString(strings.TrimSpace(string(z.Text())))
				s.text.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			s.endTag(string(name))
		}
	}
}

func (s *scanner) endTag(tag string) {
	if s.state != insideRegion || !blockTags[tag] {
		return
	}
	text := strings.TrimSpace(s.text.String())
	if utf8.RuneCountInString(text) > minBlockLen {
		s.result.Products = append(s.result.Products, text)
		if b := blockBrand(text); b != "" && !s.seen[b] {
			s.seen[b] = true
			s.result.Brands = append(s.result.Brands, b)
		}
	}
	s.text.Reset()
	s.state = outsideRegion
}

func blockBrand(text string) string {
	for _, m := range scanBrandPattern.FindAllStringIndex(text, -1) {
		if wordBounded(text, m[0], m[1]) {
			return text[m[0]:m[1]]
		}
	}
	return ""
}

// regionClass reports whether the current tag's class attribute contains
// a region keyword. With duplicate class attributes the last one wins.
func regionClass(z *html.Tokenizer) bool {
	var class []byte
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			class = val
		}
		if !more {
			break
		}
	}
	lower := bytes.ToLower(class)
	for _, kw := range regionKeywords {
		if bytes.Contains(lower, []byte(kw)) {
			return true
		}
	}
	return false
}
