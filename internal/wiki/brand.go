package wiki

import (
	"context"
	"strings"
)

// Result sources.
const (
	SourceWiki = "wiki"
	SourceNone = "none"
)

// MaxBrandInfoLen is the maximum length of BrandInfo.BrandInfo in characters.
const MaxBrandInfoLen = 800

// BrandInfo is a short brand description and where it came from.
type BrandInfo struct {
	BrandInfo string `json:"brandInfo"`
	Source    string `json:"source"`
}

// Searcher runs a wiki search and returns the first hit.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// Lookup resolves brand names to BrandInfo.
type Lookup struct {
	Searcher Searcher
	// TitleFallback uses the brand name when the hit has no title.
	TitleFallback bool
}

// SearchQuery builds the search phrase for brand.
func SearchQuery(brand string) string {
	return brand + " бренд производитель история компания"
}

var snippetCleaner = strings.NewReplacer(
	`<span class="searchmatch">`, "",
	"</span>", "",
	"&quot;", `"`,
	"&#039;", "'",
)

// CleanSnippet removes search highlighting markup and unescapes quotes.
func CleanSnippet(snippet string) string {
	return snippetCleaner.Replace(snippet)
}

// Truncate cuts s to at most max characters, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// Brand looks up brand. A search without hits is not an error: it yields
// an empty description with SourceNone.
func (l *Lookup) Brand(ctx context.Context, brand string) (BrandInfo, error) {
	hit, err := l.Searcher.Search(ctx, SearchQuery(brand))
	if err != nil {
		return BrandInfo{}, err
	}
	if hit == nil {
		return BrandInfo{BrandInfo: "", Source: SourceNone}, nil
	}

	title := hit.Title
	if title == "" && l.TitleFallback {
		title = brand
	}
	info := Truncate(title+" — "+CleanSnippet(hit.Snippet), MaxBrandInfoLen)
	return BrandInfo{BrandInfo: info, Source: SourceWiki}, nil
}
