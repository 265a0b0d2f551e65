// Package catalog analyzes e-commerce category pages: it finds product
// blocks, brands, prices and frequent keywords, and writes a templated
// category description from them.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Output limits.
const (
	MaxProducts = 20
	MaxBrands   = 10
)

// Analysis is what one category page yields.
type Analysis struct {
	Products      []string `json:"products"`
	Brands        []string `json:"brands"`
	PageTitle     string   `json:"page_title"`
	H1            string   `json:"h1"`
	Keywords      []string `json:"keywords"`
	TotalProducts int      `json:"total_products"`
}

// AnalysisError wraps any failure while fetching or scanning a page.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return "Ошибка при анализе страницы: " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// PageFetcher downloads a page as text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Analyzer fetches and analyzes category pages.
type Analyzer struct {
	fetcher PageFetcher
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(fetcher PageFetcher) *Analyzer {
	return &Analyzer{fetcher: fetcher}
}

// Analyze fetches url and analyzes it. Failures are *AnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*Analysis, error) {
	start := time.Now()
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	analysis, err := AnalyzeHTML(page)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("url", url).
		Int("products", len(analysis.Products)).
		Int("brands", len(analysis.Brands)).
		Int("totalProducts", analysis.TotalProducts).
		Dur("elapsed", time.Since(start)).
		Msg("Category page analyzed")
	return analysis, nil
}

// AnalyzeHTML analyzes an already fetched page. The result depends only
// on page.
func AnalyzeHTML(page string) (*Analysis, error) {
	scan, err := Scan(strings.NewReader(page))
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	brands := Brands(page)
	if len(brands) == 0 {
		brands = scan.Brands
	}

	products := scan.Products
	total := max(len(products), EstimateProducts(page))

	return &Analysis{
		Products:      capped(products, MaxProducts),
		Brands:        capped(brands, MaxBrands),
		PageTitle:     PageTitle(page),
		H1:            H1(page),
		Keywords:      Keywords(page),
		TotalProducts: total,
	}, nil
}

func capped(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []string{}
	}
	return s
}
