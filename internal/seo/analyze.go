package seo

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/catalog"
	"github.com/fpang/seo-content-helper/internal/enrich"
	"github.com/fpang/seo-content-helper/internal/product"
)

// Category analyzes a category page and writes its description.
// Failures are *catalog.AnalysisError.
func (d Deps) Category(ctx context.Context, url, name string) (*CategoryResponse, error) {
	analysis, err := d.Categories.Analyze(ctx, url)
	if err != nil {
		return nil, err
	}
	return &CategoryResponse{
		Type:        TypeCategory,
		Description: catalog.Describe(name, analysis),
		Analysis:    analysis,
		Source:      SourcePageAnalysis,
	}, nil
}

// Product reads a product page's basic fields, enriches them when an
// enricher is configured, and renders the report. Fetch and parse
// failures are *catalog.AnalysisError.
func (d Deps) Product(ctx context.Context, url string) (*ProductResponse, error) {
	page, err := d.Pages.Fetch(ctx, url)
	if err != nil {
		return nil, &catalog.AnalysisError{Err: err}
	}
	basic, err := product.ExtractBasic(page)
	if err != nil {
		return nil, &catalog.AnalysisError{Err: err}
	}

	var profile *enrich.Profile
	if d.Enricher != nil {
		profile = d.Enricher.Enrich(ctx, page, basic)
	}
	source := SourceBasic
	if profile != nil {
		source = SourceAI
	}
	log.Info().
		Str("url", url).
		Str("name", basic.Name).
		Int("specs", len(basic.Specifications)).
		Str("source", source).
		Msg("Product page analyzed")

	return &ProductResponse{
		Type:    TypeProduct,
		Basic:   basic,
		Profile: profile,
		Report:  enrich.FormatReport(profile, basic),
		Source:  source,
	}, nil
}
