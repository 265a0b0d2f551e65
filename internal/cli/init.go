// Package cli wires the service components for local use: the seo-cli
// subcommands call them directly and "serve" mounts the same HTTP handlers
// the Lambdas run.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/catalog"
	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/enrich"
	"github.com/fpang/seo-content-helper/internal/imagegen"
	"github.com/fpang/seo-content-helper/internal/lambdaboot"
	"github.com/fpang/seo-content-helper/internal/media"
	"github.com/fpang/seo-content-helper/internal/seo"
	"github.com/fpang/seo-content-helper/internal/storage"
	"github.com/fpang/seo-content-helper/internal/videogen"
	"github.com/fpang/seo-content-helper/internal/wiki"
)

// Components are the configured services behind all three endpoints.
type Components struct {
	// Brand is the lookup used by the brand endpoint.
	Brand *wiki.Lookup
	Media *media.Service
	SEO   seo.Deps

	Store    *storage.MediaStore
	Analyzer *catalog.Analyzer
	Enricher *enrich.Enricher
}

// Build creates every component from cfg. Credentials come from the
// environment (or .env) only; a missing key disables its feature.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	var putter storage.ObjectPutter
	if client := lambdaboot.InitStorage(ctx, cfg.Storage); client != nil {
		putter = client
	}
	store := storage.NewMediaStore(putter, cfg.Storage)

	videos, err := videogen.New(cfg.Video)
	if err != nil {
		return nil, fmt.Errorf("video backend: %w", err)
	}

	var gen enrich.Generator
	if gemini, err := enrich.NewGemini(ctx, cfg.AI); err != nil {
		log.Debug().Err(err).Msg("Product enrichment disabled")
	} else {
		gen = gemini
	}
	enricher := enrich.NewEnricher(gen)

	fetcher := catalog.NewFetcher(cfg.Catalog)
	analyzer := catalog.NewAnalyzer(fetcher)

	return &Components{
		Brand: &wiki.Lookup{Searcher: wiki.NewClient(cfg.Wiki), TitleFallback: true},
		Media: media.NewService(imagegen.NewClient(cfg.Image), videos, store),
		SEO: seo.Deps{
			Brands:     &wiki.Lookup{Searcher: wiki.NewClient(cfg.Wiki.ForAnalyzer())},
			Categories: analyzer,
			Pages:      fetcher,
			Enricher:   enricher,
		},
		Store:    store,
		Analyzer: analyzer,
		Enricher: enricher,
	}, nil
}
