// Package main provides the Lambda entry point for the SEO analyzer.
//
//   - POST / {"type": "brand", "brandName": "..."}
//   - POST / {"type": "category", "categoryUrl": "...", "categoryName": "..."}
//   - POST / {"type": "product", "productUrl": "..."}
//
// Product enrichment uses Gemini when GEMINI_API_KEY is set or can be read
// from SSM; otherwise product requests return the basic page fields only.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/catalog"
	"github.com/fpang/seo-content-helper/internal/enrich"
	"github.com/fpang/seo-content-helper/internal/lambdaboot"
	"github.com/fpang/seo-content-helper/internal/logging"
	"github.com/fpang/seo-content-helper/internal/seo"
	"github.com/fpang/seo-content-helper/internal/wiki"
)

var handler http.Handler

func init() {
	initStart := time.Now()
	ctx := context.Background()
	logging.Init()

	clients := lambdaboot.InitAWS()
	lambdaboot.LoadSecrets(ctx, clients.SSM, lambdaboot.GeminiKey)
	cfg := lambdaboot.LoadConfig()
	wikiCfg := cfg.Wiki.ForAnalyzer()

	fetcher := catalog.NewFetcher(cfg.Catalog)
	var gen enrich.Generator
	if gemini, err := enrich.NewGemini(ctx, cfg.AI); err != nil {
		log.Warn().Err(err).Msg("Product enrichment disabled")
	} else {
		gen = gemini
	}
	enricher := enrich.NewEnricher(gen)

	handler = seo.NewHandler(seo.Deps{
		Brands:     &wiki.Lookup{Searcher: wiki.NewClient(wikiCfg)},
		Categories: catalog.NewAnalyzer(fetcher),
		Pages:      fetcher,
		Enricher:   enricher,
	})

	lambdaboot.StartupLog("seo-analyzer-lambda", initStart).
		SSMParam("geminiKey", lambdaboot.GeminiKey.Path()).
		Feature("enrichment", enricher.Enabled()).
		Config("geminiModel", cfg.AI.Model).
		Config("wikiUserAgent", wikiCfg.UserAgent).
		Config("catalogTimeout", cfg.Catalog.Timeout.String()).
		Log()
}

func main() {
	lambda.Start(httpadapter.New(handler).ProxyWithContext)
}
