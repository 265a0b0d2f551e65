// Package main provides the Lambda entry point for brand lookup.
//
//   - POST / {"brandName": "..."} returns a short wiki description of the brand
//
// The Lambda only talks to the wiki search API; it needs no credentials.
package main

import (
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/fpang/seo-content-helper/internal/brand"
	"github.com/fpang/seo-content-helper/internal/lambdaboot"
	"github.com/fpang/seo-content-helper/internal/logging"
	"github.com/fpang/seo-content-helper/internal/wiki"
)

var handler http.Handler

func init() {
	initStart := time.Now()
	logging.Init()

	cfg := lambdaboot.LoadConfig()
	lookup := &wiki.Lookup{Searcher: wiki.NewClient(cfg.Wiki), TitleFallback: true}
	handler = brand.NewHandler(lookup)

	lambdaboot.StartupLog("brand-search-lambda", initStart).
		Config("wikiURL", cfg.Wiki.BaseURL).
		Config("userAgent", cfg.Wiki.UserAgent).
		Log()
}

func main() {
	lambda.Start(httpadapter.New(handler).ProxyWithContext)
}
