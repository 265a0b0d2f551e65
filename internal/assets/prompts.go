// Package assets embeds the prompt templates and JSON schemas used by the
// AI enrichment step. Prompts live under prompts/ as plain text so they can
// be edited without touching code.
package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// EnrichmentSystemPrompt is the system role for product page enrichment.
//
//go:embed prompts/enrichment-system.txt
var EnrichmentSystemPrompt string

//go:embed prompts/enrichment-user.txt
var enrichmentUserTemplate string

// ProductProfileSchema is the JSON schema an enrichment answer must satisfy.
//
//go:embed schemas/product-profile.json
var ProductProfileSchema string

var enrichmentUserTmpl = template.Must(template.New("enrichment").Parse(enrichmentUserTemplate))

// EnrichmentData is injected into the enrichment prompt.
type EnrichmentData struct {
	Name  string
	Brand string
	Price string
	// HTML is the page fragment, already cut to size.
	HTML string
}

// RenderEnrichmentPrompt renders the enrichment instruction prompt.
func RenderEnrichmentPrompt(data EnrichmentData) string {
	var buf bytes.Buffer
	// The template only prints strings, so Execute cannot fail on data.
	_ = enrichmentUserTmpl.Execute(&buf, data)
	return buf.String()
}
