package enrich

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/assets"
	"github.com/fpang/seo-content-helper/internal/jsonutil"
	"github.com/fpang/seo-content-helper/internal/product"
)

// MaxHTMLRunes is how much of the page is sent to the model.
const MaxHTMLRunes = 15000

const notFound = "Не найдено"

// Generator returns a model answer for a system instruction and prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Enricher turns a product page into a Profile.
type Enricher struct {
	gen Generator
}

// NewEnricher creates an Enricher. A nil gen disables enrichment.
func NewEnricher(gen Generator) *Enricher {
	return &Enricher{gen: gen}
}

// Enabled reports whether a generator is configured.
func (e *Enricher) Enabled() bool {
	return e != nil && e.gen != nil
}

// Enrich asks the model for a profile of the page. It returns nil when
// enrichment is disabled or anything goes wrong; callers fall back to the
// basic fields.
func (e *Enricher) Enrich(ctx context.Context, page string, basic product.Basic) *Profile {
	if !e.Enabled() {
		return nil
	}
	prompt := assets.RenderEnrichmentPrompt(assets.EnrichmentData{
		Name:  orDefault(basic.Name, notFound),
		Brand: orDefault(basic.Brand, notFound),
		Price: orDefault(basic.Price, notFound),
		HTML:  headRunes(page, MaxHTMLRunes),
	})

	raw, err := e.gen.Generate(ctx, strings.TrimSpace(assets.EnrichmentSystemPrompt), prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Product enrichment failed")
		return nil
	}
	profile, err := jsonutil.Decode[Profile](raw, assets.ProductProfileSchema)
	if err != nil {
		log.Warn().Err(err).Int("response_length", len(raw)).Msg("Product enrichment returned unusable JSON")
		return nil
	}
	return &profile
}

func headRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
