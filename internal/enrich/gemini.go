package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// ErrNoAPIKey is returned when no Gemini key is configured.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY not configured")

const temperature = 0.3

// Gemini generates JSON answers with the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini generator from cfg.
func NewGemini(ctx context.Context, cfg config.AIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate sends one prompt under the given system instruction and returns
// the answer text. The model is asked for a JSON response.
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (text string, err error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() { metrics.Upstream("gemini", start, err) }()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature:      genai.Ptr[float32](temperature),
		ResponseMIMEType: "application/json",
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text = resp.Text()
	log.Debug().
		Str("model", g.model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Gemini response received")
	return text, nil
}
