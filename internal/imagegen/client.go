// Package imagegen calls the OpenAI image generation API.
package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("OPENAI_API_KEY not configured")

// Option defaults.
const (
	DefaultSize    = "1024x1024"
	DefaultQuality = "standard"
	DefaultStyle   = "vivid"
)

// PromptSuffix is appended to every prompt.
const PromptSuffix = ". Professional product photography, high quality, SEO optimized."

// sizeMap maps canonical page sizes to sizes the provider accepts.
var sizeMap = map[string]string{
	"1024x1024": "1024x1024",
	"1920x1080": "1792x1024",
	"1080x1920": "1024x1792",
	"1200x630":  "1792x1024",
}

// ProviderSize maps a requested size to the provider size. Unknown sizes
// map to DefaultSize.
func ProviderSize(size string) string {
	if s, ok := sizeMap[size]; ok {
		return s
	}
	return DefaultSize
}

// Options are the caller-tunable generation options.
type Options struct {
	Size    string
	Quality string
	Style   string
}

// OptionsFrom reads options from a free-form mapping, applying defaults.
func OptionsFrom(m map[string]any) Options {
	return Options{
		Size:    stringOr(m, "size", DefaultSize),
		Quality: stringOr(m, "quality", DefaultQuality),
		Style:   stringOr(m, "style", DefaultStyle),
	}
}

func stringOr(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Image is a generated image.
type Image struct {
	// URL is the provider's URL, often short-lived.
	URL string
	// Prompt is the effective prompt sent to the provider.
	Prompt string
	// Size is the size the caller requested.
	Size string
}

type generateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Client is an image generation API client.
type Client struct {
	http    *resty.Client
	apiKey  string
	baseURL string
	model   string
}

// NewClient creates a Client from cfg. The client is usable without an
// API key; Generate then returns ErrNotConfigured.
func NewClient(cfg config.ImageConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Generate creates one image for prompt.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (img *Image, err error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	start := time.Now()
	defer func() { metrics.Upstream("openai-images", start, err) }()

	effective := prompt + PromptSuffix
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{
			Model:   c.model,
			Prompt:  effective,
			N:       1,
			Size:    ProviderSize(opts.Size),
			Quality: opts.Quality,
			Style:   opts.Style,
		}).
		Post(c.baseURL + "/v1/images/generations")
	if err != nil {
		return nil, fmt.Errorf("Image generation failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		log.Error().Int("status", resp.StatusCode()).Msg("Image API returned error")
		return nil, fmt.Errorf("DALL-E API error: %s", resp.String())
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("Image generation failed: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return nil, errors.New("Image generation failed: no image in response")
	}

	log.Info().
		Str("size", opts.Size).
		Str("providerSize", ProviderSize(opts.Size)).
		Dur("elapsed", time.Since(start)).
		Msg("Image generated")
	return &Image{URL: out.Data[0].URL, Prompt: effective, Size: opts.Size}, nil
}
