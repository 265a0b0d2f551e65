// Package config builds the explicit configuration object handed to every
// component at construction. Values come from defaults, an optional YAML
// file named by SEO_CONFIG_FILE, a local .env file, and the environment
// (highest precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration. Credentials are optional: an
// empty credential disables the feature that needs it.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Wiki     WikiConfig    `mapstructure:"wiki"`
	Image    ImageConfig   `mapstructure:"image"`
	Video    VideoConfig   `mapstructure:"video"`
	Storage  StorageConfig `mapstructure:"storage"`
	AI       AIConfig      `mapstructure:"ai"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
}

// WikiConfig configures the wiki search client used by brand lookups.
// The brand endpoint sends UserAgent; the SEO analyzer sends
// AnalyzerUserAgent.
type WikiConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	AnalyzerUserAgent string        `mapstructure:"analyzer_user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// ForAnalyzer returns a copy that identifies as the SEO analyzer.
func (w WikiConfig) ForAnalyzer() WikiConfig {
	w.UserAgent = w.AnalyzerUserAgent
	return w
}

// ImageConfig configures the image-generation provider.
type ImageConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// VideoConfig configures the video-generation backend.
type VideoConfig struct {
	// Backend selects the implementation: "runway" or "stub".
	Backend    string        `mapstructure:"backend"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig configures the S3-compatible object store and the CDN URL
// handed back to callers.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// AccountID fills {account} in the CDN template. Empty falls back to
	// AccessKeyID.
	AccountID       string        `mapstructure:"account_id"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	CDNURLTemplate  string        `mapstructure:"cdn_url_template"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

// Enabled reports whether storage credentials are present.
func (s StorageConfig) Enabled() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// Account is the CDN account segment.
func (s StorageConfig) Account() string {
	if s.AccountID != "" {
		return s.AccountID
	}
	return s.AccessKeyID
}

// AIConfig configures the optional AI enrichment call.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig configures category and product page fetching.
type CatalogConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
}

// Video backends.
const (
	VideoBackendRunway = "runway"
	VideoBackendStub   = "stub"
)

var defaults = map[string]any{
	"log_level": "info",

	"wiki.base_url":            "https://ru.wikipedia.org/w/api.php",
	"wiki.user_agent":          "Mozilla/5.0 (compatible; BrandSearchBot/1.0)",
	"wiki.analyzer_user_agent": "Mozilla/5.0 (compatible; SEOAnalyzerBot/1.0)",
	"wiki.timeout":             10 * time.Second,

	"image.base_url": "https://api.openai.com",
	"image.model":    "dall-e-3",
	"image.timeout":  60 * time.Second,

	"video.backend":     VideoBackendRunway,
	"video.base_url":    "https://api.runwayml.com",
	"video.api_version": "2024-11-06",
	"video.timeout":     30 * time.Second,

	"storage.endpoint":         "https://bucket.poehali.dev",
	"storage.region":           "us-east-1",
	"storage.bucket":           "files",
	"storage.key_prefix":       "seo-media",
	"storage.cdn_url_template": "https://cdn.poehali.dev/projects/{account}/bucket/{key}",
	"storage.download_timeout": 60 * time.Second,

	"ai.model":   "gemini-2.5-flash",
	"ai.timeout": 60 * time.Second,

	"catalog.user_agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"catalog.timeout":    15 * time.Second,
	"catalog.max_bytes":  int64(10 << 20),
}

// envBindings maps config keys to the environment variables that override
// them. Storage credentials avoid AWS_ACCESS_KEY_ID and friends, which the
// Lambda runtime reserves for the execution role.
var envBindings = map[string]string{
	"log_level": "SEO_LOG_LEVEL",

	"wiki.base_url":            "WIKI_API_URL",
	"wiki.user_agent":          "WIKI_USER_AGENT",
	"wiki.analyzer_user_agent": "WIKI_ANALYZER_USER_AGENT",

	"image.api_key":  "OPENAI_API_KEY",
	"image.base_url": "OPENAI_BASE_URL",
	"image.model":    "OPENAI_IMAGE_MODEL",

	"video.backend":  "VIDEO_BACKEND",
	"video.api_key":  "RUNWAY_API_KEY",
	"video.base_url": "RUNWAY_BASE_URL",

	"storage.endpoint":          "S3_ENDPOINT",
	"storage.region":            "S3_REGION",
	"storage.bucket":            "S3_BUCKET",
	"storage.access_key_id":     "S3_ACCESS_KEY_ID",
	"storage.secret_access_key": "S3_SECRET_ACCESS_KEY",
	"storage.account_id":        "S3_ACCOUNT_ID",
	"storage.cdn_url_template":  "CDN_URL_TEMPLATE",

	"ai.api_key": "GEMINI_API_KEY",
	"ai.model":   "GEMINI_MODEL",

	"catalog.user_agent": "CATALOG_USER_AGENT",
}

// Load reads .env (if present), the optional config file, and the
// environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(viper.New(), os.Getenv("SEO_CONFIG_FILE"))
}

// LoadFrom populates Config using v. configFile may be empty.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that cannot be degraded gracefully.
func (c *Config) Validate() error {
	c.Video.Backend = strings.ToLower(strings.TrimSpace(c.Video.Backend))
	switch c.Video.Backend {
	case VideoBackendRunway, VideoBackendStub:
	default:
		return fmt.Errorf("video.backend must be %q or %q, got %q", VideoBackendRunway, VideoBackendStub, c.Video.Backend)
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket is required")
	}
	if !strings.Contains(c.Storage.CDNURLTemplate, "{key}") {
		return errors.New("storage.cdn_url_template must contain {key}")
	}
	return nil
}
