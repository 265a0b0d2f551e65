package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// ErrPageTooLarge is returned when a decoded page exceeds the configured
// max_bytes.
var ErrPageTooLarge = errors.New("page too large")

// acceptEncoding lists the encodings decodeBody understands.
const acceptEncoding = "gzip, deflate, zstd"

// Fetcher downloads shop pages the way a desktop browser would.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewFetcher creates a Fetcher from cfg. Transparent decompression is
// disabled so the advertised encodings, zstd included, are decoded here.
func NewFetcher(cfg config.CatalogConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true
	return &Fetcher{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch returns the page body as text. Invalid UTF-8 sequences are dropped.
// A decoded body larger than max_bytes fails with ErrPageTooLarge.
func (f *Fetcher) Fetch(ctx context.Context, url string) (page string, err error) {
	start := time.Now()
	defer func() { metrics.Upstream("page", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, closeBody, err := decodeBody(resp)
	if err != nil {
		return "", err
	}
	defer closeBody()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrPageTooLarge, f.maxBytes)
	}

	log.Debug().
		Str("url", url).
		Str("encoding", resp.Header.Get("Content-Encoding")).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("Page fetched")
	return strings.ToValidUTF8(string(data), ""), nil
}

func decodeBody(resp *http.Response) (io.Reader, func(), error) {
	noop := func() {}
	switch enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
		return resp.Body, noop, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip body: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("deflate body: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd body: %w", err)
		}
		return dec, dec.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content encoding %q", enc)
	}
}
