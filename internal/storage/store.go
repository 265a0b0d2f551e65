// Package storage re-uploads provider media (often short-lived URLs) into
// the project's S3-compatible bucket and returns the permanent CDN URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// Kind is the media kind being stored.
type Kind string

// Media kinds.
const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Extension returns the object key extension for k.
func (k Kind) Extension() string {
	if k == KindVideo {
		return "mp4"
	}
	return "png"
}

// ContentType returns the stored content type for k.
func (k Kind) ContentType() string {
	if k == KindVideo {
		return "video/mp4"
	}
	return "image/png"
}

// projectTag is the URL-encoded object tagging string for cost allocation.
const projectTag = "Project=seo-content-helper"

const promptPrefixLen = 30

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaStore copies media from a source URL into object storage.
type MediaStore struct {
	client   ObjectPutter
	http     *resty.Client
	bucket   string
	prefix   string
	account  string
	template string
	now      func() time.Time
}

// NewMediaStore creates a MediaStore. A nil client, or storage config
// without credentials, yields a store whose Persist returns the source URL.
func NewMediaStore(client ObjectPutter, cfg config.StorageConfig) *MediaStore {
	timeout := cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if !cfg.Enabled() {
		client = nil
	}
	return &MediaStore{
		client:   client,
		http:     resty.New().SetTimeout(timeout),
		bucket:   cfg.Bucket,
		prefix:   cfg.KeyPrefix,
		account:  cfg.Account(),
		template: cfg.CDNURLTemplate,
		now:      time.Now,
	}
}

// Enabled reports whether uploads are attempted at all.
func (s *MediaStore) Enabled() bool {
	return s.client != nil
}

// Persist downloads sourceURL and stores it under a key derived from kind
// and prompt. Any failure returns sourceURL unchanged.
func (s *MediaStore) Persist(ctx context.Context, sourceURL string, kind Kind, prompt string) string {
	if !s.Enabled() {
		log.Debug().Str("kind", string(kind)).Msg("Storage disabled, keeping provider URL")
		return sourceURL
	}
	url, err := s.upload(ctx, sourceURL, kind, prompt)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Media re-upload failed, keeping provider URL")
		return sourceURL
	}
	return url
}

func (s *MediaStore) upload(ctx context.Context, sourceURL string, kind Kind, prompt string) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.Upstream("storage", start, err) }()

	resp, err := s.http.R().SetContext(ctx).Get(sourceURL)
	if err != nil {
		return "", fmt.Errorf("download media: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("download media: status %d", resp.StatusCode())
	}
	data := resp.Body()

	key := ObjectKey(s.prefix, kind, prompt, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(kind.ContentType()),
		Tagging:     aws.String(projectTag),
	})
	if err != nil {
		return "", fmt.Errorf("S3 PutObject: %w", err)
	}

	log.Info().
		Str("key", key).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("Media stored")
	return s.CDNURL(key), nil
}

// CDNURL expands the CDN template for key.
func (s *MediaStore) CDNURL(key string) string {
	return strings.NewReplacer("{account}", s.account, "{key}", key).Replace(s.template)
}

// ObjectKey builds "<prefix>/<kind>_<safe prompt>_<unix>.<ext>".
func ObjectKey(prefix string, kind Kind, prompt string, ts time.Time) string {
	key := fmt.Sprintf("%s_%s_%d.%s", kind, SafePromptPrefix(prompt), ts.Unix(), kind.Extension())
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// SafePromptPrefix keeps the first 30 characters of prompt and replaces
// every character that is not a letter or digit with an underscore.
func SafePromptPrefix(prompt string) string {
	r := []rune(prompt)
	if len(r) > promptPrefixLen {
		r = r[:promptPrefixLen]
	}
	for i, c := range r {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			r[i] = '_'
		}
	}
	return string(r)
}
