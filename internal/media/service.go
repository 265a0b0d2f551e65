// Package media generates product images and videos and re-uploads the
// results to permanent storage. Every outcome, including missing
// credentials and provider failures, is reported as a Result payload.
package media

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/imagegen"
	"github.com/fpang/seo-content-helper/internal/storage"
	"github.com/fpang/seo-content-helper/internal/videogen"
)

// Media types accepted in requests.
const (
	TypeImage = "image"
	TypeVideo = "video"
)

// Result statuses.
const (
	StatusSuccess   = "success"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusError     = "error"
)

// Result is the JSON payload returned for every media operation.
type Result struct {
	Status        string   `json:"status"`
	Type          string   `json:"type,omitempty"`
	URL           string   `json:"url,omitempty"`
	OriginalURL   string   `json:"original_url,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	Size          string   `json:"size,omitempty"`
	GeneratedAt   string   `json:"generated_at,omitempty"`
	TaskID        string   `json:"task_id,omitempty"`
	Message       string   `json:"message,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	EstimatedTime string   `json:"estimated_time,omitempty"`
	CheckURL      string   `json:"check_url,omitempty"`
	Progress      *float64 `json:"progress,omitempty"`
	Error         string   `json:"error,omitempty"`
	Note          string   `json:"note,omitempty"`
}

// ImageGenerator produces images.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) (*imagegen.Image, error)
}

// Persister copies provider media into permanent storage, returning the
// source URL when that fails.
type Persister interface {
	Persist(ctx context.Context, sourceURL string, kind storage.Kind, prompt string) string
}

// Service dispatches media requests to the configured providers.
type Service struct {
	images ImageGenerator
	videos videogen.Backend
	store  Persister
	now    func() time.Time
}

// NewService creates a Service.
func NewService(images ImageGenerator, videos videogen.Backend, store Persister) *Service {
	return &Service{images: images, videos: videos, store: store, now: time.Now}
}

// GenerateImage generates an image and stores it permanently.
func (s *Service) GenerateImage(ctx context.Context, prompt string, options map[string]any) Result {
	opts := imagegen.OptionsFrom(options)
	img, err := s.images.Generate(ctx, prompt, opts)
	if err != nil {
		log.Warn().Err(err).Msg("Image generation did not complete")
		return errorResult(err)
	}

	url := s.store.Persist(ctx, img.URL, storage.KindImage, prompt)
	return Result{
		Status:      StatusSuccess,
		Type:        TypeImage,
		URL:         url,
		OriginalURL: img.URL,
		Prompt:      img.Prompt,
		Size:        img.Size,
		GeneratedAt: s.now().UTC().Format("2006-01-02T15:04:05.000000"),
	}
}

// GenerateVideo submits a video job on the configured backend.
func (s *Service) GenerateVideo(ctx context.Context, prompt string, options map[string]any) Result {
	job, err := s.videos.Submit(ctx, prompt, videogen.OptionsFrom(options))
	if err != nil {
		log.Warn().Err(err).Str("backend", s.videos.Name()).Msg("Video submission did not complete")
		return errorResult(err)
	}
	return Result{
		Status:        job.Status,
		Type:          TypeVideo,
		TaskID:        job.TaskID,
		Message:       job.Message,
		Prompt:        job.Prompt,
		Duration:      job.Duration,
		EstimatedTime: job.EstimatedTime,
		CheckURL:      job.CheckURL,
		Note:          job.Note,
	}
}

// VideoStatus polls a video job and translates the provider state.
// Finished videos are re-uploaded to permanent storage.
func (s *Service) VideoStatus(ctx context.Context, taskID string) Result {
	st, err := s.videos.Poll(ctx, taskID)
	if err != nil {
		log.Warn().Err(err).Str("taskId", taskID).Msg("Video status check did not complete")
		return errorResult(err)
	}

	switch st.State {
	case videogen.StateSucceeded:
		if st.OutputURL == "" {
			return Result{Status: StatusError, Error: "Video URL not found in response"}
		}
		prompt := st.Prompt
		if prompt == "" {
			prompt = "video"
		}
		return Result{
			Status:      StatusCompleted,
			Type:        TypeVideo,
			URL:         s.store.Persist(ctx, st.OutputURL, storage.KindVideo, prompt),
			OriginalURL: st.OutputURL,
			TaskID:      taskID,
		}
	case videogen.StatePending, videogen.StateRunning:
		progress := st.Progress
		return Result{
			Status:   videogen.StatusProcessing,
			Progress: &progress,
			TaskID:   taskID,
			Message:  fmt.Sprintf("Генерация в процессе: %s%%", strconv.FormatFloat(progress, 'f', -1, 64)),
		}
	case videogen.StateFailed:
		reason := st.FailureReason
		if reason == "" {
			reason = "Unknown error"
		}
		return Result{Status: StatusFailed, Error: reason, TaskID: taskID}
	default:
		return Result{Status: strings.ToLower(st.State), TaskID: taskID}
	}
}

func errorResult(err error) Result {
	var vnc *videogen.NotConfiguredError
	if errors.As(err, &vnc) {
		return Result{Status: StatusError, Error: vnc.Error(), Note: vnc.Note}
	}
	return Result{Status: StatusError, Error: err.Error()}
}
