package videogen

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
)

// Stub queues a placeholder job without calling any provider.
type Stub struct{}

// NewStub creates the stub backend.
func NewStub() *Stub { return &Stub{} }

// Name implements Backend.
func (s *Stub) Name() string { return config.VideoBackendStub }

// Submit returns a queued placeholder job.
func (s *Stub) Submit(_ context.Context, prompt string, opts Options) (*Job, error) {
	id := uuid.NewString()
	log.Info().Str("taskId", id).Msg("Video request queued by stub backend")
	return &Job{
		TaskID:   id,
		Status:   StatusQueued,
		Prompt:   prompt,
		Duration: QuantizeDuration(opts.Duration),
		Message:  "Запрос на генерацию видео поставлен в очередь.",
		Note:     "Video generation requires a provider integration; set VIDEO_BACKEND=runway to generate real videos",
	}, nil
}

// Poll reports every task as still queued.
func (s *Stub) Poll(_ context.Context, taskID string) (*TaskStatus, error) {
	return &TaskStatus{TaskID: taskID, State: "QUEUED"}, nil
}
