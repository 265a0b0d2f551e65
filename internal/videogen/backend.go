// Package videogen submits video generation jobs and polls their status.
// Two backends exist: the Runway provider and a stub that only queues a
// placeholder. The deployment selects one through configuration.
package videogen

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fpang/seo-content-helper/internal/config"
)

// Job states reported to callers.
const (
	StatusProcessing = "processing"
	StatusQueued     = "queued"
)

// Provider task states.
const (
	StatePending   = "PENDING"
	StateRunning   = "RUNNING"
	StateSucceeded = "SUCCEEDED"
	StateFailed    = "FAILED"
	StateCancelled = "CANCELLED"
)

// Options are the caller-tunable generation options.
type Options struct {
	Duration  int
	VideoType string
}

// OptionsFrom reads options from a free-form mapping. duration may be a
// number or a numeric string; anything unparsable counts as 5 seconds.
// video_type defaults to "video".
func OptionsFrom(m map[string]any) Options {
	opts := Options{Duration: 5, VideoType: "video"}
	switch v := m["duration"].(type) {
	case float64:
		opts.Duration = int(math.Trunc(v))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			opts.Duration = n
		}
	}
	if s, ok := m["video_type"].(string); ok && s != "" {
		opts.VideoType = s
	}
	return opts
}

// QuantizeDuration maps any duration above 5 seconds to 10 and everything
// else to 5.
func QuantizeDuration(seconds int) int {
	if seconds > 5 {
		return 10
	}
	return 5
}

// AspectRatio is 16:9 for the "video" type and 9:16 for everything else.
func AspectRatio(videoType string) string {
	if videoType == "video" {
		return "16:9"
	}
	return "9:16"
}

// Job is the handle returned by a submission.
type Job struct {
	TaskID        string
	Status        string
	Prompt        string
	Duration      int
	Message       string
	EstimatedTime string
	CheckURL      string
	Note          string
}

// TaskStatus is a provider-side snapshot of a job.
type TaskStatus struct {
	TaskID string
	// State is the provider state, e.g. StateRunning.
	State         string
	Progress      float64
	OutputURL     string
	FailureReason string
	Prompt        string
}

// Backend submits jobs and reports their status. The provider is the only
// source of truth; backends keep no job state.
type Backend interface {
	Name() string
	Submit(ctx context.Context, prompt string, opts Options) (*Job, error)
	Poll(ctx context.Context, taskID string) (*TaskStatus, error)
}

// NotConfiguredError reports a missing provider credential.
type NotConfiguredError struct {
	Key string
	// Note tells the operator where to get the credential. May be empty.
	Note string
}

func (e *NotConfiguredError) Error() string {
	return e.Key + " not configured"
}

// New returns the backend selected by cfg.Backend.
func New(cfg config.VideoConfig) (Backend, error) {
	switch cfg.Backend {
	case config.VideoBackendRunway, "":
		return NewRunway(cfg), nil
	case config.VideoBackendStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown video backend %q", cfg.Backend)
	}
}
