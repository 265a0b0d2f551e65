package videogen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// RunwayPromptSuffix is appended to every prompt.
const RunwayPromptSuffix = ". High quality, professional, smooth motion, cinematic."

const runwayKeyNote = "Get your API key from https://app.runwayml.com/settings/api"

type runwaySubmitRequest struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Ratio    string `json:"ratio"`
	Seed     int64  `json:"seed"`
}

type runwayTask struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Progress      float64  `json:"progress"`
	Output        []string `json:"output"`
	FailureReason string   `json:"failure_reason"`
	Prompt        string   `json:"prompt"`
}

// Runway is the Runway Gen-3 backend.
type Runway struct {
	http       *resty.Client
	apiKey     string
	baseURL    string
	apiVersion string
	now        func() time.Time
}

// NewRunway creates a Runway backend from cfg.
func NewRunway(cfg config.VideoConfig) *Runway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runway{
		http:       resty.New().SetTimeout(timeout),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		apiVersion: cfg.APIVersion,
		now:        time.Now,
	}
}

// Name implements Backend.
func (r *Runway) Name() string { return config.VideoBackendRunway }

func (r *Runway) request(ctx context.Context) *resty.Request {
	return r.http.R().
		SetContext(ctx).
		SetAuthToken(r.apiKey).
		SetHeader("X-Runway-Version", r.apiVersion)
}

// TaskURL is the provider URL of a task.
func (r *Runway) TaskURL(taskID string) string {
	return r.baseURL + "/v1/tasks/" + taskID
}

// Submit starts a generation job.
func (r *Runway) Submit(ctx context.Context, prompt string, opts Options) (job *Job, err error) {
	if r.apiKey == "" {
		return nil, &NotConfiguredError{Key: "RUNWAY_API_KEY", Note: runwayKeyNote}
	}
	start := time.Now()
	defer func() { metrics.Upstream("runway", start, err) }()

	duration := QuantizeDuration(opts.Duration)
	effective := prompt + RunwayPromptSuffix
	resp, err := r.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(runwaySubmitRequest{
			Prompt:   effective,
			Duration: duration,
			Ratio:    AspectRatio(opts.VideoType),
			Seed:     r.now().Unix() % 1000000,
		}).
		Post(r.baseURL + "/v1/gen3/generations")
	if err != nil {
		return nil, fmt.Errorf("Video generation failed: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("Runway API error: %s", resp.String())
	}
	var task runwayTask
	if err := json.Unmarshal(resp.Body(), &task); err != nil {
		return nil, fmt.Errorf("Video generation failed: %w", err)
	}

	log.Info().Str("taskId", task.ID).Int("duration", duration).Msg("Video generation submitted")
	return &Job{
		TaskID:        task.ID,
		Status:        StatusProcessing,
		Prompt:        effective,
		Duration:      duration,
		Message:       fmt.Sprintf("Видео генерируется (task_id: %s). Ожидайте 1-3 минуты.", task.ID),
		EstimatedTime: "1-3 minutes",
		CheckURL:      r.TaskURL(task.ID),
		Note:          "Use task_id to check generation status and retrieve video URL when ready",
	}, nil
}

// Poll fetches the current state of a task.
func (r *Runway) Poll(ctx context.Context, taskID string) (st *TaskStatus, err error) {
	if r.apiKey == "" {
		return nil, &NotConfiguredError{Key: "RUNWAY_API_KEY"}
	}
	start := time.Now()
	defer func() { metrics.Upstream("runway", start, err) }()

	resp, err := r.request(ctx).Get(r.TaskURL(taskID))
	if err != nil {
		return nil, fmt.Errorf("Status check failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Failed to check status: %s", resp.String())
	}
	var task runwayTask
	if err := json.Unmarshal(resp.Body(), &task); err != nil {
		return nil, fmt.Errorf("Status check failed: %w", err)
	}
	if task.Status == "" {
		return nil, errors.New("Status check failed: task status missing")
	}

	st = &TaskStatus{
		TaskID:        taskID,
		State:         task.Status,
		Progress:      task.Progress,
		FailureReason: task.FailureReason,
		Prompt:        task.Prompt,
	}
	if len(task.Output) > 0 {
		st.OutputURL = task.Output[0]
	}
	log.Debug().Str("taskId", taskID).Str("state", st.State).Float64("progress", st.Progress).Msg("Video task polled")
	return st, nil
}
