package media

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/apigw"
)

// AllowMethods is the preflight method list for this endpoint.
const AllowMethods = "GET, POST, OPTIONS"

// Request is the POST body: a media kind, a prompt and free-form options.
type Request struct {
	Type    *string        `json:"type"`
	Prompt  string         `json:"prompt"`
	Options map[string]any `json:"options"`
}

// NewHandler returns the endpoint handler. POST submits a generation
// request; GET ?task_id= polls a video job.
func NewHandler(svc *Service) http.Handler {
	return apigw.Endpoint("media", AllowMethods, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			taskID := r.URL.Query().Get("task_id")
			if taskID == "" {
				apigw.Error(w, http.StatusBadRequest, "task_id parameter required")
				return
			}
			apigw.RespondJSON(w, http.StatusOK, svc.VideoStatus(r.Context(), taskID))

		case http.MethodPost:
			var req Request
			if err := apigw.DecodeBody(r, &req); err != nil {
				apigw.Error(w, http.StatusBadRequest, apigw.MsgInvalidJSON)
				return
			}
			// A missing type means image; an explicit empty one is rejected below.
			mediaType := TypeImage
			if req.Type != nil {
				mediaType = *req.Type
			}
			prompt := req.Prompt
			if prompt == "" {
				apigw.Error(w, http.StatusBadRequest, "Prompt is required")
				return
			}

			log.Info().Str("type", mediaType).Int("promptLen", len(prompt)).Msg("Media generation requested")
			switch mediaType {
			case TypeImage:
				apigw.RespondJSON(w, http.StatusOK, svc.GenerateImage(r.Context(), prompt, req.Options))
			case TypeVideo:
				apigw.RespondJSON(w, http.StatusOK, svc.GenerateVideo(r.Context(), prompt, req.Options))
			default:
				apigw.Error(w, http.StatusBadRequest, "Invalid media type")
			}

		default:
			apigw.Error(w, http.StatusMethodNotAllowed, apigw.MsgMethodNotAllowed)
		}
	}))
}
