// Package apigw holds the response conventions shared by every endpoint:
// CORS headers, JSON envelopes, body decoding, preflight handling, panic
// recovery and per-request metrics. Handlers are plain net/http handlers;
// the Lambda entry points wrap them with the API Gateway proxy adapter.
package apigw

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/metrics"
)

// Client-facing error messages shared across endpoints.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidJSON      = "Invalid JSON in request body"
)

// ErrInvalidJSON is returned by DecodeBody when the body is not a JSON object.
var ErrInvalidJSON = errors.New(MsgInvalidJSON)

const maxBodyBytes = 1 << 20

// RespondJSON writes data as a JSON response with the CORS origin header.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// Error sends {"error": clientMsg}. Optional internal details are logged
// server-side and never sent to the caller.
func Error(w http.ResponseWriter, status int, clientMsg string, internalDetails ...string) {
	if len(internalDetails) > 0 {
		log.Error().
			Int("status", status).
			Str("clientMsg", clientMsg).
			Strs("details", internalDetails).
			Msg("HTTP error")
	}
	RespondJSON(w, status, map[string]string{"error": clientMsg})
}

// DecodeBody unmarshals the request body into dst. An empty body decodes
// as {}. Anything that is not a JSON object yields ErrInvalidJSON.
func DecodeBody(r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return ErrInvalidJSON
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if raw[0] != '{' {
		return ErrInvalidJSON
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Debug().Err(err).Msg("Request body rejected")
		return ErrInvalidJSON
	}
	return nil
}

// Preflight answers a CORS preflight: 200 with an empty body.
func Preflight(w http.ResponseWriter, allowMethods string) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", allowMethods)
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// Endpoint wraps an endpoint handler with preflight handling, panic
// recovery and EMF request metrics. OPTIONS is answered before next runs,
// whatever else the request carries.
func Endpoint(operation, allowMethods string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				log.Error().Interface("panic", p).Str("operation", operation).Msg("Handler panicked")
				if !rec.wroteHeader {
					Error(rec, http.StatusInternalServerError, "Internal server error")
				}
			}
			metrics.New(metrics.Namespace).
				Dimension("Operation", operation).
				Count("RequestCount").
				Since("LatencyMs", start).
				Property("method", r.Method).
				Property("statusCode", rec.status).
				Flush()
			log.Debug().
				Str("operation", operation).
				Str("method", r.Method).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("Request handled")
		}()

		if r.Method == http.MethodOptions {
			Preflight(rec, allowMethods)
			return
		}
		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}
