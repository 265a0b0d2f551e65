// Package brand serves the brand lookup endpoint.
package brand

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/apigw"
	"github.com/fpang/seo-content-helper/internal/wiki"
)

// AllowMethods is the preflight method list for this endpoint.
const AllowMethods = "POST, OPTIONS"

// Lookuper resolves a brand name to a description.
type Lookuper interface {
	Brand(ctx context.Context, brand string) (wiki.BrandInfo, error)
}

type request struct {
	BrandName string `json:"brandName"`
}

// NewHandler returns the endpoint handler: POST {"brandName": "..."}.
func NewHandler(lookup Lookuper) http.Handler {
	return apigw.Endpoint("brand", AllowMethods, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			apigw.Error(w, http.StatusMethodNotAllowed, apigw.MsgMethodNotAllowed)
			return
		}

		var req request
		if err := apigw.DecodeBody(r, &req); err != nil {
			apigw.Error(w, http.StatusBadRequest, apigw.MsgInvalidJSON)
			return
		}
		name := strings.TrimSpace(req.BrandName)
		if name == "" {
			apigw.Error(w, http.StatusBadRequest, "brandName is required")
			return
		}

		info, err := lookup.Brand(r.Context(), name)
		if err != nil {
			log.Error().Err(err).Str("brand", name).Msg("Brand lookup failed")
			apigw.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Info().Str("brand", name).Str("source", info.Source).Msg("Brand lookup complete")
		apigw.RespondJSON(w, http.StatusOK, info)
	}))
}
