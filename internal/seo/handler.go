// Package seo serves the SEO analyzer endpoint, which dispatches on the
// request type to brand lookup, category page analysis or product page
// enrichment.
package seo

import (
	"context"
	"net/http"
	"strings"

	"github.com/fpang/seo-content-helper/internal/apigw"
	"github.com/fpang/seo-content-helper/internal/brand"
	"github.com/fpang/seo-content-helper/internal/catalog"
	"github.com/fpang/seo-content-helper/internal/enrich"
	"github.com/fpang/seo-content-helper/internal/product"
)

// AllowMethods is the preflight method list for this endpoint.
const AllowMethods = "POST, OPTIONS"

// Request types.
const (
	TypeBrand    = "brand"
	TypeCategory = "category"
	TypeProduct  = "product"
)

// Product report sources.
const (
	SourcePageAnalysis = "page_analysis"
	SourceAI           = "ai"
	SourceBasic        = "basic"
)

const msgInvalidType = `Invalid type. Use "brand", "category" or "product"`

// CategoryAnalyzer analyzes a category page.
type CategoryAnalyzer interface {
	Analyze(ctx context.Context, url string) (*catalog.Analysis, error)
}

// ProductEnricher builds an AI profile for a product page, or nil.
type ProductEnricher interface {
	Enrich(ctx context.Context, page string, basic product.Basic) *enrich.Profile
}

// Deps are the collaborators of the analyzer endpoint.
type Deps struct {
	Brands     brand.Lookuper
	Categories CategoryAnalyzer
	Pages      catalog.PageFetcher
	Enricher   ProductEnricher
}

type request struct {
	Type         *string `json:"type"`
	BrandName    string  `json:"brandName"`
	CategoryURL  string  `json:"categoryUrl"`
	CategoryName string  `json:"categoryName"`
	ProductURL   string  `json:"productUrl"`
}

// BrandResponse answers type "brand".
type BrandResponse struct {
	Type      string `json:"type"`
	BrandInfo string `json:"brandInfo"`
	Source    string `json:"source"`
}

// CategoryResponse answers type "category".
type CategoryResponse struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Analysis    *catalog.Analysis `json:"analysis"`
	Source      string            `json:"source"`
}

// ProductResponse answers type "product".
type ProductResponse struct {
	Type    string          `json:"type"`
	Basic   product.Basic   `json:"basic"`
	Profile *enrich.Profile `json:"profile"`
	Report  string          `json:"report"`
	Source  string          `json:"source"`
}

type handler struct {
	deps Deps
}

// NewHandler returns the analyzer endpoint handler.
func NewHandler(deps Deps) http.Handler {
	h := &handler{deps: deps}
	return apigw.Endpoint("seo", AllowMethods, http.HandlerFunc(h.serve))
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apigw.Error(w, http.StatusMethodNotAllowed, apigw.MsgMethodNotAllowed)
		return
	}

	var req request
	if err := apigw.DecodeBody(r, &req); err != nil {
		apigw.Error(w, http.StatusBadRequest, apigw.MsgInvalidJSON)
		return
	}

	kind := TypeBrand
	if req.Type != nil {
		kind = *req.Type
	}
	switch kind {
	case TypeBrand:
		h.brand(r.Context(), w, req)
	case TypeCategory:
		h.category(r.Context(), w, req)
	case TypeProduct:
		h.product(r.Context(), w, req)
	default:
		apigw.Error(w, http.StatusBadRequest, msgInvalidType)
	}
}

func (h *handler) brand(ctx context.Context, w http.ResponseWriter, req request) {
	name := strings.TrimSpace(req.BrandName)
	if name == "" {
		apigw.Error(w, http.StatusBadRequest, "brandName is required")
		return
	}
	info, err := h.deps.Brands.Brand(ctx, name)
	if err != nil {
		apigw.Error(w, http.StatusInternalServerError, err.Error(), "brand="+name)
		return
	}
	apigw.RespondJSON(w, http.StatusOK, BrandResponse{
		Type:      TypeBrand,
		BrandInfo: info.BrandInfo,
		Source:    info.Source,
	})
}

func (h *handler) category(ctx context.Context, w http.ResponseWriter, req request) {
	url := strings.TrimSpace(req.CategoryURL)
	name := strings.TrimSpace(req.CategoryName)
	if url == "" {
		apigw.Error(w, http.StatusBadRequest, "categoryUrl is required")
		return
	}
	if name == "" {
		apigw.Error(w, http.StatusBadRequest, "categoryName is required")
		return
	}

	resp, err := h.deps.Category(ctx, url, name)
	if err != nil {
		apigw.Error(w, http.StatusInternalServerError, err.Error(), "url="+url)
		return
	}
	apigw.RespondJSON(w, http.StatusOK, resp)
}

func (h *handler) product(ctx context.Context, w http.ResponseWriter, req request) {
	url := strings.TrimSpace(req.ProductURL)
	if url == "" {
		apigw.Error(w, http.StatusBadRequest, "productUrl is required")
		return
	}

	resp, err := h.deps.Product(ctx, url)
	if err != nil {
		apigw.Error(w, http.StatusInternalServerError, err.Error(), "url="+url)
		return
	}
	apigw.RespondJSON(w, http.StatusOK, resp)
}
