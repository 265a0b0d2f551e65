package cli

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fpang/seo-content-helper/internal/apigw"
	"github.com/fpang/seo-content-helper/internal/brand"
	"github.com/fpang/seo-content-helper/internal/media"
	"github.com/fpang/seo-content-helper/internal/seo"
)

// Local routes. Each maps to one Lambda.
const (
	RouteBrand  = "/brand-search"
	RouteMedia  = "/media-generate"
	RouteSEO    = "/seo-analyzer"
	RouteHealth = "/health"
)

// Handlers are the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Brand http.Handler
	Media http.Handler
	SEO   http.Handler
}

// HandlersFor builds the endpoint handlers over c.
func HandlersFor(c *Components) Handlers {
	return Handlers{
		Brand: brand.NewHandler(c.Brand),
		Media: media.NewHandler(c.Media),
		SEO:   seo.NewHandler(c.SEO),
	}
}

// NewRouter mounts the endpoints under their local routes. Method checks
// stay with the endpoints so responses match the deployed ones.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Handle(RouteBrand, h.Brand)
	r.Handle(RouteMedia, h.Media)
	r.Handle(RouteSEO, h.SEO)
	r.HandleFunc(RouteHealth, func(w http.ResponseWriter, _ *http.Request) {
		apigw.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}
