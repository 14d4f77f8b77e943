// Package app assembles the storefront HTTP API.
package app

import (
	"net/http"

	"github.com/itechcomputers/storefront/app/catalog"
	"github.com/itechcomputers/storefront/app/categories"
	"github.com/itechcomputers/storefront/app/httpx"
	"github.com/itechcomputers/storefront/app/pcbuilder"
	"go.uber.org/zap"
)

type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	PCBuilder  *pcbuilder.Handler
}

// NewRouter registers every route and wraps the mux with recovery and
// access logging.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", h.Catalog.HandleGet)
	mux.HandleFunc("GET /products/{slug}", h.Catalog.HandleGetProduct)
	mux.HandleFunc("POST /products/{slug}/resolve", h.Catalog.HandleResolve)

	mux.HandleFunc("GET /categories", h.Categories.HandleGetAll)
	mux.HandleFunc("POST /categories", h.Categories.HandleCreate)

	mux.HandleFunc("GET /pc-builder/config", h.PCBuilder.HandleConfig)
	mux.HandleFunc("GET /pc-builder/components/{category}", h.PCBuilder.HandleComponents)
	mux.HandleFunc("POST /pc-builder/summary", h.PCBuilder.HandleSummary)
	mux.HandleFunc("POST /pc-builder/quotes", h.PCBuilder.HandleCreateQuote)
	mux.HandleFunc("GET /pc-builder/quotes/{reference}", h.PCBuilder.HandleGetQuote)
	mux.HandleFunc("POST /pc-builder/requirements", h.PCBuilder.HandleCreateRequirements)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return httpx.Chain(mux, httpx.Recovery(logger), httpx.Logging(logger))
}
