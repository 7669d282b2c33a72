package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/present"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

// CatalogHandler serves catalog lookups.
type CatalogHandler struct {
	logger *observability.Logger
	idx    *index.Index
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(logger *observability.Logger, idx *index.Index) *CatalogHandler {
	return &CatalogHandler{logger: logger, idx: idx}
}

// CategoriesResponseDTO lists the catalog's categories.
type CategoriesResponseDTO struct {
	Categories []string `json:"categories"`
}

// Categories handles GET /categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponseDTO{
		Categories: h.idx.Catalog().Categories(),
	})
}

// Product handles GET /products/{productId}.
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	p, ok := h.idx.Get(productID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found", productID)
		return
	}

	cards := present.FromRanked([]retrieval.RankedResult{{Product: p}})
	writeJSON(w, http.StatusOK, cards[0])
}
