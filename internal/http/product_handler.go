package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
)

// ProductSource is the read side of the catalog.
type ProductSource interface {
	Load(ctx context.Context) catalog.Snapshot
	Product(ctx context.Context, id int64) (domain.Product, error)
}

type ProductHandler struct {
	catalog ProductSource
	timeout time.Duration
}

func NewProductHandler(catalog ProductSource, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Status     catalog.Status   `json:"status"`
	Error      string           `json:"error,omitempty"`
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
}

// List serves GET /products?category=&q=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap := h.catalog.Load(ctx)
	resp := ProductsResponse{
		Status:     snap.Status,
		Error:      snap.Error,
		Products:   catalog.Filter(snap.Products, r.URL.Query().Get("category"), r.URL.Query().Get("q")),
		Categories: snap.Categories,
	}

	status := http.StatusOK
	if snap.Status == catalog.StatusFailed {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, resp)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap := h.catalog.Load(ctx)
	if snap.Status == catalog.StatusFailed {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", snap.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"categories": snap.Categories})
}
