package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/rs/zerolog/log"
)

type OrderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderLister
	timeout time.Duration
}

func NewOrdersHandler(orders OrderLister, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: orders})
}
