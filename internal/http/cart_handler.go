package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CartStore is the cart surface exposed over HTTP.
type CartStore interface {
	State() domain.CartState
	AddToCart(product domain.Product) (domain.CartState, error)
	RemoveFromCart(productID int64) (domain.CartState, error)
	UpdateQuantity(productID int64, quantity int) (domain.CartState, error)
	ClearCart() (domain.CartState, error)
}

type CartHandler struct {
	cart     CartStore
	products ProductSource
	timeout  time.Duration
}

func NewCartHandler(cart CartStore, products ProductSource, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     cart,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.State())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.products.Product(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}

	state, err := h.cart.AddToCart(product)
	respondCart(w, http.StatusCreated, state, err)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	// The store sets quantities verbatim, so the floor is enforced here.
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	state, err := h.cart.UpdateQuantity(productID, req.Quantity)
	respondCart(w, http.StatusOK, state, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.cart.RemoveFromCart(productID)
	respondCart(w, http.StatusOK, state, err)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, _ *http.Request) {
	state, err := h.cart.ClearCart()
	respondCart(w, http.StatusOK, state, err)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

// respondCart writes the cart state. A persistence failure is logged but the
// in-memory mutation still stands, so the shopper sees the new state.
func respondCart(w http.ResponseWriter, status int, state domain.CartState, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Cart mutation applied but not persisted")
	}
	respondJSON(w, status, state)
}
