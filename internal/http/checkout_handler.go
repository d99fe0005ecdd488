package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
)

// CatalogPath is where the empty-cart guard sends the shopper.
const CatalogPath = "/api/v1/products"

// CheckoutFlow is the checkout wizard exposed over HTTP.
type CheckoutFlow interface {
	Enter() (checkout.Route, checkout.View)
	View() checkout.View
	SubmitDelivery(info domain.DeliveryInfo) (checkout.View, error)
	Back() (checkout.View, error)
	SubmitPayment(ctx context.Context, info domain.PaymentInfo) (checkout.View, error)
	Reset() (checkout.View, error)
}

type CheckoutHandler struct {
	flow CheckoutFlow
}

func NewCheckoutHandler(flow CheckoutFlow) *CheckoutHandler {
	return &CheckoutHandler{flow: flow}
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	route, view := h.flow.Enter()
	if route == checkout.RouteCatalog {
		http.Redirect(w, r, CatalogPath, http.StatusSeeOther)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	var info domain.DeliveryInfo
	if !decodeJSON(w, r, &info) {
		return
	}

	view, err := h.flow.SubmitDelivery(info)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, _ *http.Request) {
	view, err := h.flow.Back()
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SubmitPayment blocks until the charge completes.
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var info domain.PaymentInfo
	if !decodeJSON(w, r, &info) {
		return
	}

	view, err := h.flow.SubmitPayment(r.Context(), info)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, _ *http.Request) {
	view, err := h.flow.Reset()
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func respondCheckoutError(w http.ResponseWriter, err error) {
	var verrs checkout.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondFieldErrors(w, verrs)
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		respondError(w, http.StatusConflict, "submission_in_progress", err.Error())
	case errors.Is(err, checkout.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, checkout.ErrCheckoutComplete):
		respondError(w, http.StatusConflict, "checkout_complete", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrChargeFailed):
		respondError(w, http.StatusBadGateway, "payment_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
