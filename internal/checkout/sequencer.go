package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/payment"
	"github.com/rs/zerolog/log"
)

// Route tells the caller which view to render after Enter.
type Route string

const (
	RouteCheckout Route = "checkout"
	RouteCatalog  Route = "catalog"
)

// CartStore is the slice of the cart the sequencer reads and empties.
type CartStore interface {
	State() domain.CartState
	RemoveOrdered(items []domain.CartItem) (domain.CartState, error)
}

// OrderRecorder persists completed orders.
type OrderRecorder interface {
	Append(ctx context.Context, order domain.Order) error
}

// Confirmation is captured at submission time and stays stable after the cart is cleared.
type Confirmation struct {
	OrderID    string            `json:"orderId"`
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

type View struct {
	Step         domain.CheckoutStep `json:"step"`
	StepIndex    int                 `json:"stepIndex"`
	Delivery     domain.DeliveryInfo `json:"deliveryInfo"`
	Submitting   bool                `json:"submitting"`
	Confirmation *Confirmation       `json:"confirmation,omitempty"`
}

// Sequencer drives one shopper through delivery, payment and confirmation.
type Sequencer struct {
	mu sync.Mutex

	cart    CartStore
	gateway payment.Gateway
	history OrderRecorder
	ids     orders.IDGenerator
	now     func() time.Time

	step         domain.CheckoutStep
	delivery     domain.DeliveryInfo
	submitting   bool
	confirmation *Confirmation
}

func NewSequencer(cart CartStore, gateway payment.Gateway, history OrderRecorder, ids orders.IDGenerator) *Sequencer {
	return &Sequencer{
		cart:    cart,
		gateway: gateway,
		history: history,
		ids:     ids,
		now:     time.Now,
		step:    domain.CheckoutStepDelivery,
	}
}

// Enter applies the empty-cart guard. It never redirects while a payment is
// in flight or once confirmation is reached.
func (s *Sequencer) Enter() (Route, View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.submitting && s.step != domain.CheckoutStepConfirmation && s.cart.State().IsEmpty() {
		return RouteCatalog, s.viewLocked()
	}
	return RouteCheckout, s.viewLocked()
}

func (s *Sequencer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Sequencer) viewLocked() View {
	v := View{
		Step:       s.step,
		StepIndex:  s.step.Index(),
		Delivery:   s.delivery,
		Submitting: s.submitting,
	}
	if s.confirmation != nil {
		c := *s.confirmation
		c.Items = append([]domain.CartItem(nil), s.confirmation.Items...)
		v.Confirmation = &c
	}
	return v
}

func (s *Sequencer) SubmitDelivery(info domain.DeliveryInfo) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.CheckoutStepConfirmation {
		return s.viewLocked(), ErrCheckoutComplete
	}
	if s.step != domain.CheckoutStepDelivery {
		return s.viewLocked(), ErrInvalidTransition
	}

	// The form keeps what the shopper typed even when it is rejected.
	s.delivery = info
	if err := ValidateDelivery(info); err != nil {
		return s.viewLocked(), err
	}

	s.step = domain.CheckoutStepPayment
	return s.viewLocked(), nil
}

// Back returns from payment to delivery. It is refused while a charge is running.
func (s *Sequencer) Back() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.step == domain.CheckoutStepConfirmation:
		return s.viewLocked(), ErrCheckoutComplete
	case s.submitting:
		return s.viewLocked(), ErrSubmissionInProgress
	case !domain.CanTransitionTo(s.step, domain.CheckoutStepDelivery):
		return s.viewLocked(), ErrInvalidTransition
	}

	s.step = domain.CheckoutStepDelivery
	return s.viewLocked(), nil
}

// SubmitPayment charges the card and records the order. Once the charge has
// started it runs to completion even if ctx is cancelled.
func (s *Sequencer) SubmitPayment(ctx context.Context, info domain.PaymentInfo) (View, error) {
	snapshot, delivery, err := s.beginPayment(info)
	if err != nil {
		return s.View(), err
	}

	order, err := s.placeOrder(context.WithoutCancel(ctx), snapshot, delivery, info)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		log.Error().Err(err).Msg("Checkout payment failed, staying on payment step")
		return s.viewLocked(), err
	}

	s.confirmation = &Confirmation{
		OrderID:    order.ID,
		Items:      order.Items,
		TotalItems: snapshot.TotalItems,
		TotalPrice: order.TotalPrice,
	}
	s.step = domain.CheckoutStepConfirmation
	log.Info().
		Str("order_id", order.ID).
		Int("items", snapshot.TotalItems).
		Float64("total", order.TotalPrice).
		Msg("Checkout completed")
	return s.viewLocked(), nil
}

// beginPayment checks the step and claims the submitting flag.
func (s *Sequencer) beginPayment(info domain.PaymentInfo) (domain.CartState, domain.DeliveryInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.step == domain.CheckoutStepConfirmation:
		return domain.CartState{}, domain.DeliveryInfo{}, ErrCheckoutComplete
	case s.submitting:
		return domain.CartState{}, domain.DeliveryInfo{}, ErrSubmissionInProgress
	case s.step != domain.CheckoutStepPayment:
		return domain.CartState{}, domain.DeliveryInfo{}, ErrInvalidTransition
	}
	if err := ValidatePayment(info); err != nil {
		return domain.CartState{}, domain.DeliveryInfo{}, err
	}

	snapshot := s.cart.State()
	if snapshot.IsEmpty() {
		return domain.CartState{}, domain.DeliveryInfo{}, ErrEmptyCart
	}
	s.submitting = true
	return snapshot, s.delivery, nil
}

func (s *Sequencer) placeOrder(ctx context.Context, snapshot domain.CartState, delivery domain.DeliveryInfo, info domain.PaymentInfo) (domain.Order, error) {
	orderID, err := s.ids.NewID()
	if err != nil {
		return domain.Order{}, err
	}

	// Card details go no further than the gateway.
	if _, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		OrderID:    orderID,
		Amount:     snapshot.TotalAmount,
		CardHolder: info.CardHolder,
		Last4:      last4(info.CardNumber),
	}); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", ErrChargeFailed, err)
	}

	order := domain.Order{
		ID:           orderID,
		Items:        snapshot.Items,
		TotalPrice:   snapshot.TotalAmount,
		DeliveryInfo: delivery,
		Date:         s.now().UTC(),
		Status:       domain.OrderStatusReceived,
	}
	if err := s.history.Append(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("record order failed: %w", err)
	}

	// Only the ordered quantities leave the cart; items added during the charge stay.
	// The order is already recorded, so a failed cart write is not a checkout failure.
	if _, err := s.cart.RemoveOrdered(snapshot.Items); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("Failed to persist cleared cart")
	}
	return order, nil
}

// Reset starts a fresh checkout, discarding the previous confirmation.
func (s *Sequencer) Reset() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return s.viewLocked(), ErrSubmissionInProgress
	}
	s.step = domain.CheckoutStepDelivery
	s.delivery = domain.DeliveryInfo{}
	s.confirmation = nil
	return s.viewLocked(), nil
}
