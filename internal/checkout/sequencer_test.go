package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     repository.KVRepository
	cart     *cart.Store
	history  *orders.History
	gateway  *MockGateway
	sequence *Sequencer
}

func setupSequencer(t *testing.T, items ...domain.CartItem) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewMemoryRepository()
	t.Cleanup(func() { repo.Close() })

	store, err := cart.Open(ctx, repo, time.Second)
	require.NoError(t, err)
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			_, err := store.AddToCart(item.Product)
			require.NoError(t, err)
		}
	}

	history := orders.NewHistory(repo)
	gateway := &MockGateway{}
	seq := NewSequencer(store, gateway, history, MockIDs{ID: "ORD-test"})
	seq.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{repo: repo, cart: store, history: history, gateway: gateway, sequence: seq}
}

func backpack(quantity int) domain.CartItem {
	return domain.CartItem{
		Product:  domain.Product{ID: 1, Title: "Backpack", Price: 100, Category: "men's clothing"},
		Quantity: quantity,
	}
}

func TestCheckout_EndToEnd(t *testing.T) {
	f := setupSequencer(t, backpack(2))
	ctx := context.Background()

	route, view := f.sequence.Enter()
	assert.Equal(t, RouteCheckout, route)
	assert.Equal(t, domain.CheckoutStepDelivery, view.Step)

	view, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepPayment, view.Step)

	view, err = f.sequence.SubmitPayment(ctx, validPayment())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepConfirmation, view.Step)
	assert.False(t, view.Submitting)

	history, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ORD-test", history[0].ID)
	assert.Equal(t, 200.0, history[0].TotalPrice)
	assert.Equal(t, domain.OrderStatusReceived, history[0].Status)
	assert.Equal(t, validDelivery(), history[0].DeliveryInfo)

	assert.True(t, f.cart.State().IsEmpty())

	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "ORD-test", view.Confirmation.OrderID)
	require.Len(t, view.Confirmation.Items, 1)
	assert.Equal(t, 2, view.Confirmation.Items[0].Quantity)
	assert.Equal(t, 2, view.Confirmation.TotalItems)

	route, view = f.sequence.Enter()
	assert.Equal(t, RouteCheckout, route, "confirmation must survive the cleared cart")
	assert.Equal(t, 2, view.Confirmation.Items[0].Quantity)

	require.Len(t, f.gateway.Requests, 1)
	assert.Equal(t, "1111", f.gateway.Requests[0].Last4)
	assert.Equal(t, 200.0, f.gateway.Requests[0].Amount)
}

func TestSubmitDelivery_MissingEmailStays(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	info := validDelivery()
	info.Email = ""

	view, err := f.sequence.SubmitDelivery(info)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "email")
	assert.Equal(t, domain.CheckoutStepDelivery, view.Step)
	assert.Equal(t, "Ana", view.Delivery.FirstName)
}

func TestEnter_EmptyCartRedirectsToCatalog(t *testing.T) {
	f := setupSequencer(t)

	route, view := f.sequence.Enter()
	assert.Equal(t, RouteCatalog, route)
	assert.Equal(t, domain.CheckoutStepDelivery, view.Step)
}

func TestEnter_EmptiedCartDuringPaymentRedirects(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	_, err = f.cart.ClearCart()
	require.NoError(t, err)

	route, _ := f.sequence.Enter()
	assert.Equal(t, RouteCatalog, route)
}

func TestBack(t *testing.T) {
	f := setupSequencer(t, backpack(1))

	_, err := f.sequence.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	view, err := f.sequence.Back()
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepDelivery, view.Step)
	assert.Equal(t, validDelivery(), view.Delivery, "delivery form is kept")
}

func TestSubmitPayment_WrongStep(t *testing.T) {
	f := setupSequencer(t, backpack(1))

	_, err := f.sequence.SubmitPayment(context.Background(), validPayment())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, f.gateway.calls())
}

func TestSubmitPayment_InvalidStaysInPayment(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	info := validPayment()
	info.CVV = "1"
	view, err := f.sequence.SubmitPayment(context.Background(), info)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "cvv")
	assert.Equal(t, domain.CheckoutStepPayment, view.Step)
	assert.Zero(t, f.gateway.calls())
}

func TestSubmitPayment_ChargeFailureStaysInPayment(t *testing.T) {
	f := setupSequencer(t, backpack(2))
	f.gateway.Err = errGatewayDown
	ctx := context.Background()

	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	view, err := f.sequence.SubmitPayment(ctx, validPayment())
	assert.ErrorIs(t, err, errGatewayDown)
	assert.ErrorIs(t, err, ErrChargeFailed)
	assert.Equal(t, domain.CheckoutStepPayment, view.Step)
	assert.False(t, view.Submitting)
	assert.Nil(t, view.Confirmation)

	history, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 2, f.cart.State().TotalItems)

	f.gateway.Err = nil
	view, err = f.sequence.SubmitPayment(ctx, validPayment())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepConfirmation, view.Step)
}

func TestSubmitPayment_RecordFailureStaysInPayment(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	recorder := &MockRecorder{Err: errors.New("disk full")}
	seq := NewSequencer(f.cart, f.gateway, recorder, MockIDs{ID: "ORD-x"})

	_, err := seq.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	view, err := seq.SubmitPayment(context.Background(), validPayment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record order failed")
	assert.Equal(t, domain.CheckoutStepPayment, view.Step)
	assert.False(t, f.cart.State().IsEmpty())
}

func TestSubmitPayment_IDFailure(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	seq := NewSequencer(f.cart, f.gateway, &MockRecorder{}, MockIDs{Err: errors.New("entropy")})

	_, err := seq.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	view, err := seq.SubmitPayment(context.Background(), validPayment())
	require.Error(t, err)
	assert.Equal(t, domain.CheckoutStepPayment, view.Step)
	assert.Zero(t, f.gateway.calls())
}

func TestSubmitPayment_SecondSubmitRefusedWhileInFlight(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	f.gateway.Started = make(chan struct{})
	f.gateway.Release = make(chan struct{})
	started := f.gateway.Started

	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.sequence.SubmitPayment(context.Background(), validPayment())
		done <- err
	}()
	<-started

	assert.True(t, f.sequence.View().Submitting)

	_, err = f.sequence.SubmitPayment(context.Background(), validPayment())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = f.sequence.Back()
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = f.sequence.Reset()
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(f.gateway.Release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.gateway.calls())
	assert.Equal(t, domain.CheckoutStepConfirmation, f.sequence.View().Step)
}

func TestSubmitPayment_CartChangesDuringChargeSurvive(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	f.gateway.Started = make(chan struct{})
	f.gateway.Release = make(chan struct{})
	started := f.gateway.Started

	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.sequence.SubmitPayment(context.Background(), validPayment())
		done <- err
	}()
	<-started

	_, err = f.cart.AddToCart(domain.Product{ID: 2, Title: "Mug", Price: 7})
	require.NoError(t, err)
	_, err = f.cart.AddToCart(backpack(1).Product)
	require.NoError(t, err)

	close(f.gateway.Release)
	require.NoError(t, <-done)

	history, err := f.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Items, 1)
	assert.Equal(t, 1, history[0].Items[0].Quantity)
	assert.Equal(t, 100.0, history[0].TotalPrice)

	live := f.cart.State()
	require.Len(t, live.Items, 2)
	assert.Equal(t, int64(1), live.Items[0].ID)
	assert.Equal(t, 1, live.Items[0].Quantity)
	assert.Equal(t, int64(2), live.Items[1].ID)
	assert.Equal(t, 2, live.TotalItems)
	assert.Equal(t, 107.0, live.TotalAmount)
}

// enteringCart calls Enter on the sequencer at the moment the ordered items leave the cart.
type enteringCart struct {
	*cart.Store
	seq   *Sequencer
	route Route
}

func (c *enteringCart) RemoveOrdered(items []domain.CartItem) (domain.CartState, error) {
	state, err := c.Store.RemoveOrdered(items)
	c.route, _ = c.seq.Enter()
	return state, err
}

func TestEnter_DoesNotRedirectWhileSubmitting(t *testing.T) {
	f := setupSequencer(t, backpack(2))
	wrapped := &enteringCart{Store: f.cart}
	seq := NewSequencer(wrapped, f.gateway, f.history, MockIDs{ID: "ORD-w"})
	wrapped.seq = seq

	_, err := seq.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	view, err := seq.SubmitPayment(context.Background(), validPayment())
	require.NoError(t, err)

	assert.Equal(t, RouteCheckout, wrapped.route)
	assert.True(t, f.cart.State().IsEmpty())
	assert.Equal(t, domain.CheckoutStepConfirmation, view.Step)
}

func TestSubmitPayment_CallerCancellationDoesNotAbortCharge(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	f.gateway.Started = make(chan struct{})
	f.gateway.Release = make(chan struct{})
	started := f.gateway.Started

	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.sequence.SubmitPayment(ctx, validPayment())
		done <- err
	}()
	<-started
	cancel()
	close(f.gateway.Release)

	require.NoError(t, <-done)
	assert.NoError(t, f.gateway.CtxErr)
	assert.Equal(t, domain.CheckoutStepConfirmation, f.sequence.View().Step)
}

func TestConfirmation_IsTerminal(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	ctx := context.Background()
	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)
	_, err = f.sequence.SubmitPayment(ctx, validPayment())
	require.NoError(t, err)

	_, err = f.sequence.Back()
	assert.ErrorIs(t, err, ErrCheckoutComplete)
	_, err = f.sequence.SubmitDelivery(validDelivery())
	assert.ErrorIs(t, err, ErrCheckoutComplete)
	_, err = f.sequence.SubmitPayment(ctx, validPayment())
	assert.ErrorIs(t, err, ErrCheckoutComplete)
	assert.Equal(t, 1, f.gateway.calls())
}

func TestReset_StartsFreshCheckout(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	ctx := context.Background()
	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)
	_, err = f.sequence.SubmitPayment(ctx, validPayment())
	require.NoError(t, err)

	view, err := f.sequence.Reset()
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepDelivery, view.Step)
	assert.Nil(t, view.Confirmation)
	assert.Empty(t, view.Delivery.Email)

	route, _ := f.sequence.Enter()
	assert.Equal(t, RouteCatalog, route)
}

func TestView_ConfirmationIsACopy(t *testing.T) {
	f := setupSequencer(t, backpack(1))
	_, err := f.sequence.SubmitDelivery(validDelivery())
	require.NoError(t, err)
	view, err := f.sequence.SubmitPayment(context.Background(), validPayment())
	require.NoError(t, err)

	view.Confirmation.Items[0].Quantity = 50
	assert.Equal(t, 1, f.sequence.View().Confirmation.Items[0].Quantity)
}
