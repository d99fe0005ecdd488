package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/payment"
)

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	mu       sync.Mutex
	Err      error
	Requests []payment.ChargeRequest
	// Started is closed when the first charge begins, if set.
	Started chan struct{}
	// Release blocks every charge until it is closed, if set.
	Release chan struct{}
	// CtxErr captures ctx.Err() observed by the charge after release.
	CtxErr error
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	if m.Started != nil {
		close(m.Started)
		m.Started = nil
	}
	m.mu.Unlock()

	if m.Release != nil {
		<-m.Release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CtxErr = ctx.Err()
	if m.Err != nil {
		return &payment.ChargeResult{Status: payment.ChargeStatusFailed}, m.Err
	}
	return &payment.ChargeResult{Status: payment.ChargeStatusSuccess, TransactionID: "TXN-test"}, nil
}

func (m *MockGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockRecorder implements OrderRecorder for testing
type MockRecorder struct {
	Orders []domain.Order
	Err    error
}

func (m *MockRecorder) Append(_ context.Context, order domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Orders = append(m.Orders, order)
	return nil
}

// MockIDs implements orders.IDGenerator for testing
type MockIDs struct {
	ID  string
	Err error
}

func (m MockIDs) NewID() (string, error) {
	return m.ID, m.Err
}

var errGatewayDown = errors.New("gateway unavailable")

func validDelivery() domain.DeliveryInfo {
	return domain.DeliveryInfo{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ana@example.com",
		Phone:     "+90 555 000 0000",
		Address:   "1 Main St",
		City:      "Istanbul",
		District:  "Kadikoy",
		ZipCode:   "34710",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "Ana Lima",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
}
