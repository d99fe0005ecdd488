package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/payment"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/stretchr/testify/require"
)

type FetcherMock struct {
	products []domain.Product
	err      error
}

func (f FetcherMock) FetchProducts(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f FetcherMock) FetchCategories(context.Context) ([]string, error) {
	return []string{"electronics", "jewelery"}, nil
}

type GatewayMock struct {
	err error
}

func (g GatewayMock) Charge(context.Context, payment.ChargeRequest) (*payment.ChargeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &payment.ChargeResult{Status: payment.ChargeStatusSuccess, TransactionID: "TXN-1"}, nil
}

type testServer struct {
	handler http.Handler
	cart    *cart.Store
	history *orders.History
	repo    repository.KVRepository
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Backpack", Price: 100, Category: "men's clothing", Description: "Everyday pack"},
		{ID: 2, Title: "SSD", Price: 59.5, Category: "electronics", Description: "Fast storage"},
	}
}

func newTestServer(t *testing.T, fetcher catalog.Fetcher, gateway payment.Gateway) *testServer {
	t.Helper()

	repo := repository.NewMemoryRepository()
	store, err := cart.Open(context.Background(), repo, time.Second)
	require.NoError(t, err)

	history := orders.NewHistory(repo)
	products := catalog.New(fetcher, time.Minute)
	seq := checkout.NewSequencer(store, gateway, history, orders.UUIDGenerator{})

	handler := NewRouter(Handlers{
		Products: NewProductHandler(products, time.Second),
		Cart:     NewCartHandler(store, products, time.Second),
		Checkout: NewCheckoutHandler(seq),
		Orders:   NewOrdersHandler(history, time.Second),
	}, 5*time.Second)

	return &testServer{handler: handler, cart: store, history: history, repo: repo}
}

func defaultServer(t *testing.T) *testServer {
	return newTestServer(t, FetcherMock{products: testProducts()}, GatewayMock{})
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var errDeclined = errors.New("card declined")

func deliveryBody() domain.DeliveryInfo {
	return domain.DeliveryInfo{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ana@example.com",
		Phone:     "5550000",
		Address:   "1 Main St",
		City:      "Istanbul",
		District:  "Kadikoy",
		ZipCode:   "34710",
	}
}

func paymentBody() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "Ana Lima",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
}
