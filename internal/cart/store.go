package cart

import (
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// Listener is notified synchronously with a copy of the state after every applied action.
type Listener func(state domain.CartState) error

// Store owns one shopper's cart. Dispatches are serialized.
type Store struct {
	mu        sync.Mutex
	state     domain.CartState
	listeners []Listener
}

// NewStore creates a store seeded with initial. Totals are re-derived from the items.
func NewStore(initial domain.CartState) *Store {
	state := initial.Clone()
	if state.Items == nil {
		state.Items = []domain.CartItem{}
	}
	recalculate(&state)
	return &Store{state: state}
}

// Subscribe registers a listener. Listeners run in registration order.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies action and notifies listeners before returning. The returned
// state reflects the mutation even when a listener fails.
func (s *Store) Dispatch(action Action) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !reduce(&s.state, action) {
		return s.state.Clone(), nil
	}

	var errs []error
	for _, l := range s.listeners {
		if err := l(s.state.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return s.state.Clone(), errors.Join(errs...)
}

func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) AddToCart(product domain.Product) (domain.CartState, error) {
	return s.Dispatch(AddToCart(product))
}

func (s *Store) RemoveFromCart(productID int64) (domain.CartState, error) {
	return s.Dispatch(RemoveFromCart(productID))
}

func (s *Store) UpdateQuantity(productID int64, quantity int) (domain.CartState, error) {
	return s.Dispatch(UpdateQuantity(productID, quantity))
}

func (s *Store) ClearCart() (domain.CartState, error) {
	return s.Dispatch(ClearCart())
}

func (s *Store) RemoveOrdered(items []domain.CartItem) (domain.CartState, error) {
	return s.Dispatch(RemoveOrdered(items))
}
