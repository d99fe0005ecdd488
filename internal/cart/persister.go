package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/rs/zerolog/log"
)

// StorageKey is the key the cart is persisted under.
const StorageKey = "cart"

// Persister mirrors cart state into a key-value repository.
type Persister struct {
	repo    repository.KVRepository
	timeout time.Duration
}

func NewPersister(repo repository.KVRepository, timeout time.Duration) *Persister {
	return &Persister{
		repo:    repo,
		timeout: timeout,
	}
}

// Load reads the persisted cart. Missing or corrupt payloads yield an empty cart.
func (p *Persister) Load(ctx context.Context) (domain.CartState, error) {
	empty := domain.CartState{Items: []domain.CartItem{}}

	data, err := p.repo.Get(ctx, StorageKey)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("failed to load cart: %w", err)
	}

	var state domain.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warn().Err(err).Str("key", StorageKey).Msg("persisted cart is corrupt, starting empty")
		return empty, nil
	}
	if state.Items == nil {
		state.Items = []domain.CartItem{}
	}
	recalculate(&state)
	return state, nil
}

// Save writes the full state.
func (p *Persister) Save(ctx context.Context, state domain.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := p.repo.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Listener adapts Save to the store's notification hook.
func (p *Persister) Listener() Listener {
	return func(state domain.CartState) error {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		return p.Save(ctx, state)
	}
}

// Open loads the persisted cart and returns a store that writes through to the repository.
func Open(ctx context.Context, repo repository.KVRepository, timeout time.Duration) (*Store, error) {
	p := NewPersister(repo, timeout)
	state, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	store := NewStore(state)
	store.Subscribe(p.Listener())
	return store, nil
}
