package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/rs/zerolog/log"
)

// StorageKey is the key the order array is persisted under.
const StorageKey = "orders"

// History is the append-only log of completed orders.
type History struct {
	mu   sync.Mutex
	repo repository.KVRepository
}

func NewHistory(repo repository.KVRepository) *History {
	return &History{repo: repo}
}

// Append adds order to the end of the persisted sequence.
func (h *History) Append(ctx context.Context, order domain.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, err := h.read(ctx)
	if err != nil {
		return err
	}
	existing = append(existing, order)

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("marshal orders failed: %w", err)
	}
	if err := h.repo.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}

	log.Info().
		Str("order_id", order.ID).
		Int("history_size", len(existing)).
		Msg("Order appended to history")
	return nil
}

// List returns every recorded order, oldest first.
func (h *History) List(ctx context.Context) ([]domain.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read(ctx)
}

func (h *History) read(ctx context.Context) ([]domain.Order, error) {
	data, err := h.repo.Get(ctx, StorageKey)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Warn().Err(err).Str("key", StorageKey).Msg("persisted order history is corrupt, starting empty")
		return []domain.Order{}, nil
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
