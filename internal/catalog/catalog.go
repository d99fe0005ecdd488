package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultRevalidate is how long a successful load is served without refetching.
const DefaultRevalidate = 120 * time.Second

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Snapshot is the catalog state as shown to the shopper.
type Snapshot struct {
	Status     Status           `json:"status"`
	Error      string           `json:"error,omitempty"`
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
}

// Catalog caches the remote product listing.
type Catalog struct {
	fetcher    Fetcher
	revalidate time.Duration
	now        func() time.Time
	group      singleflight.Group

	mu         sync.RWMutex
	status     Status
	err        string
	products   []domain.Product
	categories []string
	loadedAt   time.Time
}

func New(fetcher Fetcher, revalidate time.Duration) *Catalog {
	return &Catalog{
		fetcher:    fetcher,
		revalidate: revalidate,
		now:        time.Now,
		status:     StatusIdle,
		products:   []domain.Product{},
		categories: []string{},
	}
}

// Snapshot returns the current state without fetching.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Status:     c.status,
		Error:      c.err,
		Products:   append([]domain.Product(nil), c.products...),
		Categories: append([]string(nil), c.categories...),
	}
}

func (c *Catalog) fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status == StatusSucceeded && c.now().Sub(c.loadedAt) < c.revalidate
}

// Load fetches products and categories unless a recent load can be reused.
// Concurrent callers share a single fetch. A failed fetch is reported through
// the snapshot status, not as an error.
func (c *Catalog) Load(ctx context.Context) Snapshot {
	if c.fresh() {
		return c.Snapshot()
	}

	// The shared fetch must not die with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("catalog", func() (any, error) {
		c.load(fetchCtx)
		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
	return c.Snapshot()
}

func (c *Catalog) load(ctx context.Context) {
	c.mu.Lock()
	c.status = StatusLoading
	c.mu.Unlock()

	products, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load products")
		c.mu.Lock()
		c.status = StatusFailed
		c.err = err.Error()
		c.mu.Unlock()
		return
	}

	categories, catErr := c.fetcher.FetchCategories(ctx)
	if catErr != nil {
		log.Warn().Err(catErr).Msg("Failed to load categories, keeping previous list")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusSucceeded
	c.err = ""
	c.products = products
	if catErr == nil {
		c.categories = categories
	}
	c.loadedAt = c.now()

	log.Info().
		Int("products", len(products)).
		Int("categories", len(c.categories)).
		Msg("Catalog loaded")
}

// Product looks up a product by id, loading the catalog if needed.
func (c *Catalog) Product(ctx context.Context, id int64) (domain.Product, error) {
	snap := c.Load(ctx)
	for _, p := range snap.Products {
		if p.ID == id {
			return p, nil
		}
	}
	if snap.Status == StatusFailed {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrCatalogUnavailable, snap.Error)
	}
	return domain.Product{}, ErrProductNotFound
}
