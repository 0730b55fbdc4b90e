package state

import (
	"slices"
	"sync"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// Snapshot is the data loaded in one cycle. It is never mutated after being published.
type Snapshot struct {
	Products           []models.Product
	Promotions         []models.Promotion
	ProductsLoadedAt   time.Time
	PromotionsLoadedAt time.Time
	// PromotionsErr is the error of the last feed load, nil once a load succeeds.
	PromotionsErr error
}

// Store holds the current snapshot. Refreshes replace it as a whole.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current datasets.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap
}

// SetProducts replaces the product catalog.
func (s *Store) SetProducts(products []models.Product, at time.Time) {
	products = slices.Clone(products)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Products = products
	s.snap.ProductsLoadedAt = at
}

// SetPromotions replaces the promotions feed.
func (s *Store) SetPromotions(promos []models.Promotion, at time.Time) {
	promos = slices.Clone(promos)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Promotions = promos
	s.snap.PromotionsLoadedAt = at
	s.snap.PromotionsErr = nil
}

// FailPromotions records a failed feed load. The promotions already loaded are kept.
func (s *Store) FailPromotions(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.PromotionsErr = err
}
