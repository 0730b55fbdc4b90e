package checker

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/repository"
	"github.com/emcasacomcecilia/vitrine/internal/repository/sqlite"
)

// FeedLoader reads the promotions feed and its raw document.
type FeedLoader interface {
	LoadFeed(ctx context.Context) (*models.Feed, []byte, error)
}

// Sink receives every loaded feed and every failed load, e.g. the store the pages are rendered from.
type Sink interface {
	SetPromotions(promos []models.Promotion, at time.Time)
	FailPromotions(err error)
}

// Notifier announces promotions that appeared since the previous cycle.
type Notifier interface {
	NotifyNew(ctx context.Context, promos []models.Promotion) error
}

// Checker is an orchestrator that performs a full refresh cycle of the promotions feed.
type Checker struct {
	log      *slog.Logger
	loader   FeedLoader
	repo     sqlite.StateRepository
	history  sqlite.HistoryRepository
	sink     Sink
	notifier Notifier
	window   time.Duration
	now      func() time.Time
}

// NewChecker creates a new Checker instance. notifier may be nil.
func NewChecker(
	log *slog.Logger,
	loader FeedLoader,
	repo sqlite.StateRepository,
	history sqlite.HistoryRepository,
	sink Sink,
	notifier Notifier,
) *Checker {
	return &Checker{
		log:      log,
		loader:   loader,
		repo:     repo,
		history:  history,
		sink:     sink,
		notifier: notifier,
		window:   feed.DefaultWindow,
		now:      time.Now,
	}
}

// WithWindow sets the recency window used to pick which new promotions are announced.
func (c *Checker) WithWindow(window time.Duration) *Checker {
	if window > 0 {
		c.window = window
	}

	return c
}

// CheckForUpdates loads the feed, publishes it to the sink and, when the document changed,
// records prices, persists the snapshot and announces the added promotions.
func (c *Checker) CheckForUpdates(ctx context.Context) (*models.Changes, error) {
	const opn = "checker.CheckForUpdates"

	log := c.log.With("op", opn)
	now := c.now()

	log.DebugContext(ctx, "Loading promotions feed")

	newFeed, raw, err := c.loader.LoadFeed(ctx)
	if err != nil {
		c.sink.FailPromotions(err)

		return nil, fmt.Errorf("%s: failed to load feed: %w", opn, err)
	}

	newHash := calculateHash(raw)

	oldState, err := c.repo.GetState(ctx)
	if err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		return nil, fmt.Errorf("%s: failed to get old state: %w", opn, err)
	}

	firstRun := err != nil

	c.sink.SetPromotions(newFeed.Promotions, now)

	if !firstRun && oldState.FeedHash == newHash {
		log.DebugContext(ctx, "Feed hash has not changed. No updates.")
		return &models.Changes{}, nil
	}

	var oldPromos []models.Promotion
	if oldState != nil {
		oldPromos = oldState.Promotions
	}

	changes := detectChanges(oldPromos, newFeed.Promotions)
	log.InfoContext(ctx, "Change detection complete",
		"added", len(changes.Added),
		"removed", len(changes.Removed),
		"first_run", firstRun,
	)

	c.recordPrices(ctx, newFeed.Promotions, now)

	newState := &models.State{FeedHash: newHash, Promotions: newFeed.Promotions}
	if err = c.repo.UpdateState(ctx, newState); err != nil {
		return nil, fmt.Errorf("%s: failed to update state in repository: %w", opn, err)
	}

	if !firstRun {
		c.notify(ctx, changes.Added, now)
	}

	return &changes, nil
}

// DefaultInterval is used by Run when the given interval is not positive.
const DefaultInterval = 2 * time.Minute

// Run performs a cycle immediately and then one per interval until ctx is done.
// Cycles never overlap: a slow cycle delays the next tick.
func (c *Checker) Run(ctx context.Context, interval time.Duration) error {
	const opn = "checker.Run"

	if interval <= 0 {
		interval = DefaultInterval
	}

	log := c.log.With("op", opn)
	log.InfoContext(ctx, "Starting feed polling", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.CheckForUpdates(ctx); err != nil {
			log.ErrorContext(ctx, "Refresh cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Feed polling stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Checker) recordPrices(ctx context.Context, promos []models.Promotion, now time.Time) {
	if c.history == nil {
		return
	}

	for _, promo := range promos {
		if promo.IsCoupon() || !promo.Price.Valid() {
			continue
		}

		point := models.PricePoint{
			Key:   promo.HistoryKey(),
			Title: promo.Title(),
			Value: promo.Price.Float(),
			At:    now,
		}

		if _, err := c.history.RecordPrice(ctx, point); err != nil {
			c.log.WarnContext(ctx, "failed to record price", "key", point.Key, "error", err)
		}
	}
}

func (c *Checker) notify(ctx context.Context, added []models.Promotion, now time.Time) {
	if c.notifier == nil {
		return
	}

	recent := feed.Recent(added, now, c.window)
	if len(recent) == 0 {
		return
	}

	if err := c.notifier.NotifyNew(ctx, recent); err != nil {
		c.log.WarnContext(ctx, "failed to notify new promotions", "count", len(recent), "error", err)
	}
}

// calculateHash calculates the SHA256 hash for a slice of bytes.
func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// detectChanges compares two feeds by promotion id. Added keeps the new feed order,
// Removed the old one.
func detectChanges(oldPromos, newPromos []models.Promotion) models.Changes {
	oldIDs := make(map[string]bool, len(oldPromos))
	for _, p := range oldPromos {
		oldIDs[p.ID] = true
	}

	newIDs := make(map[string]bool, len(newPromos))
	for _, p := range newPromos {
		newIDs[p.ID] = true
	}

	var changes models.Changes

	for _, p := range newPromos {
		if !oldIDs[p.ID] {
			changes.Added = append(changes.Added, p)
		}
	}

	for _, p := range oldPromos {
		if !newIDs[p.ID] {
			changes.Removed = append(changes.Removed, p)
		}
	}

	return changes
}
