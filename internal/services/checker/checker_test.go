package checker_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/repository"
	"github.com/emcasacomcecilia/vitrine/internal/services/checker"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/emcasacomcecilia/vitrine/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func promo(id string, age time.Duration, price float64) models.Promotion {
	return models.Promotion{
		ID:        id,
		Type:      models.KindPromo,
		Store:     "Amazon",
		Product:   "Produto " + id,
		Price:     models.Price(price),
		Timestamp: models.Timestamp{Time: now.Add(-age)},
	}
}

func hashOf(raw []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(raw))
}

type deps struct {
	loader   *mocks.FeedLoader
	repo     *mocks.StateRepository
	history  *mocks.HistoryRepository
	notifier *mocks.Notifier
	store    *state.Store
}

func newChecker(t *testing.T) (*checker.Checker, deps) {
	t.Helper()

	d := deps{
		loader:   mocks.NewFeedLoader(t),
		repo:     mocks.NewStateRepository(t),
		history:  mocks.NewHistoryRepository(t),
		notifier: mocks.NewNotifier(t),
		store:    state.NewStore(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := checker.NewChecker(logger, d.loader, d.repo, d.history, d.store, d.notifier)
	c.SetNow(func() time.Time { return now })

	return c, d
}

func TestChecker_CheckForUpdates(t *testing.T) {
	ctx := t.Context()

	p1 := promo("p1", time.Hour, 100)
	p2 := promo("p2", 2*time.Hour, 200)
	p3 := promo("p3", 30*time.Minute, 300)
	p4 := promo("p4", 100*time.Hour, 400)
	coupon := models.Promotion{ID: "c1", Type: models.KindCoupon, Store: "Shopee", CouponCode: "X"}

	oldRaw := []byte(`old`)
	newRaw := []byte(`new`)

	oldState := &models.State{FeedHash: hashOf(oldRaw), Promotions: []models.Promotion{p1, p2}}

	testCases := []struct {
		name            string
		setupMocks      func(d deps)
		expectedChanges *models.Changes
		expectedStore   int
		expectedLoadErr bool
		expectedErr     string
	}{
		{
			name: "Success: added and removed promotions, only recent ones announced",
			setupMocks: func(d deps) {
				newFeed := &models.Feed{Promotions: []models.Promotion{p1, p3, p4, coupon}}
				d.loader.On("LoadFeed", ctx).Return(newFeed, newRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(oldState, nil).Once()
				d.history.On("RecordPrice", ctx, mock.AnythingOfType("models.PricePoint")).Return(true, nil).Times(3)
				d.repo.On("UpdateState", ctx, &models.State{FeedHash: hashOf(newRaw), Promotions: newFeed.Promotions}).
					Return(nil).Once()
				// Undated entries are never expired.
				d.notifier.On("NotifyNew", ctx, []models.Promotion{p3, coupon}).Return(nil).Once()
			},
			expectedChanges: &models.Changes{
				Added:   []models.Promotion{p3, p4, coupon},
				Removed: []models.Promotion{p2},
			},
			expectedStore: 4,
		},
		{
			name: "No change: the feed hash has not changed",
			setupMocks: func(d deps) {
				d.loader.On("LoadFeed", ctx).Return(&models.Feed{Promotions: []models.Promotion{p1, p2}}, oldRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(oldState, nil).Once()
			},
			expectedChanges: &models.Changes{},
			expectedStore:   2,
		},
		{
			name: "First launch: everything added, nobody notified",
			setupMocks: func(d deps) {
				newFeed := &models.Feed{Promotions: []models.Promotion{p1, p3}}
				d.loader.On("LoadFeed", ctx).Return(newFeed, newRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(nil, repository.ErrStateNotFound).Once()
				d.history.On("RecordPrice", ctx, models.PricePoint{Key: "amazon|produto p1", Title: "Produto p1", Value: 100, At: now}).
					Return(true, nil).Once()
				d.history.On("RecordPrice", ctx, models.PricePoint{Key: "amazon|produto p3", Title: "Produto p3", Value: 300, At: now}).
					Return(false, nil).Once()
				d.repo.On("UpdateState", ctx, mock.Anything).Return(nil).Once()
			},
			expectedChanges: &models.Changes{Added: []models.Promotion{p1, p3}},
			expectedStore:   2,
		},
		{
			name: "Success: history and notifier failures are not fatal",
			setupMocks: func(d deps) {
				newFeed := &models.Feed{Promotions: []models.Promotion{p3}}
				d.loader.On("LoadFeed", ctx).Return(newFeed, newRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(oldState, nil).Once()
				d.history.On("RecordPrice", ctx, mock.Anything).Return(false, assert.AnError).Once()
				d.repo.On("UpdateState", ctx, mock.Anything).Return(nil).Once()
				d.notifier.On("NotifyNew", ctx, []models.Promotion{p3}).Return(assert.AnError).Once()
			},
			expectedChanges: &models.Changes{
				Added:   []models.Promotion{p3},
				Removed: []models.Promotion{p1, p2},
			},
			expectedStore: 1,
		},
		{
			name: "Error: feed cannot be loaded",
			setupMocks: func(d deps) {
				d.loader.On("LoadFeed", ctx).Return(nil, nil, errors.New("network error")).Once()
			},
			expectedLoadErr: true,
			expectedErr:     "failed to load feed",
		},
		{
			name: "Error: repository cannot get state",
			setupMocks: func(d deps) {
				d.loader.On("LoadFeed", ctx).Return(&models.Feed{}, newRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(nil, assert.AnError).Once()
			},
			expectedErr: "failed to get old state",
		},
		{
			name: "Error: repository cannot update state",
			setupMocks: func(d deps) {
				d.loader.On("LoadFeed", ctx).Return(&models.Feed{Promotions: []models.Promotion{coupon}}, newRaw, nil).Once()
				d.repo.On("GetState", ctx).Return(oldState, nil).Once()
				d.repo.On("UpdateState", ctx, mock.Anything).Return(errors.New("db write error")).Once()
			},
			expectedErr:   "failed to update state in repository",
			expectedStore: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, d := newChecker(t)
			tc.setupMocks(d)

			changes, err := c.CheckForUpdates(ctx)

			assert.Len(t, d.store.Snapshot().Promotions, tc.expectedStore)
			assert.Equal(t, tc.expectedLoadErr, d.store.Snapshot().PromotionsErr != nil)

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedChanges.Added, changes.Added)
			assert.Equal(t, tc.expectedChanges.Removed, changes.Removed)
		})
	}
}

func TestChecker_NilNotifier(t *testing.T) {
	loader := mocks.NewFeedLoader(t)
	repo := mocks.NewStateRepository(t)

	ctx := t.Context()
	loader.On("LoadFeed", ctx).Return(&models.Feed{Promotions: []models.Promotion{{ID: "c1", Type: models.KindCoupon}}}, []byte("x"), nil)
	repo.On("GetState", ctx).Return(&models.State{FeedHash: "other"}, nil)
	repo.On("UpdateState", ctx, mock.Anything).Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := checker.NewChecker(logger, loader, repo, nil, state.NewStore(), nil).WithWindow(time.Hour)

	changes, err := c.CheckForUpdates(ctx)

	require.NoError(t, err)
	assert.Len(t, changes.Added, 1)
}

func TestChecker_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, d := newChecker(t)

	ctx, cancel := context.WithCancel(t.Context())

	calls := make(chan struct{}, 10)
	d.loader.On("LoadFeed", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case calls <- struct{}{}:
			default:
			}
		}).
		Return(nil, nil, errors.New("offline"))

	done := make(chan error, 1)

	go func() { done <- c.Run(ctx, 10*time.Millisecond) }()

	// The first cycle runs immediately, the next ones on the ticker.
	for range 2 {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("refresh cycle did not run")
		}
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestChecker_Run_NonPositiveInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, d := newChecker(t)

	ctx, cancel := context.WithCancel(t.Context())
	d.loader.On("LoadFeed", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, nil, errors.New("offline"))

	for _, interval := range []time.Duration{0, -time.Second} {
		require.NotPanics(t, func() {
			require.NoError(t, c.Run(ctx, interval))
		})
	}
}
