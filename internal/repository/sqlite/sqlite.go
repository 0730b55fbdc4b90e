package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/emcasacomcecilia/vitrine/internal/models"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// StateRepository stores the last seen promotions feed.
type StateRepository interface {
	GetState(ctx context.Context) (*models.State, error)
	UpdateState(ctx context.Context, state *models.State) error
}

// SubscriptionRepository stores the Telegram chats that receive new promotions.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, sub models.Subscription) (bool, error)
	Unsubscribe(ctx context.Context, chatID int64) (bool, error)
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
}

// HistoryRepository stores the price history of offers.
type HistoryRepository interface {
	RecordPrice(ctx context.Context, point models.PricePoint) (bool, error)
	PriceStats(ctx context.Context, key string) (models.PriceStats, error)
}

// Repository represents a data repository that interacts with the database
// and provides logging capabilities. It holds a reference to the database
// and a logger instance for logging operations.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRepository opens (or creates) the database file and migrates the schema.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	dtb, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		dtb.Close()
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	if err = initSchema(ctx, dtb); err != nil {
		dtb.Close()
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log}, nil
}

// NewForTest wraps an existing connection, e.g. one created by sqlmock.
func NewForTest(dtb *sql.DB) *Repository {
	return &Repository{db: dtb, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS feed_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		feed_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS promotions (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		chat_id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL DEFAULT '',
		subscribed_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		title TEXT NOT NULL,
		value REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_price_history_key ON price_history (key, id);
	`

	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db
}
