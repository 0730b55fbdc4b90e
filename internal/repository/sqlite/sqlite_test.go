package sqlite_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/emcasacomcecilia/vitrine/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepository_Success(t *testing.T) {
	ctx := t.Context()

	// Create a temporary file to act as the SQLite DB
	tmpFile, err := os.CreateTemp(t.TempDir(), "testdb-*.sqlite")
	require.NoError(t, err)
	tmpFile.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(ctx, logger, tmpFile.Name())
	require.NoError(t, err)
	defer repo.Close()

	assert.NotNil(t, repo)
}

func TestNewRepository_InvalidPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := sqlite.NewRepository(t.Context(), logger, "/invalid/path/to/db.sqlite")

	require.Error(t, err)
}

func TestRepository_Close(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, filepath.Join(t.TempDir(), "close.sqlite"))
	require.NoError(t, err)

	require.NoError(t, repo.Close())
}

func TestSchemaInitialization(t *testing.T) {
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "schema-test.sqlite")

	repo, err := sqlite.NewRepository(ctx, logger, dbPath)
	require.NoError(t, err)
	defer repo.Close()

	rows, err := repo.DB().QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table'")
	require.NoError(t, err)
	defer rows.Close()

	found := make(map[string]bool)

	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))

		found[name] = true
	}

	require.NoError(t, rows.Err())

	for _, table := range []string{"feed_state", "promotions", "subscriptions", "price_history"} {
		assert.True(t, found[table], "expected table %q, got %+v", table, found)
	}

	// Reopening an existing database keeps the schema idempotent.
	again, err := sqlite.NewRepository(ctx, logger, dbPath)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
