package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// priceEpsilon is the smallest price change worth recording.
const priceEpsilon = 0.005

// RecordPrice appends a price point unless the last recorded price of the offer is the same.
// It reports whether a point was written.
func (r *Repository) RecordPrice(ctx context.Context, point models.PricePoint) (bool, error) {
	const opn = "repository.sqlite.RecordPrice"

	var last float64

	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM price_history WHERE key = ? ORDER BY id DESC LIMIT 1", point.Key).Scan(&last)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("%s: failed to get last price: %w", opn, err)
	case math.Abs(last-point.Value) < priceEpsilon:
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO price_history (key, title, value, recorded_at) VALUES (?, ?, ?, ?)",
		point.Key, point.Title, point.Value, point.At.UTC())
	if err != nil {
		return false, fmt.Errorf("%s: failed to insert price: %w", opn, err)
	}

	return true, nil
}

// PriceStats summarizes the recorded prices of an offer. Unknown offers have a zero Count.
func (r *Repository) PriceStats(ctx context.Context, key string) (models.PriceStats, error) {
	const opn = "repository.sqlite.PriceStats"

	var (
		stats            models.PriceStats
		minV, maxV, avgV sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT MIN(value), MAX(value), AVG(value), COUNT(*) FROM price_history WHERE key = ?", key).
		Scan(&minV, &maxV, &avgV, &stats.Count)
	if err != nil {
		return models.PriceStats{}, fmt.Errorf("%s: %w", opn, err)
	}

	stats.Min = minV.Float64
	stats.Max = maxV.Float64
	stats.Avg = math.Round(avgV.Float64*100) / 100

	return stats, nil
}
