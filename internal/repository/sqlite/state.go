package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/repository"
)

// GetState returns the stored feed snapshot, promotions in feed order.
func (r *Repository) GetState(ctx context.Context) (*models.State, error) {
	const opn = "repository.sqlite.GetState"

	var feedHash string

	err := r.db.QueryRowContext(ctx, "SELECT feed_hash FROM feed_state WHERE id = 1").Scan(&feedHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStateNotFound
		}

		return nil, fmt.Errorf("%s: failed to get feed hash: %w", opn, err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, payload FROM promotions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get promotions: %w", opn, err)
	}
	defer rows.Close()

	var promos []models.Promotion

	for rows.Next() {
		var (
			id      string
			payload []byte
			promo   models.Promotion
		)

		if err = rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("%s: failed to scan promotion: %w", opn, err)
		}

		if err = json.Unmarshal(payload, &promo); err != nil {
			return nil, fmt.Errorf("%s: failed to decode promotion %s: %w", opn, id, err)
		}

		promo.ID = id
		promos = append(promos, promo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return &models.State{
		FeedHash:   feedHash,
		Promotions: promos,
	}, nil
}

// UpdateState atomically replaces the stored snapshot.
func (r *Repository) UpdateState(ctx context.Context, state *models.State) error {
	const opn = "repository.sqlite.UpdateState"

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // after Commit it only returns sql.ErrTxDone

	_, err = tx.ExecContext(ctx, "INSERT OR REPLACE INTO feed_state (id, feed_hash) VALUES (1, ?)", state.FeedHash)
	if err != nil {
		return fmt.Errorf("%s: failed to update feed hash: %w", opn, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM promotions")
	if err != nil {
		return fmt.Errorf("%s: failed to delete old promotions: %w", opn, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO promotions (position, id, payload) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%s: failed to prepare insert statement: %w", opn, err)
	}
	defer stmt.Close()

	for idx, promo := range state.Promotions {
		payload, mErr := json.Marshal(promo)
		if mErr != nil {
			return fmt.Errorf("%s: failed to encode promotion %s: %w", opn, promo.ID, mErr)
		}

		if _, err = stmt.ExecContext(ctx, idx, promo.ID, string(payload)); err != nil {
			return fmt.Errorf("%s: failed to insert promotion with id %s: %w", opn, promo.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
