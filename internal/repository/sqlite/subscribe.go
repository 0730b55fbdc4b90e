package sqlite

import (
	"context"
	"fmt"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// Subscribe stores the chat subscription. An existing subscription only gets its kind
// updated. It reports whether the chat was not subscribed before.
func (r *Repository) Subscribe(ctx context.Context, sub models.Subscription) (bool, error) {
	const opn = "repository.sqlite.Subscribe"

	trx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer func() {
		_ = trx.Rollback()
	}()

	res, err := trx.ExecContext(ctx, "UPDATE subscriptions SET kind = ? WHERE chat_id = ?", sub.Kind, sub.ChatID)
	if err != nil {
		return false, fmt.Errorf("%s: failed to update subscription: %w", opn, err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: failed to read affected rows: %w", opn, err)
	}

	if updated == 0 {
		_, err = trx.ExecContext(ctx,
			"INSERT INTO subscriptions (chat_id, kind, subscribed_at) VALUES (?, ?, ?)",
			sub.ChatID, sub.Kind, sub.Since.UTC())
		if err != nil {
			return false, fmt.Errorf("%s: failed to insert subscription: %w", opn, err)
		}
	}

	if err = trx.Commit(); err != nil {
		return false, fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return updated == 0, nil
}

// Unsubscribe removes the chat subscription and reports whether there was one.
func (r *Repository) Unsubscribe(ctx context.Context, chatID int64) (bool, error) {
	const opn = "repository.sqlite.Unsubscribe"

	res, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE chat_id = ?", chatID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", opn, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: failed to read affected rows: %w", opn, err)
	}

	return removed > 0, nil
}

// Subscriptions returns every subscription ordered by chat ID.
func (r *Repository) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	const opn = "repository.sqlite.Subscriptions"

	rows, err := r.db.QueryContext(ctx, "SELECT chat_id, kind, subscribed_at FROM subscriptions ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var subs []models.Subscription

	for rows.Next() {
		var sub models.Subscription
		if err = rows.Scan(&sub.ChatID, &sub.Kind, &sub.Since); err != nil {
			return nil, fmt.Errorf("%s: failed to scan subscription: %w", opn, err)
		}

		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return subs, nil
}
