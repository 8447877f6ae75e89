package storage

import (
	"context"
	"fmt"
	"time"
)

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %s: %w", login, err)
	}
	return id, nil
}

// UsersWithNewFeedback returns users who logged feedback after since and
// after their most recent adaptation.
func (db *DB) UsersWithNewFeedback(ctx context.Context, since time.Time) ([]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT f.user_id
		FROM feedback f
		WHERE f.received_at > $1
		  AND f.received_at > COALESCE(
			(SELECT MAX(a.created_at) FROM adaptations a WHERE a.user_id = f.user_id),
			'-infinity'::timestamptz)
		ORDER BY f.user_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("querying users with new feedback: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
