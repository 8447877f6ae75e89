package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/claude/flexifit/internal/models"
)

// GetProfile returns the stored profile for a user, or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1`, userID,
	).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", notFound(err))
	}

	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	p.UserID = strconv.Itoa(userID)
	return &p, nil
}

// UpsertProfile replaces the user's profile.
func (db *DB) UpsertProfile(ctx context.Context, userID int, p *models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, userID, data)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
