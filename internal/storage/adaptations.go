package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Adaptation records one run of the engine against a user's plan.
type Adaptation struct {
	ID         int64           `json:"id"`
	UserID     int             `json:"user_id"`
	FromPlanID *string         `json:"from_plan_id,omitempty"`
	ToPlanID   string          `json:"to_plan_id"`
	Level      string          `json:"level"`
	Problems   int             `json:"problems"`
	Trigger    string          `json:"trigger"`
	Result     json.RawMessage `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func insertAdaptation(ctx context.Context, tx pgx.Tx, a Adaptation) (int64, error) {
	if a.Trigger == "" {
		a.Trigger = "api"
	}
	var result []byte
	if len(a.Result) > 0 {
		result = a.Result
	}
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO adaptations (user_id, from_plan_id, to_plan_id, level, problems, trigger, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		a.UserID, a.FromPlanID, a.ToPlanID, a.Level, a.Problems, a.Trigger, result,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting adaptation: %w", err)
	}
	return id, nil
}

// ListAdaptations returns the user's most recent adaptations, newest first.
func (db *DB) ListAdaptations(ctx context.Context, userID, limit int) ([]Adaptation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, from_plan_id, to_plan_id, level, problems, trigger, result, created_at
		 FROM adaptations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying adaptations: %w", err)
	}
	defer rows.Close()

	result := []Adaptation{}
	for rows.Next() {
		var (
			a   Adaptation
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.FromPlanID, &a.ToPlanID, &a.Level,
			&a.Problems, &a.Trigger, &raw, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning adaptation: %w", err)
		}
		if len(raw) > 0 {
			a.Result = json.RawMessage(raw)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
