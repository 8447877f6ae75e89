package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/flexifit/internal/models"
)

// StoredPlan is a plan with its persistence metadata.
type StoredPlan struct {
	models.WorkoutPlan
	ParentID *string `json:"parent_id,omitempty"`
	Active   bool    `json:"active"`
}

const planColumns = `id, parent_id, name, description, days, target_body_areas, active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*StoredPlan, error) {
	var (
		p           StoredPlan
		days, areas []byte
	)
	if err := row.Scan(&p.ID, &p.ParentID, &p.Name, &p.Description, &days, &areas, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(days, &p.Days); err != nil {
		return nil, fmt.Errorf("decoding days of plan %s: %w", p.ID, err)
	}
	if len(areas) > 0 {
		if err := json.Unmarshal(areas, &p.TargetBodyAreas); err != nil {
			return nil, fmt.Errorf("decoding target areas of plan %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// GetActivePlan returns the user's active plan, or ErrNotFound.
func (db *DB) GetActivePlan(ctx context.Context, userID int) (*StoredPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE user_id = $1 AND active`, userID)
	p, err := scanPlan(row)
	if err != nil {
		return nil, fmt.Errorf("querying active plan: %w", notFound(err))
	}
	return p, nil
}

// GetPlan returns one of the user's plans by id, or ErrNotFound.
func (db *DB) GetPlan(ctx context.Context, id string, userID int) (*StoredPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanPlan(row)
	if err != nil {
		return nil, fmt.Errorf("querying plan %s: %w", id, notFound(err))
	}
	return p, nil
}

// ListPlans returns the user's plans, newest first.
func (db *DB) ListPlans(ctx context.Context, userID, limit int) ([]StoredPlan, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	result := []StoredPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// SavePlan stores plan as the user's active plan. parentID links it to the
// plan it was derived from and may be empty. Saving a known plan id again
// reactivates the stored plan.
func (db *DB) SavePlan(ctx context.Context, userID int, plan *models.WorkoutPlan, parentID string) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return insertActivePlan(ctx, tx, userID, plan, parentID)
	})
}

// SaveAdaptation stores the adapted plan as active and records the
// adaptation in the same transaction.
func (db *DB) SaveAdaptation(ctx context.Context, plan *models.WorkoutPlan, a Adaptation) (int64, error) {
	var id int64
	parent := ""
	if a.FromPlanID != nil {
		parent = *a.FromPlanID
	}
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertActivePlan(ctx, tx, a.UserID, plan, parent); err != nil {
			return err
		}
		var err error
		id, err = insertAdaptation(ctx, tx, a)
		return err
	})
	return id, err
}

func insertActivePlan(ctx context.Context, tx pgx.Tx, userID int, plan *models.WorkoutPlan, parentID string) error {
	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("encoding plan days: %w", err)
	}
	var areas []byte
	if len(plan.TargetBodyAreas) > 0 {
		if areas, err = json.Marshal(plan.TargetBodyAreas); err != nil {
			return fmt.Errorf("encoding target areas: %w", err)
		}
	}
	var parent *string
	if parentID != "" {
		parent = &parentID
	}

	if _, err := tx.Exec(ctx,
		`UPDATE plans SET active = FALSE WHERE user_id = $1 AND active`, userID); err != nil {
		return fmt.Errorf("deactivating plans: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO plans (id, user_id, parent_id, name, description, days, target_body_areas, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		 ON CONFLICT (id) DO UPDATE SET active = TRUE`,
		plan.ID, userID, parent, plan.Name, plan.Description, days, areas, plan.CreatedAt); err != nil {
		return fmt.Errorf("inserting plan %s: %w", plan.ID, err)
	}
	return nil
}

// inTx runs fn in a transaction, committing when it returns nil.
func (db *DB) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
