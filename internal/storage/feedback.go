package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/claude/flexifit/internal/models"
)

// feedbackBatch bounds rows per INSERT to stay well under the bind
// parameter limit.
const feedbackBatch = 500

// InsertFeedback batch-inserts feedback entries. Duplicates of an existing
// (user, exercise, completed_at) entry are skipped. Returns count inserted.
func (db *DB) InsertFeedback(ctx context.Context, userID int, entries []models.UserFeedback) (int64, error) {
	var inserted int64
	for chunk := range slices.Chunk(entries, feedbackBatch) {
		query := `INSERT INTO feedback (user_id, exercise_id, difficulty, fatigue, enjoyment, notes, completed_at) VALUES `
		args := make([]any, 0, len(chunk)*7)
		valueStrings := make([]string, 0, len(chunk))
		for i, f := range chunk {
			base := i * 7
			valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
			args = append(args, userID, f.ExerciseID, f.Difficulty, f.Fatigue, f.Enjoyment, f.Notes, f.CompletedAt)
		}
		query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

		tag, err := db.Pool.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("inserting feedback: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// RecentFeedback returns the user's newest limit entries, oldest first.
func (db *DB) RecentFeedback(ctx context.Context, userID, limit int) ([]models.UserFeedback, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, difficulty, fatigue, enjoyment, notes, completed_at
		 FROM feedback
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent feedback: %w", err)
	}
	defer rows.Close()

	result, err := scanFeedback(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(result)
	return result, nil
}

// QueryFeedback returns the user's feedback completed in [start, end), oldest first.
func (db *DB) QueryFeedback(ctx context.Context, userID int, start, end time.Time) ([]models.UserFeedback, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, difficulty, fatigue, enjoyment, notes, completed_at
		 FROM feedback
		 WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3
		 ORDER BY completed_at ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()
	return scanFeedback(rows)
}

type feedbackRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFeedback(rows feedbackRows) ([]models.UserFeedback, error) {
	result := []models.UserFeedback{}
	for rows.Next() {
		var f models.UserFeedback
		if err := rows.Scan(&f.ExerciseID, &f.Difficulty, &f.Fatigue, &f.Enjoyment, &f.Notes, &f.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
