package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalPlans       int64        `json:"total_plans"`
	TotalFeedback    int64        `json:"total_feedback"`
	TotalAdaptations int64        `json:"total_adaptations"`
	EarliestFeedback *time.Time   `json:"earliest_feedback"`
	LatestFeedback   *time.Time   `json:"latest_feedback"`
	Recent           RatingAvgs   `json:"last_30_days"`
	Levels           []LevelCount `json:"adaptations_by_level"`
}

// RatingAvgs are mean feedback ratings; nil when there is no feedback.
type RatingAvgs struct {
	Entries    int64    `json:"entries"`
	Difficulty *float64 `json:"avg_difficulty"`
	Fatigue    *float64 `json:"avg_fatigue"`
	Enjoyment  *float64 `json:"avg_enjoyment"`
}

// LevelCount counts adaptations at one progression level.
type LevelCount struct {
	Level string `json:"level"`
	Count int64  `json:"count"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int, now time.Time) (*DataStats, error) {
	stats := &DataStats{Levels: []LevelCount{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM plans WHERE user_id = $1`, userID,
	).Scan(&stats.TotalPlans)
	if err != nil {
		return nil, fmt.Errorf("counting plans: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(completed_at), MAX(completed_at) FROM feedback WHERE user_id = $1`, userID,
	).Scan(&stats.TotalFeedback, &stats.EarliestFeedback, &stats.LatestFeedback)
	if err != nil {
		return nil, fmt.Errorf("counting feedback: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(difficulty)::float8, AVG(fatigue)::float8, AVG(enjoyment)::float8
		 FROM feedback WHERE user_id = $1 AND completed_at >= $2`,
		userID, now.AddDate(0, 0, -30),
	).Scan(&stats.Recent.Entries, &stats.Recent.Difficulty, &stats.Recent.Fatigue, &stats.Recent.Enjoyment)
	if err != nil {
		return nil, fmt.Errorf("averaging recent feedback: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT level, COUNT(*)
		 FROM adaptations
		 WHERE user_id = $1
		 GROUP BY level
		 ORDER BY COUNT(*) DESC, level`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying adaptations by level: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l LevelCount
		if err := rows.Scan(&l.Level, &l.Count); err != nil {
			return nil, fmt.Errorf("scanning level count: %w", err)
		}
		stats.TotalAdaptations += l.Count
		stats.Levels = append(stats.Levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
