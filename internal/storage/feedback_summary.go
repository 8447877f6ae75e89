package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// FeedbackSummaryPeriod aggregates one user's ratings and adaptations over
// one calendar week or month.
type FeedbackSummaryPeriod struct {
	Period      string     `json:"period"`
	Ratings     RatingAvgs `json:"ratings"`
	Exercises   int        `json:"distinct_exercises"`
	Sessions    int        `json:"sessions"`
	Adaptations int        `json:"adaptations"`
}

// GetFeedbackSummary returns per-period rating averages, newest first.
// bucket is "week" or "month"; anything else is treated as "week".
func (db *DB) GetFeedbackSummary(ctx context.Context, userID int, start, end time.Time, bucket string) ([]FeedbackSummaryPeriod, error) {
	interval := truncInterval(bucket)

	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, completed_at)::date AS period,
		        COUNT(*),
		        AVG(difficulty)::float8, AVG(fatigue)::float8, AVG(enjoyment)::float8,
		        COUNT(DISTINCT exercise_id)::int,
		        COUNT(DISTINCT completed_at::date)::int
		 FROM feedback
		 WHERE user_id = $2 AND completed_at >= $3 AND completed_at < $4
		 GROUP BY period
		 ORDER BY period DESC`,
		interval, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying feedback summary: %w", err)
	}
	defer rows.Close()

	periods := make(map[string]*FeedbackSummaryPeriod)
	var order []string
	for rows.Next() {
		var t time.Time
		var p FeedbackSummaryPeriod
		if err := rows.Scan(&t, &p.Ratings.Entries, &p.Ratings.Difficulty, &p.Ratings.Fatigue, &p.Ratings.Enjoyment,
			&p.Exercises, &p.Sessions); err != nil {
			return nil, fmt.Errorf("scanning feedback summary: %w", err)
		}
		p.Period = t.Format("2006-01-02")
		periods[p.Period] = &p
		order = append(order, p.Period)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Adaptations can land in a period without feedback (scheduler runs on
	// older data), so they extend the period set.
	arows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, created_at)::date AS period, COUNT(*)::int
		 FROM adaptations
		 WHERE user_id = $2 AND created_at >= $3 AND created_at < $4
		 GROUP BY period`,
		interval, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying adaptation summary: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var t time.Time
		var n int
		if err := arows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scanning adaptation summary: %w", err)
		}
		key := t.Format("2006-01-02")
		p, ok := periods[key]
		if !ok {
			p = &FeedbackSummaryPeriod{Period: key}
			periods[key] = p
			order = append(order, key)
		}
		p.Adaptations = n
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	// Keys are ISO dates, so string order is date order.
	sortDesc(order)
	result := make([]FeedbackSummaryPeriod, 0, len(order))
	for _, key := range order {
		result = append(result, *periods[key])
	}
	return result, nil
}

// truncInterval maps a bucket name to a date_trunc field.
func truncInterval(bucket string) string {
	switch bucket {
	case "month", "1 month":
		return "month"
	default:
		return "week"
	}
}

func sortDesc(keys []string) {
	slices.SortFunc(keys, func(a, b string) int { return strings.Compare(b, a) })
}
