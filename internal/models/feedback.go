package models

import (
	"fmt"
	"sort"
	"time"
)

// UserFeedback is a single post-exercise rating. Entries are append-only.
type UserFeedback struct {
	ExerciseID  string    `json:"exercise_id"`
	Difficulty  int       `json:"difficulty"`
	Fatigue     int       `json:"fatigue"`
	Enjoyment   int       `json:"enjoyment"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       string    `json:"notes,omitempty"`
}

// Validate checks ratings are on the 1-5 scale and the id is well formed.
func (f UserFeedback) Validate() error {
	if _, _, err := ParseExerciseID(f.ExerciseID); err != nil {
		return err
	}
	ratings := []struct {
		name string
		v    int
	}{{"difficulty", f.Difficulty}, {"fatigue", f.Fatigue}, {"enjoyment", f.Enjoyment}}
	for _, r := range ratings {
		if r.v < 1 || r.v > 5 {
			return fmt.Errorf("%s %d out of range 1-5", r.name, r.v)
		}
	}
	if f.CompletedAt.IsZero() {
		return fmt.Errorf("completed_at is required")
	}
	return nil
}

// SortedFeedback returns a copy of fb ordered oldest first.
func SortedFeedback(fb []UserFeedback) []UserFeedback {
	out := append([]UserFeedback(nil), fb...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

// LastN returns the newest n entries of an oldest-first slice.
func LastN(fb []UserFeedback, n int) []UserFeedback {
	if n <= 0 || len(fb) <= n {
		return fb
	}
	return fb[len(fb)-n:]
}
