package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Goals understood by the engine. Unknown goals fall back to general-health
// behaviour.
const (
	GoalFatLoss       = "fat_loss"
	GoalMuscleGain    = "muscle_gain"
	GoalStrength      = "strength"
	GoalEndurance     = "endurance"
	GoalGeneralHealth = "general_health"
)

// UserProfile is everything the caller knows about a user.
type UserProfile struct {
	UserID  string            `json:"user_id"`
	Static  StaticAttributes  `json:"static"`
	Dynamic DynamicAttributes `json:"dynamic"`
}

// StaticAttributes change rarely and are entered by the user.
type StaticAttributes struct {
	Age          int           `json:"age,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	HeightCm     float64       `json:"height_cm,omitempty"`
	WeightKg     float64       `json:"weight_kg,omitempty"`
	HealthStatus []HealthEntry `json:"health_status,omitempty"`

	PrimaryGoal     string   `json:"primary_goal,omitempty"`
	SecondaryGoals  []string `json:"secondary_goals,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`

	FrequencyPerWeek   int    `json:"frequency_per_week,omitempty"`
	SessionDurationMin int    `json:"session_duration_min,omitempty"`
	Location           string `json:"location,omitempty"` // home | gym
}

// DynamicAttributes accumulate as the user trains.
type DynamicAttributes struct {
	TrainingSessions   []TrainingSession `json:"training_sessions,omitempty"`
	CompletedExercises []string          `json:"completed_exercises,omitempty"`
	LastWorkout        *time.Time        `json:"last_workout,omitempty"`
	StreakDays         int               `json:"streak_days,omitempty"`
	SavedPlans         []WorkoutPlan     `json:"saved_plans,omitempty"`
	UsageRecords       []UsageRecord     `json:"usage_records,omitempty"`
}

// TrainingSession is one logged session.
type TrainingSession struct {
	SessionID   string            `json:"session_id"`
	Timestamp   time.Time         `json:"timestamp"`
	DurationMin float64           `json:"duration_min,omitempty"`
	Exercises   []SessionExercise `json:"exercises"`
}

// SessionExercise is an exercise performed in a logged session.
type SessionExercise struct {
	Name      string  `json:"name"`
	Sets      int     `json:"sets,omitempty"`
	Reps      int     `json:"reps,omitempty"`
	Duration  float64 `json:"duration_sec,omitempty"`
	Intensity string  `json:"intensity,omitempty"`
}

// UsageRecord is an app interaction timestamp.
type UsageRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action,omitempty"`
}

// HealthEntry is a reported health condition. Legacy profiles store it as a
// bare string; structured entries carry the affected areas and report date.
type HealthEntry struct {
	Description   string     `json:"description,omitempty"`
	AffectedAreas []string   `json:"affected_areas,omitempty"`
	Severity      string     `json:"severity,omitempty"`
	ReportedAt    *time.Time `json:"reported_at,omitempty"`
}

// Structured reports whether the entry carries explicit affected areas.
func (h HealthEntry) Structured() bool {
	return len(h.AffectedAreas) > 0
}

// UnmarshalJSON accepts either a JSON string or an object.
func (h *HealthEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding health entry: %w", err)
		}
		*h = HealthEntry{Description: s}
		return nil
	}
	type plain HealthEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding health entry: %w", err)
	}
	*h = HealthEntry(p)
	return nil
}

// Clone returns a deep copy of the profile.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	out := *u
	out.Static.HealthStatus = make([]HealthEntry, len(u.Static.HealthStatus))
	for i, h := range u.Static.HealthStatus {
		h.AffectedAreas = append([]string(nil), h.AffectedAreas...)
		if h.ReportedAt != nil {
			t := *h.ReportedAt
			h.ReportedAt = &t
		}
		out.Static.HealthStatus[i] = h
	}
	out.Static.SecondaryGoals = append([]string(nil), u.Static.SecondaryGoals...)
	out.Dynamic.CompletedExercises = append([]string(nil), u.Dynamic.CompletedExercises...)
	out.Dynamic.UsageRecords = append([]UsageRecord(nil), u.Dynamic.UsageRecords...)
	if u.Dynamic.LastWorkout != nil {
		t := *u.Dynamic.LastWorkout
		out.Dynamic.LastWorkout = &t
	}
	out.Dynamic.TrainingSessions = make([]TrainingSession, len(u.Dynamic.TrainingSessions))
	for i, s := range u.Dynamic.TrainingSessions {
		s.Exercises = append([]SessionExercise(nil), s.Exercises...)
		out.Dynamic.TrainingSessions[i] = s
	}
	out.Dynamic.SavedPlans = make([]WorkoutPlan, len(u.Dynamic.SavedPlans))
	for i := range u.Dynamic.SavedPlans {
		out.Dynamic.SavedPlans[i] = *u.Dynamic.SavedPlans[i].Clone()
	}
	return &out
}
