// Package adaptive holds the vocabulary shared by the profiler, analyzer,
// adjuster and engine.
package adaptive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/flexifit/internal/models"
)

// ProgressionLevel describes how fast training load should move.
// Values are ordered: Deload is the lowest, Breakthrough the highest.
type ProgressionLevel int

const (
	Deload ProgressionLevel = iota
	Maintenance
	VerySlowProgress
	SlowProgress
	NormalProgress
	ModerateProgress
	FastProgress
	Breakthrough
)

var levelNames = [...]string{
	Deload:           "deload",
	Maintenance:      "maintenance",
	VerySlowProgress: "very_slow_progress",
	SlowProgress:     "slow_progress",
	NormalProgress:   "normal_progress",
	ModerateProgress: "moderate_progress",
	FastProgress:     "fast_progress",
	Breakthrough:     "breakthrough",
}

var levelRates = [...]float64{-1, 0, 0.15, 0.3, 0.5, 0.65, 0.8, 1}

func (l ProgressionLevel) String() string {
	if l < Deload || l > Breakthrough {
		return fmt.Sprintf("ProgressionLevel(%d)", int(l))
	}
	return levelNames[l]
}

// Rate is the legacy numeric progression rate for the level.
func (l ProgressionLevel) Rate() float64 {
	if l < Deload || l > Breakthrough {
		return 0
	}
	return levelRates[l]
}

// ParseProgressionLevel is the inverse of String.
func ParseProgressionLevel(s string) (ProgressionLevel, error) {
	for i, n := range levelNames {
		if n == s {
			return ProgressionLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown progression level %q", s)
}

func (l ProgressionLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *ProgressionLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseProgressionLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ExperienceLevel is the user's training tier.
type ExperienceLevel string

const (
	Beginner     ExperienceLevel = "beginner"
	Intermediate ExperienceLevel = "intermediate"
	Advanced     ExperienceLevel = "advanced"
)

// ParseExperience maps a declared level to a tier, defaulting to Beginner.
func ParseExperience(s string) ExperienceLevel {
	switch ExperienceLevel(s) {
	case Intermediate:
		return Intermediate
	case Advanced:
		return Advanced
	default:
		return Beginner
	}
}

// Promote moves one tier up, saturating at Advanced.
func (e ExperienceLevel) Promote() ExperienceLevel {
	switch e {
	case Beginner:
		return Intermediate
	default:
		return Advanced
	}
}

// Demote moves one tier down, saturating at Beginner.
func (e ExperienceLevel) Demote() ExperienceLevel {
	switch e {
	case Advanced:
		return Intermediate
	default:
		return Beginner
	}
}

// OptimalDifficulty is the target perceived difficulty for the tier.
func (e ExperienceLevel) OptimalDifficulty() float64 {
	switch e {
	case Intermediate:
		return 3.5
	case Advanced:
		return 4.0
	default:
		return 3.0
	}
}

// DifficultyTolerance is the distance from optimal at which difficulty fit reaches zero.
func (e ExperienceLevel) DifficultyTolerance() float64 {
	switch e {
	case Intermediate:
		return 2.5
	case Advanced:
		return 3.0
	default:
		return 2.0
	}
}

// UserMetrics are behavioural scores. All are in [0,1] except
// ImprovementRate which is in [-1,1].
type UserMetrics struct {
	CompletionRate   float64 `json:"completion_rate"`
	ConsistencyScore float64 `json:"consistency_score"`
	ImprovementRate  float64 `json:"improvement_rate"`
	AdherenceScore   float64 `json:"adherence_score"`
	PerceivedEffort  float64 `json:"perceived_effort"`
	VarietyScore     float64 `json:"variety_score"`
	BalanceScore     float64 `json:"balance_score"`
}

// BodyMetrics are derived from height, weight, age and goal.
type BodyMetrics struct {
	BMI                  float64 `json:"bmi"`
	BMICategory          string  `json:"bmi_category"`
	IdealRepMin          int     `json:"ideal_rep_min"`
	IdealRepMax          int     `json:"ideal_rep_max"`
	RecommendedIntensity float64 `json:"recommended_intensity"`
}

// UserState is the per-invocation snapshot the analyzer and adjuster read.
// It is rebuilt on every call and never stored.
type UserState struct {
	UserID             string                `json:"user_id"`
	CurrentPlan        *models.WorkoutPlan   `json:"-"`
	FeedbackHistory    []models.UserFeedback `json:"-"`
	Metrics            UserMetrics           `json:"metrics"`
	Params             AdaptiveParameters    `json:"params"`
	Experience         ExperienceLevel       `json:"experience"`
	DeclaredExperience ExperienceLevel       `json:"declared_experience"`
	Goals              []string              `json:"goals"`
	CompletedWorkouts  int                   `json:"completed_workouts"`
	LastWorkout        *time.Time            `json:"last_workout,omitempty"`
	HealthStatus       []models.HealthEntry  `json:"health_status,omitempty"`
	Age                int                   `json:"age,omitempty"`
	PreferredTimeOfDay string                `json:"preferred_time_of_day,omitempty"`
	Preferences        map[string]float64    `json:"preferences,omitempty"`
	Body               BodyMetrics           `json:"body"`
}

// PrimaryGoal returns the first goal, or general health.
func (s *UserState) PrimaryGoal() string {
	if len(s.Goals) == 0 || s.Goals[0] == "" {
		return models.GoalGeneralHealth
	}
	return s.Goals[0]
}

// HasStrengthGoal reports whether any goal is strength oriented.
func (s *UserState) HasStrengthGoal() bool {
	for _, g := range s.Goals {
		if g == models.GoalMuscleGain || g == models.GoalStrength {
			return true
		}
	}
	return false
}

// Preference returns the user's mean enjoyment for an exercise name, 3 if unknown.
func (s *UserState) Preference(name string) float64 {
	if v, ok := s.Preferences[name]; ok {
		return v
	}
	return 3
}

// ProblematicExercise is an exercise flagged by feedback analysis or the
// health-issue table.
type ProblematicExercise struct {
	ExerciseID string  `json:"exercise_id"`
	Reason     string  `json:"reason"`
	Severity   float64 `json:"severity"`
}

// Problem reasons.
const (
	ReasonLowEnjoyment       = "Consistently low enjoyment"
	ReasonDecliningEnjoyment = "Declining enjoyment"
	ReasonTooDifficult       = "Consistently too difficult"
	ReasonExcessiveFatigue   = "Excessive fatigue"
	ReasonPain               = "Potential pain or discomfort"
)
