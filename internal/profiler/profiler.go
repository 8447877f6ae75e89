// Package profiler reduces a user profile and feedback history into the
// UserState snapshot the rest of the engine works from.
package profiler

import (
	"time"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

// Neutral defaults used when an input is missing.
const (
	neutralRating = 3.0
	neutralScore  = 0.5
)

// Profiler builds UserState snapshots. It reads the clock for recency
// calculations and is otherwise a pure function of its inputs.
type Profiler struct {
	clock adaptive.Clock
}

// New creates a Profiler. A nil clock uses the wall clock.
func New(clock adaptive.Clock) *Profiler {
	if clock == nil {
		clock = adaptive.SystemClock
	}
	return &Profiler{clock: clock}
}

// BuildState derives the snapshot for one engine invocation. plan may be nil.
func (p *Profiler) BuildState(user *models.UserProfile, plan *models.WorkoutPlan, feedback []models.UserFeedback) *adaptive.UserState {
	if user == nil {
		user = &models.UserProfile{}
	}
	now := p.clock.Now()
	sorted := models.SortedFeedback(feedback)

	st := &adaptive.UserState{
		UserID:             user.UserID,
		CurrentPlan:        plan,
		FeedbackHistory:    sorted,
		DeclaredExperience: adaptive.ParseExperience(user.Static.ExperienceLevel),
		Goals:              goals(user.Static),
		CompletedWorkouts:  len(user.Dynamic.CompletedExercises),
		LastWorkout:        user.Dynamic.LastWorkout,
		HealthStatus:       user.Static.HealthStatus,
		Age:                user.Static.Age,
	}

	st.Metrics = computeMetrics(user, sorted, now)
	st.Experience = deriveExperience(st.DeclaredExperience, sorted, st.Metrics.CompletionRate)
	st.Params = initialParameters(st.Experience, user.Static, sorted)
	st.Preferences = preferences(plan, sorted)
	st.PreferredTimeOfDay = preferredTimeOfDay(user.Dynamic.UsageRecords)
	st.Body = bodyMetrics(user.Static, st.PrimaryGoal())
	return st
}

func goals(s models.StaticAttributes) []string {
	var out []string
	if s.PrimaryGoal != "" {
		out = append(out, s.PrimaryGoal)
	}
	for _, g := range s.SecondaryGoals {
		if g != "" && g != s.PrimaryGoal {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		out = []string{models.GoalGeneralHealth}
	}
	return out
}

// deriveExperience adjusts the declared tier by at most one step once there
// is enough feedback to judge performance.
func deriveExperience(declared adaptive.ExperienceLevel, fb []models.UserFeedback, completion float64) adaptive.ExperienceLevel {
	if len(fb) < 10 {
		return declared
	}
	var sum float64
	for _, f := range fb {
		sum += float64(f.Difficulty)
	}
	avg := sum / float64(len(fb))
	switch {
	case avg < 2.5 && completion > 0.8:
		return declared.Promote()
	case avg > 4 && completion < 0.6:
		return declared.Demote()
	}
	return declared
}

// preferences maps exercise names to their mean enjoyment, resolving feedback
// ids through the current plan. Ids that do not resolve are ignored.
func preferences(plan *models.WorkoutPlan, fb []models.UserFeedback) map[string]float64 {
	if plan == nil {
		return map[string]float64{}
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, f := range fb {
		ex, ok := plan.ExerciseAt(f.ExerciseID)
		if !ok {
			continue
		}
		sums[ex.Name] += float64(f.Enjoyment)
		counts[ex.Name]++
	}
	out := make(map[string]float64, len(sums))
	for name, s := range sums {
		out[name] = s / float64(counts[name])
	}
	return out
}

// preferredTimeOfDay is the most common session bucket in usage records.
func preferredTimeOfDay(records []models.UsageRecord) string {
	if len(records) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, r := range records {
		counts[timeBucket(r.Timestamp)]++
	}
	best, bestN := "", 0
	for _, b := range []string{"morning", "afternoon", "evening"} {
		if counts[b] > bestN {
			best, bestN = b, counts[b]
		}
	}
	return best
}

func timeBucket(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
