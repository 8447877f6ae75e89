// Package generator builds initial workout plans from a user profile.
package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

// Split is a training split layout.
type Split string

const (
	SplitFullBody     Split = "full_body"
	SplitUpperLower   Split = "upper_lower"
	SplitPushPullLegs Split = "push_pull_legs"
	SplitBodyPart     Split = "body_part"
)

// Options tune plan generation.
type Options struct {
	// FullWeek pads the plan to seven days with rest days spread between
	// training days.
	FullWeek bool
}

// Generator creates plans. It holds no state beyond its clock.
type Generator struct {
	clock adaptive.Clock
	opts  Options
}

// New creates a Generator. A nil clock uses the wall clock.
func New(clock adaptive.Clock, opts Options) *Generator {
	if clock == nil {
		clock = adaptive.SystemClock
	}
	return &Generator{clock: clock, opts: opts}
}

// Generate builds a fresh plan for user.
func (g *Generator) Generate(user *models.UserProfile) (*models.WorkoutPlan, error) {
	if user == nil {
		return nil, fmt.Errorf("generating plan: no user profile")
	}
	s := user.Static
	exp := adaptive.ParseExperience(s.ExperienceLevel)
	goal := s.PrimaryGoal
	if goal == "" {
		goal = models.GoalGeneralHealth
	}
	now := g.clock.Now()
	injured := catalog.InjuredAreas(s.HealthStatus, now)

	days := DaysPerWeek(s.FrequencyPerWeek, exp, goal)
	split := OptimalSplit(days, goal, exp)
	name, desc := planBasics(goal, exp, s.Location, len(injured) > 0)
	count := exerciseCount(s.SessionDurationMin, exp)

	var training []models.WorkoutDay
	for i, focus := range splitFoci(split, goal, days) {
		training = append(training, models.WorkoutDay{
			DayNumber: i + 1,
			Focus:     focus,
			Exercises: selectExercises(focus, dayCount(focus, count), exp, injured),
		})
	}
	if g.opts.FullWeek {
		training = padWeek(training)
	}

	return &models.WorkoutPlan{
		ID:          uuid.NewString(),
		Name:        name,
		Description: desc,
		CreatedAt:   now,
		Days:        training,
	}, nil
}

// DefaultPlan is the minimal fallback plan: two full-body days around a rest day.
func DefaultPlan(clock adaptive.Clock) *models.WorkoutPlan {
	if clock == nil {
		clock = adaptive.SystemClock
	}
	fullBody := func(n int) models.WorkoutDay {
		d := models.WorkoutDay{DayNumber: n, Focus: models.FocusFullBody}
		for _, t := range catalog.DefaultDayExercises(models.FocusFullBody) {
			d.Exercises = append(d.Exercises, t.Exercise())
		}
		return d
	}
	return &models.WorkoutPlan{
		ID:          uuid.NewString(),
		Name:        "Starter Plan",
		Description: "A simple full-body routine to get started",
		CreatedAt:   clock.Now(),
		Days: []models.WorkoutDay{
			fullBody(1),
			{DayNumber: 2, Focus: models.FocusRest, Exercises: []models.WorkoutExercise{restExercise()}},
			fullBody(3),
		},
	}
}

// DaysPerWeek picks the weekly training frequency. A stated preference is
// honoured within experience caps; otherwise the goal decides.
func DaysPerWeek(preferred int, exp adaptive.ExperienceLevel, goal string) int {
	if preferred > 0 {
		switch {
		case exp == adaptive.Beginner && preferred > 4:
			return 4
		case exp == adaptive.Intermediate && preferred > 5:
			return 5
		}
		return adaptive.ClampInt(preferred, adaptive.MinFrequency, adaptive.MaxFrequency)
	}

	tier := map[adaptive.ExperienceLevel]int{adaptive.Beginner: 0, adaptive.Intermediate: 1, adaptive.Advanced: 2}[exp]
	switch goal {
	case models.GoalFatLoss, models.GoalEndurance:
		return 4 + tier
	default:
		return 3 + tier
	}
}

// OptimalSplit chooses the split for a frequency, goal and tier.
func OptimalSplit(days int, goal string, exp adaptive.ExperienceLevel) Split {
	if exp == adaptive.Beginner {
		return SplitFullBody
	}
	switch goal {
	case models.GoalMuscleGain, models.GoalStrength:
		switch {
		case days <= 3:
			return SplitFullBody
		case days == 4:
			return SplitUpperLower
		default:
			return SplitPushPullLegs
		}
	case models.GoalEndurance, models.GoalFatLoss:
		if days <= 4 {
			return SplitFullBody
		}
		return SplitUpperLower
	}
	switch {
	case days <= 3:
		return SplitFullBody
	case days == 4:
		return SplitUpperLower
	default:
		return SplitBodyPart
	}
}

var splitCycles = map[Split][]string{
	SplitUpperLower:   {"Upper Body", "Lower Body"},
	SplitPushPullLegs: {"Push", "Pull", "Legs"},
	SplitBodyPart:     {"Chest & Triceps", "Back & Biceps", "Legs & Glutes", "Shoulders & Arms", "Core & Abdominals", "Cardio"},
}

// fullBodyCycles vary full-body plans by goal.
var fullBodyCycles = map[string][]string{
	models.GoalFatLoss:   {"HIIT Cardio", "Full Body", "Core"},
	models.GoalEndurance: {"Cardio", "Full Body", "Core"},
}

func splitFoci(split Split, goal string, days int) []string {
	cycle, ok := splitCycles[split]
	if !ok {
		cycle, ok = fullBodyCycles[goal]
		if !ok {
			cycle = []string{models.FocusFullBody}
		}
	}
	out := make([]string, days)
	for i := range out {
		out[i] = cycle[i%len(cycle)]
	}
	return out
}

func planBasics(goal string, exp adaptive.ExperienceLevel, location string, injured bool) (name, desc string) {
	switch goal {
	case models.GoalFatLoss:
		name, desc = "Fat Burning Plan", "High-intensity training focused on calorie burn and metabolic conditioning"
		switch exp {
		case adaptive.Beginner:
			desc += " with modified exercises suitable for beginners"
		case adaptive.Advanced:
			desc += " using complex movement patterns and minimal rest periods"
		}
	case models.GoalMuscleGain:
		name, desc = "Muscle Building Plan", "Progressive overload training focused on hypertrophy and strength"
	case models.GoalStrength:
		name, desc = "Strength Plan", "Compound lifts with progressive loading to build maximal strength"
	case models.GoalEndurance:
		name, desc = "Endurance Training Plan", "Cardiovascular and muscular endurance to improve stamina"
		if exp == adaptive.Advanced {
			desc += " with periodized intensity and specialized conditioning"
		}
	default:
		name, desc = "Balanced Fitness Plan", "Comprehensive routine for overall health and wellness"
	}

	switch strings.ToLower(location) {
	case "home":
		desc += " (Home-based exercises with minimal equipment)"
	case "gym":
		desc += " (Gym-based exercises utilizing available equipment)"
	}
	if injured {
		desc += " (Modified to accommodate your specific needs and limitations)"
	}
	return name, desc
}

// exerciseCount assumes roughly five minutes per exercise including rest.
func exerciseCount(sessionMin int, exp adaptive.ExperienceLevel) int {
	if sessionMin <= 0 {
		sessionMin = 60
	}
	base := adaptive.ClampInt(sessionMin/5, 3, 8)
	mult := 1.0
	switch exp {
	case adaptive.Beginner:
		mult = 0.8
	case adaptive.Advanced:
		mult = 1.2
	}
	return max(1, int(float64(base)*mult+0.5))
}

func dayCount(focus string, n int) int {
	f := strings.ToLower(focus)
	switch {
	case strings.Contains(f, "cardio"):
		return max(2, n-2)
	case strings.Contains(f, "full body"):
		return min(8, n+1)
	}
	return n
}

// selectExercises takes up to n catalog exercises for the focus that suit
// the tier and avoid injured areas, compound lifts first.
func selectExercises(focus string, n int, exp adaptive.ExperienceLevel, injured []string) []models.WorkoutExercise {
	pool := catalog.ForLevel(catalog.ForFocus(focus), string(exp))
	if len(pool) == 0 {
		pool = catalog.ForFocus(focus)
	}
	pool = slices.DeleteFunc(pool, func(t catalog.Template) bool {
		_, _, bad := catalog.MatchRestricted(t.Name, injured)
		return bad
	})
	slices.SortStableFunc(pool, func(a, b catalog.Template) int {
		return catalog.Rank(a.Name) - catalog.Rank(b.Name)
	})

	out := make([]models.WorkoutExercise, 0, min(n, len(pool)))
	for _, t := range pool[:min(n, len(pool))] {
		out = append(out, t.Exercise())
	}
	return out
}

func restExercise() models.WorkoutExercise {
	return models.WorkoutExercise{
		Name:      "Complete Rest",
		Intensity: "None",
		Notes:     "Take this day off from training to allow full recovery",
	}
}

// padWeek spreads training days over seven and fills the gaps with rest.
func padWeek(training []models.WorkoutDay) []models.WorkoutDay {
	n := len(training)
	if n == 0 || n >= 7 {
		return training
	}
	week := make([]models.WorkoutDay, 7)
	used := make([]bool, 7)
	for k, d := range training {
		slot := k * 7 / n
		d.DayNumber = slot + 1
		week[slot] = d
		used[slot] = true
	}
	for i := range week {
		if !used[i] {
			week[i] = models.WorkoutDay{
				DayNumber: i + 1,
				Focus:     models.FocusRest,
				Exercises: []models.WorkoutExercise{restExercise()},
			}
		}
	}
	return week
}
