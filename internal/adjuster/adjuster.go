// Package adjuster turns a progression level and a list of problem
// exercises into an AdjustmentResult: new parameters plus the exercise and
// day-level edits to apply to the current plan.
//
// The plan passed in through the UserState is never modified. Stages that
// depend on earlier edits read a projected copy of the plan.
package adjuster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/analyzer"
	"github.com/claude/flexifit/internal/models"
)

// ErrNoCurrentPlan is returned when there is no plan to adjust.
var ErrNoCurrentPlan = errors.New("no current plan to adjust")

// Adjuster computes adjustments. Randomness comes only from the injected
// source, so a seeded source gives reproducible results.
type Adjuster struct {
	rand adaptive.Rand
	log  *slog.Logger
}

// New creates an Adjuster. A nil source is seeded from the clock; a nil
// logger discards output.
func New(r adaptive.Rand, log *slog.Logger) *Adjuster {
	if r == nil {
		r = adaptive.NewRand(0)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Adjuster{rand: r, log: log}
}

// run carries the state of one Adjust call.
type run struct {
	st       *adaptive.UserState
	level    adaptive.ProgressionLevel
	problems map[string]adaptive.ProblematicExercise
	rand     adaptive.Rand
	log      *slog.Logger

	res  *adaptive.AdjustmentResult
	plan *models.WorkoutPlan // projection of the edits emitted so far

	difficulty float64
	fatigue    float64
	avoid      map[string]bool // names of flagged exercises
}

// Adjust runs the adjustment pipeline for st.
func (a *Adjuster) Adjust(st *adaptive.UserState, problems []adaptive.ProblematicExercise, level adaptive.ProgressionLevel) (*adaptive.AdjustmentResult, error) {
	if st == nil || st.CurrentPlan == nil {
		return nil, ErrNoCurrentPlan
	}

	r := &run{
		st:       st,
		level:    level,
		problems: make(map[string]adaptive.ProblematicExercise, len(problems)),
		rand:     a.rand,
		log:      a.log.With("user_id", st.UserID, "level", level.String()),
		res: &adaptive.AdjustmentResult{
			ExerciseAdjustments: []adaptive.ExerciseAdjustment{},
			StructureChanges:    []adaptive.PlanStructureChange{},
			Reasons:             []string{},
		},
		plan:       st.CurrentPlan.Clone(),
		difficulty: analyzer.RecentDifficulty(st.FeedbackHistory),
		fatigue:    analyzer.RecentFatigue(st.FeedbackHistory),
		avoid:      map[string]bool{},
	}
	for _, p := range problems {
		if ex, ok := st.CurrentPlan.ExerciseAt(p.ExerciseID); ok {
			r.avoid[ex.Name] = true
		}
		// Keep the most severe entry when an id is flagged twice.
		if prev, ok := r.problems[p.ExerciseID]; !ok || p.Severity > prev.Severity {
			r.problems[p.ExerciseID] = p
		}
	}

	r.adjustParameters()
	r.adjustStructure()
	r.adjustExercises()
	r.injectVariety()
	r.sequence()
	r.balance()
	r.checkRest()
	r.res.Message = summaryMessage(level, st.Experience, st.PrimaryGoal())

	r.log.Debug("adjustment computed",
		"exercise_edits", len(r.res.ExerciseAdjustments),
		"structure_edits", len(r.res.StructureChanges))
	return r.res, nil
}

// emit records an exercise edit and projects it onto the working plan.
func (r *run) emit(adj adaptive.ExerciseAdjustment) {
	if !adaptive.ApplyExerciseEdit(r.plan, adj) {
		r.log.Debug("dropping edit for missing exercise", "exercise_id", adj.ExerciseID)
		return
	}
	r.res.ExerciseAdjustments = append(r.res.ExerciseAdjustments, adj)
}

func (r *run) structure(kind adaptive.StructureKind, dayIndex int, reason string) {
	c := adaptive.PlanStructureChange{Kind: kind, Reason: reason}
	if dayIndex >= 0 {
		c.DayIndex = &dayIndex
	}
	r.res.StructureChanges = append(r.res.StructureChanges, c)
	r.reason(reason)
}

func (r *run) reason(format string, args ...any) {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	r.res.Reasons = append(r.res.Reasons, format)
}

// trainingDays returns the indexes of non-rest days in the projected plan.
func (r *run) trainingDays() []int {
	var out []int
	for i, d := range r.plan.Days {
		if !d.IsRest() {
			out = append(out, i)
		}
	}
	return out
}
