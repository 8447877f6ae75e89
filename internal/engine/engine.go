// Package engine runs the adaptive pipeline end to end: profile, safety
// pass, feedback analysis, adjustment and application of the edits onto a
// copy of the plan.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/analyzer"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/profiler"
)

// PlanGenerator builds an initial plan for a user who has none.
type PlanGenerator interface {
	Generate(user *models.UserProfile) (*models.WorkoutPlan, error)
}

// Options configure an Engine. Zero values use the wall clock, a
// clock-seeded random source, no logging and no generator.
type Options struct {
	Clock     adaptive.Clock
	Rand      adaptive.Rand
	Logger    *slog.Logger
	Generator PlanGenerator
}

// Engine is safe for concurrent use across users. Callers must serialize
// adaptations of the same user's plan.
type Engine struct {
	clock     adaptive.Clock
	profiler  *profiler.Profiler
	analyzer  *analyzer.Analyzer
	adjuster  *adjuster.Adjuster
	generator PlanGenerator
	log       *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = adaptive.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Rand == nil {
		opts.Rand = adaptive.NewRand(0)
	}
	return &Engine{
		clock:     opts.Clock,
		profiler:  profiler.New(opts.Clock),
		analyzer:  analyzer.New(opts.Clock, opts.Logger),
		adjuster:  adjuster.New(adaptive.SyncRand(opts.Rand), opts.Logger),
		generator: opts.Generator,
		log:       opts.Logger,
	}
}

// Outcome is everything one adaptation produced.
type Outcome struct {
	Plan      *models.WorkoutPlan            `json:"plan"`
	Result    *adaptive.AdjustmentResult     `json:"result,omitempty"`
	Level     adaptive.ProgressionLevel      `json:"level"`
	Problems  []adaptive.ProblematicExercise `json:"problems"`
	State     *adaptive.UserState            `json:"state"`
	Safety    []SafetySwap                   `json:"safety_swaps,omitempty"`
	Generated bool                           `json:"generated"`
}

// Analysis is the read-only part of the pipeline.
type Analysis struct {
	State    *adaptive.UserState            `json:"state"`
	Level    adaptive.ProgressionLevel      `json:"level"`
	Problems []adaptive.ProblematicExercise `json:"problems"`
	Injuries []string                       `json:"injured_areas,omitempty"`
}

// GenerateAdaptiveWorkoutPlan returns the adapted plan for user.
func (e *Engine) GenerateAdaptiveWorkoutPlan(user *models.UserProfile, plan *models.WorkoutPlan, feedback []models.UserFeedback) (*models.WorkoutPlan, error) {
	out, err := e.Adapt(user, plan, feedback)
	if err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// Analyze computes state, progression level and problems without
// producing a new plan.
func (e *Engine) Analyze(user *models.UserProfile, plan *models.WorkoutPlan, feedback []models.UserFeedback) *Analysis {
	st := e.profiler.BuildState(user, plan, feedback)
	injured := catalog.InjuredAreas(st.HealthStatus, e.clock.Now())
	problems := mergeProblems(analyzer.FindProblematicExercises(st.FeedbackHistory), flagInjuryRisks(plan, injured))
	return &Analysis{
		State:    st,
		Level:    e.analyzer.ClassifyProgression(st),
		Problems: problems,
		Injuries: injured,
	}
}

// Adapt runs the full pipeline. plan and feedback are not modified.
func (e *Engine) Adapt(user *models.UserProfile, plan *models.WorkoutPlan, feedback []models.UserFeedback) (*Outcome, error) {
	now := e.clock.Now()
	if plan == nil {
		return e.initialPlan(user, feedback)
	}

	working := plan.Clone()
	st := e.profiler.BuildState(user, working, feedback)
	log := e.log.With("user_id", st.UserID, "plan_id", plan.ID)

	injured := catalog.InjuredAreas(st.HealthStatus, now)
	var swaps []SafetySwap
	if len(injured) > 0 {
		swaps = SafetyPass(working, injured)
		if len(swaps) > 0 {
			annotate(working, injured)
		}
		log.Debug("safety pass", "areas", injured, "swaps", len(swaps))
	}

	// Exercises the safety pass already replaced are not flagged again:
	// the substitute in working is safe and was never performed.
	risks := withoutSwapped(flagInjuryRisks(plan, injured), swaps)
	problems := mergeProblems(analyzer.FindProblematicExercises(st.FeedbackHistory), risks)
	level := e.analyzer.ClassifyProgression(st)

	res, err := e.adjuster.Adjust(st, problems, level)
	if err != nil {
		return nil, fmt.Errorf("adjusting plan: %w", err)
	}

	out := working.Clone()
	skipped := Apply(out, res)
	if skipped > 0 {
		log.Debug("skipped stale edits", "count", skipped)
	}
	if len(injured) > 0 {
		swaps = append(swaps, SafetyPass(out, injured)...)
	}
	finalize(out, now)

	log.Info("plan adapted",
		"level", level.String(),
		"problems", len(problems),
		"exercise_edits", len(res.ExerciseAdjustments),
		"structure_edits", len(res.StructureChanges))

	return &Outcome{
		Plan:     out,
		Result:   res,
		Level:    level,
		Problems: problems,
		State:    st,
		Safety:   swaps,
	}, nil
}

func (e *Engine) initialPlan(user *models.UserProfile, feedback []models.UserFeedback) (*Outcome, error) {
	if e.generator == nil {
		return nil, adjuster.ErrNoCurrentPlan
	}
	plan, err := e.generator.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("generating initial plan: %w", err)
	}
	st := e.profiler.BuildState(user, plan, feedback)
	injured := catalog.InjuredAreas(st.HealthStatus, e.clock.Now())
	swaps := SafetyPass(plan, injured)
	e.log.Info("generated initial plan", "user_id", st.UserID, "plan_id", plan.ID, "days", len(plan.Days))
	return &Outcome{
		Plan:      plan,
		Level:     analyzer.DefaultLevel(st.Experience),
		Problems:  []adaptive.ProblematicExercise{},
		State:     st,
		Safety:    swaps,
		Generated: true,
	}, nil
}

// flagInjuryRisks returns the exercises of plan that hit a restricted
// keyword for an injured area.
func flagInjuryRisks(plan *models.WorkoutPlan, injured []string) []adaptive.ProblematicExercise {
	if plan == nil || len(injured) == 0 {
		return nil
	}
	var out []adaptive.ProblematicExercise
	for _, d := range plan.Days {
		for i, ex := range d.Exercises {
			if _, _, ok := catalog.MatchRestricted(ex.Name, injured); ok {
				out = append(out, adaptive.ProblematicExercise{
					ExerciseID: models.ExerciseID(d.DayNumber, i),
					Reason:     adaptive.ReasonPain,
					Severity:   0.9,
				})
			}
		}
	}
	return out
}

func withoutSwapped(risks []adaptive.ProblematicExercise, swaps []SafetySwap) []adaptive.ProblematicExercise {
	if len(swaps) == 0 {
		return risks
	}
	return slices.DeleteFunc(risks, func(p adaptive.ProblematicExercise) bool {
		return slices.ContainsFunc(swaps, func(s SafetySwap) bool { return s.ExerciseID == p.ExerciseID })
	})
}

// mergeProblems combines feedback and injury flags, one entry per id
// keeping the higher severity, ordered by severity.
func mergeProblems(lists ...[]adaptive.ProblematicExercise) []adaptive.ProblematicExercise {
	out := []adaptive.ProblematicExercise{}
	at := map[string]int{}
	for _, l := range lists {
		for _, p := range l {
			if i, ok := at[p.ExerciseID]; ok {
				if p.Severity > out[i].Severity {
					out[i] = p
				}
				continue
			}
			at[p.ExerciseID] = len(out)
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b adaptive.ProblematicExercise) int {
		switch {
		case a.Severity > b.Severity:
			return -1
		case a.Severity < b.Severity:
			return 1
		}
		return 0
	})
	return out
}

const (
	nameSuffix = " (Adjusted)"
	descSuffix = " (Adaptively Adjusted)"
)

// finalize gives the adapted plan a new identity. Suffixes from earlier
// adaptations are not repeated.
func finalize(p *models.WorkoutPlan, now time.Time) {
	p.ID = uuid.NewString()
	p.Name = strings.ReplaceAll(p.Name, nameSuffix, "") + nameSuffix
	p.Description = strings.ReplaceAll(p.Description, descSuffix, "") + descSuffix
	p.CreatedAt = now
}
