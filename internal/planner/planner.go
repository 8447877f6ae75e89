// Package planner connects the adaptive engine to storage: it loads a
// user's profile, active plan and recent feedback, runs the engine and
// persists the result as the new active plan.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/storage"
)

var (
	// ErrInvalidPlan is returned when a manually supplied plan cannot be stored.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrGenerationDisabled is returned by Generate without a generator.
	ErrGenerationDisabled = errors.New("plan generation is disabled")
)

// Store is the persistence the planner needs. *storage.DB implements it.
type Store interface {
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	GetActivePlan(ctx context.Context, userID int) (*storage.StoredPlan, error)
	RecentFeedback(ctx context.Context, userID, limit int) ([]models.UserFeedback, error)
	SavePlan(ctx context.Context, userID int, plan *models.WorkoutPlan, parentID string) error
	SaveAdaptation(ctx context.Context, plan *models.WorkoutPlan, a storage.Adaptation) (int64, error)
}

var _ Store = (*storage.DB)(nil)

// Generator builds a fresh plan for a profile.
type Generator interface {
	Generate(user *models.UserProfile) (*models.WorkoutPlan, error)
}

// Planner runs adaptations for stored users. Adaptations of the same user
// are serialized; different users run concurrently.
type Planner struct {
	store         Store
	engine        *engine.Engine
	generator     Generator
	clock         adaptive.Clock
	feedbackLimit int
	log           *slog.Logger

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// Options configure a Planner.
type Options struct {
	// Generator backs explicit plan generation requests. It may be nil.
	Generator Generator
	Clock     adaptive.Clock
	// FeedbackLimit is how many recent feedback entries feed each run.
	FeedbackLimit int
}

// New creates a Planner.
func New(store Store, eng *engine.Engine, opts Options, log *slog.Logger) *Planner {
	if opts.Clock == nil {
		opts.Clock = adaptive.SystemClock
	}
	if opts.FeedbackLimit <= 0 {
		opts.FeedbackLimit = 200
	}
	return &Planner{
		store:         store,
		engine:        eng,
		generator:     opts.Generator,
		clock:         opts.Clock,
		feedbackLimit: opts.FeedbackLimit,
		log:           log,
		locks:         make(map[int]*sync.Mutex),
	}
}

// Result is the outcome of one stored adaptation.
type Result struct {
	AdaptationID int64  `json:"adaptation_id"`
	ParentID     string `json:"parent_id,omitempty"`
	*engine.Outcome
}

// summary is what gets stored in adaptations.result.
type summary struct {
	Message    string                      `json:"message"`
	Reasons    []string                    `json:"reasons"`
	Exercise   int                         `json:"exercise_edits"`
	Structure  []string                    `json:"structure_edits,omitempty"`
	Safety     []engine.SafetySwap         `json:"safety_swaps,omitempty"`
	Parameters adaptive.AdaptiveParameters `json:"params"`
	Generated  bool                        `json:"generated,omitempty"`
}

// Adapt runs the engine for userID and stores the new plan. trigger names
// what started the run (api, mcp, scheduler).
func (p *Planner) Adapt(ctx context.Context, userID int, trigger string) (*Result, error) {
	unlock := p.lock(userID)
	defer unlock()

	user, current, feedback, err := p.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var plan *models.WorkoutPlan
	var parent *string
	if current != nil {
		plan = &current.WorkoutPlan
		parent = &current.ID
	}

	out, err := p.engine.Adapt(user, plan, feedback)
	if err != nil {
		return nil, fmt.Errorf("adapting plan for user %d: %w", userID, err)
	}

	raw, err := json.Marshal(summarize(out))
	if err != nil {
		return nil, fmt.Errorf("encoding adaptation summary: %w", err)
	}
	id, err := p.store.SaveAdaptation(ctx, out.Plan, storage.Adaptation{
		UserID:     userID,
		FromPlanID: parent,
		ToPlanID:   out.Plan.ID,
		Level:      out.Level.String(),
		Problems:   len(out.Problems),
		Trigger:    trigger,
		Result:     raw,
	})
	if err != nil {
		return nil, fmt.Errorf("saving adaptation: %w", err)
	}

	p.log.Info("adaptation stored",
		"user_id", userID,
		"adaptation_id", id,
		"plan_id", out.Plan.ID,
		"level", out.Level.String(),
		"trigger", trigger,
		"generated", out.Generated)

	res := &Result{AdaptationID: id, Outcome: out}
	if parent != nil {
		res.ParentID = *parent
	}
	return res, nil
}

// Analyze returns the user's current state, level and problems without
// changing anything.
func (p *Planner) Analyze(ctx context.Context, userID int) (*engine.Analysis, error) {
	user, current, feedback, err := p.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	var plan *models.WorkoutPlan
	if current != nil {
		plan = &current.WorkoutPlan
	}
	return p.engine.Analyze(user, plan, feedback), nil
}

// Generate replaces the user's active plan with a freshly generated one.
func (p *Planner) Generate(ctx context.Context, userID int) (*models.WorkoutPlan, error) {
	if p.generator == nil {
		return nil, ErrGenerationDisabled
	}
	unlock := p.lock(userID)
	defer unlock()

	user, err := p.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := p.generator.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}
	parent, err := p.activeID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.store.SavePlan(ctx, userID, plan, parent); err != nil {
		return nil, fmt.Errorf("saving generated plan: %w", err)
	}
	p.log.Info("plan generated", "user_id", userID, "plan_id", plan.ID, "days", len(plan.Days))
	return plan, nil
}

// SetPlan stores a caller-supplied plan as the user's active plan. A
// missing id or creation time is filled in.
func (p *Planner) SetPlan(ctx context.Context, userID int, plan *models.WorkoutPlan) (*models.WorkoutPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	unlock := p.lock(userID)
	defer unlock()

	plan = plan.Clone()
	if _, err := uuid.Parse(plan.ID); err != nil {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = p.clock.Now()
	}
	parent, err := p.activeID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.store.SavePlan(ctx, userID, plan, parent); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return plan, nil
}

func validatePlan(plan *models.WorkoutPlan) error {
	if plan == nil || len(plan.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidPlan)
	}
	if len(plan.Days) > 7 {
		return fmt.Errorf("%w: at most 7 days", ErrInvalidPlan)
	}
	seen := map[int]bool{}
	for _, d := range plan.Days {
		if d.DayNumber < 1 {
			return fmt.Errorf("%w: day_number must be positive", ErrInvalidPlan)
		}
		if seen[d.DayNumber] {
			return fmt.Errorf("%w: duplicate day_number %d", ErrInvalidPlan, d.DayNumber)
		}
		seen[d.DayNumber] = true
	}
	return nil
}

// load fetches everything one engine run needs. A missing profile yields
// an empty one; a missing plan yields nil.
func (p *Planner) load(ctx context.Context, userID int) (*models.UserProfile, *storage.StoredPlan, []models.UserFeedback, error) {
	user, err := p.profile(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	current, err := p.store.GetActivePlan(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading active plan: %w", err)
	}
	feedback, err := p.store.RecentFeedback(ctx, userID, p.feedbackLimit)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading feedback: %w", err)
	}
	return user, current, feedback, nil
}

func (p *Planner) profile(ctx context.Context, userID int) (*models.UserProfile, error) {
	user, err := p.store.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.UserProfile{UserID: strconv.Itoa(userID)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return user, nil
}

func (p *Planner) activeID(ctx context.Context, userID int) (string, error) {
	current, err := p.store.GetActivePlan(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("loading active plan: %w", err)
	}
	return current.ID, nil
}

// lock takes the per-user mutex and returns its release.
func (p *Planner) lock(userID int) func() {
	p.mu.Lock()
	m, ok := p.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[userID] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func summarize(out *engine.Outcome) summary {
	s := summary{
		Safety:    out.Safety,
		Generated: out.Generated,
		Reasons:   []string{},
	}
	if out.State != nil {
		s.Parameters = out.State.Params
	}
	if r := out.Result; r != nil {
		s.Message = r.Message
		s.Reasons = r.Reasons
		s.Exercise = len(r.ExerciseAdjustments)
		s.Parameters = r.Params
		for _, c := range r.StructureChanges {
			s.Structure = append(s.Structure, string(c.Kind))
		}
	} else if out.Generated {
		s.Message = "Generated an initial plan."
	}
	return s
}
