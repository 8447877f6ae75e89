// Package analyzer classifies a user's training trajectory into a
// progression level and flags exercises that are causing trouble.
package analyzer

import (
	"log/slog"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

// minWorkouts is the completed-workout count below which there is too little
// data to score and the tier default is used.
const minWorkouts = 3

// deloadWindow is the number of recent entries the multi-factor deload
// check looks at.
const deloadWindow = 7

// Analyzer classifies progression. It is safe for concurrent use.
type Analyzer struct {
	clock adaptive.Clock
	log   *slog.Logger
}

// New creates an Analyzer. A nil clock uses the wall clock, a nil logger
// discards output.
func New(clock adaptive.Clock, log *slog.Logger) *Analyzer {
	if clock == nil {
		clock = adaptive.SystemClock
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{clock: clock, log: log}
}

// DefaultLevel is the level used while a user has fewer than three
// completed workouts.
func DefaultLevel(e adaptive.ExperienceLevel) adaptive.ProgressionLevel {
	switch e {
	case adaptive.Intermediate:
		return adaptive.NormalProgress
	case adaptive.Advanced:
		return adaptive.SlowProgress
	default:
		return adaptive.FastProgress
	}
}

// ClassifyProgression picks the progression level for st.
func (a *Analyzer) ClassifyProgression(st *adaptive.UserState) adaptive.ProgressionLevel {
	if st.CompletedWorkouts < minWorkouts {
		lvl := DefaultLevel(st.Experience)
		a.log.Debug("insufficient history, using tier default", "completed", st.CompletedWorkouts, "level", lvl)
		return lvl
	}

	if periodizationDeload(st) {
		a.log.Debug("scheduled deload", "completed", st.CompletedWorkouts)
		return adaptive.Deload
	}
	if reason, ok := needsDeload(st); ok {
		a.log.Debug("fatigue deload", "reason", reason)
		return adaptive.Deload
	}
	if a.consistencyIssue(st) {
		a.log.Debug("consistency issue, holding load", "consistency", st.Metrics.ConsistencyScore)
		return adaptive.Maintenance
	}

	score := ProgressScore(st)
	lvl := levelForScore(score)
	a.log.Debug("progress scored", "score", score, "level", lvl)
	return lvl
}

// periodizationDeload fires every fourth workout once the user has a
// training base and load is already high.
func periodizationDeload(st *adaptive.UserState) bool {
	return st.CompletedWorkouts >= 12 &&
		st.CompletedWorkouts%4 == 0 &&
		st.Params.Intensity > 0.7 &&
		st.Params.Volume > 0.7
}

// needsDeload evaluates the fatigue-driven deload triggers over the most
// recent entries and reports which one fired.
func needsDeload(st *adaptive.UserState) (string, bool) {
	recent := models.LastN(st.FeedbackHistory, deloadWindow)
	if len(recent) == 0 {
		return "", false
	}
	fatigue := mean(recent, fatigueOf)
	enjoyment := mean(recent, enjoymentOf)
	trend := halfTrend(recent, fatigueOf)

	lowCompletion := st.Metrics.CompletionRate < 0.65
	regressing := st.Metrics.ImprovementRate < -0.25
	struggling := lowCompletion || regressing

	switch {
	case fatigue > 4.5:
		return "very high fatigue", true
	case fatigue > 4.0 && struggling:
		return "high fatigue with poor performance", true
	case trend > 0.3 && fatigue > 3.5 && struggling:
		return "rising fatigue", true
	case enjoyment < 2.5 && fatigue > 3.5 && struggling:
		return "low enjoyment with fatigue", true
	}
	return "", false
}

func (a *Analyzer) consistencyIssue(st *adaptive.UserState) bool {
	if st.Metrics.ConsistencyScore < 0.3 {
		return true
	}
	return st.LastWorkout != nil && adaptive.DaysBetween(*st.LastWorkout, a.clock.Now()) > 10
}

type weights struct {
	difficulty, completion, consistency, improvement float64
	variety, balance, adherence, enjoyment           float64
}

var tierWeights = map[adaptive.ExperienceLevel]weights{
	adaptive.Beginner:     {0.15, 0.20, 0.15, 0.10, 0.05, 0.05, 0.20, 0.10},
	adaptive.Intermediate: {0.20, 0.15, 0.15, 0.15, 0.08, 0.07, 0.10, 0.10},
	adaptive.Advanced:     {0.25, 0.10, 0.10, 0.20, 0.12, 0.08, 0.05, 0.10},
}

// ProgressScore combines eight sub-scores into [0,1] using the weights for
// the user's tier.
func ProgressScore(st *adaptive.UserState) float64 {
	w, ok := tierWeights[st.Experience]
	if !ok {
		w = tierWeights[adaptive.Beginner]
	}
	m := st.Metrics
	score := w.difficulty*DifficultyFit(st) +
		w.completion*m.CompletionRate +
		w.consistency*m.ConsistencyScore +
		w.improvement*(m.ImprovementRate+1)/2 +
		w.variety*m.VarietyScore +
		w.balance*m.BalanceScore +
		w.adherence*m.AdherenceScore +
		w.enjoyment*enjoymentScore(st.FeedbackHistory)
	return adaptive.Clamp01(score)
}

// DifficultyFit is 1 when recent difficulty sits at the tier optimum and
// falls linearly to 0 at the tier tolerance.
func DifficultyFit(st *adaptive.UserState) float64 {
	avg := RecentDifficulty(st.FeedbackHistory)
	opt := st.Experience.OptimalDifficulty()
	tol := st.Experience.DifficultyTolerance()
	d := avg - opt
	if d < 0 {
		d = -d
	}
	return max(0, 1-d/tol)
}

// RecentDifficulty is the linearly recency-weighted mean difficulty of the
// last five entries, or 3 with no feedback.
func RecentDifficulty(fb []models.UserFeedback) float64 {
	return weightedRecent(fb, 5, difficultyOf)
}

// RecentFatigue is RecentDifficulty for fatigue.
func RecentFatigue(fb []models.UserFeedback) float64 {
	return weightedRecent(fb, 5, fatigueOf)
}

func enjoymentScore(fb []models.UserFeedback) float64 {
	recent := models.LastN(fb, 5)
	if len(recent) == 0 {
		return 0.5
	}
	return adaptive.Clamp01((mean(recent, enjoymentOf) - 1) / 4)
}

func levelForScore(s float64) adaptive.ProgressionLevel {
	switch {
	case s >= 0.85:
		return adaptive.Breakthrough
	case s >= 0.7:
		return adaptive.FastProgress
	case s >= 0.55:
		return adaptive.ModerateProgress
	case s >= 0.4:
		return adaptive.NormalProgress
	case s >= 0.25:
		return adaptive.SlowProgress
	case s >= 0.1:
		return adaptive.VerySlowProgress
	default:
		return adaptive.Maintenance
	}
}

func difficultyOf(f models.UserFeedback) float64 { return float64(f.Difficulty) }
func fatigueOf(f models.UserFeedback) float64    { return float64(f.Fatigue) }
func enjoymentOf(f models.UserFeedback) float64  { return float64(f.Enjoyment) }

func mean(fb []models.UserFeedback, field func(models.UserFeedback) float64) float64 {
	if len(fb) == 0 {
		return 3
	}
	var sum float64
	for _, f := range fb {
		sum += field(f)
	}
	return sum / float64(len(fb))
}

func weightedRecent(fb []models.UserFeedback, n int, field func(models.UserFeedback) float64) float64 {
	recent := models.LastN(fb, n)
	if len(recent) == 0 {
		return 3
	}
	var sum, wSum float64
	for i, f := range recent {
		w := float64(i + 1)
		sum += w * field(f)
		wSum += w
	}
	return sum / wSum
}

// halfTrend is the mean of the second half minus the mean of the first.
// With fewer than two entries there is no trend.
func halfTrend(fb []models.UserFeedback, field func(models.UserFeedback) float64) float64 {
	if len(fb) < 2 {
		return 0
	}
	mid := len(fb) / 2
	return mean(fb[mid:], field) - mean(fb[:mid], field)
}
