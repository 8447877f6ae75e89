package analyzer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

var now = time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC)

func newTestAnalyzer() *Analyzer {
	return New(adaptive.FixedClock(now), nil)
}

func entries(id string, ratings ...[3]int) []models.UserFeedback {
	out := make([]models.UserFeedback, len(ratings))
	for i, r := range ratings {
		out[i] = models.UserFeedback{
			ExerciseID:  id,
			Difficulty:  r[0],
			Fatigue:     r[1],
			Enjoyment:   r[2],
			CompletedAt: now.Add(time.Duration(i-len(ratings)) * time.Hour),
		}
	}
	return out
}

func repeat(n int, r [3]int) [][3]int {
	out := make([][3]int, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// goodState is an intermediate user doing well on every metric.
func goodState() *adaptive.UserState {
	last := now.AddDate(0, 0, -1)
	return &adaptive.UserState{
		Experience:        adaptive.Intermediate,
		CompletedWorkouts: 9,
		LastWorkout:       &last,
		Params:            adaptive.BaseParameters(adaptive.Intermediate),
		FeedbackHistory:   entries("1-0", repeat(5, [3]int{3, 3, 5})...),
		Metrics: adaptive.UserMetrics{
			CompletionRate:   1,
			ConsistencyScore: 1,
			ImprovementRate:  1,
			AdherenceScore:   1,
			VarietyScore:     1,
			BalanceScore:     1,
		},
	}
}

// TestDefaultLevels verifies the fixed tier defaults for short histories.
func TestDefaultLevels(t *testing.T) {
	tests := map[adaptive.ExperienceLevel]adaptive.ProgressionLevel{
		adaptive.Beginner:     adaptive.FastProgress,
		adaptive.Intermediate: adaptive.NormalProgress,
		adaptive.Advanced:     adaptive.SlowProgress,
	}
	a := newTestAnalyzer()
	for exp, want := range tests {
		for completed := range minWorkouts {
			st := goodState()
			st.Experience = exp
			st.CompletedWorkouts = completed
			if got := a.ClassifyProgression(st); got != want {
				t.Errorf("%s with %d workouts = %s, want %s", exp, completed, got, want)
			}
		}
	}
}

// TestPeriodizationDeload fires on the fourth-workout boundary only.
func TestPeriodizationDeload(t *testing.T) {
	a := newTestAnalyzer()
	st := goodState()
	st.Params.Intensity, st.Params.Volume = 0.8, 0.8

	st.CompletedWorkouts = 12
	if got := a.ClassifyProgression(st); got != adaptive.Deload {
		t.Errorf("12 workouts = %s, want deload", got)
	}
	st.CompletedWorkouts = 13
	if got := a.ClassifyProgression(st); got == adaptive.Deload {
		t.Error("13 workouts should not deload")
	}
	st.CompletedWorkouts = 8
	if got := a.ClassifyProgression(st); got == adaptive.Deload {
		t.Error("8 workouts is below the periodization base")
	}
}

// TestFatigueDeload covers the multi-factor deload triggers.
func TestFatigueDeload(t *testing.T) {
	a := newTestAnalyzer()

	st := goodState()
	st.FeedbackHistory = entries("1-0", repeat(7, [3]int{5, 5, 1})...)
	if got := a.ClassifyProgression(st); got != adaptive.Deload {
		t.Errorf("fatigue 5 = %s, want deload", got)
	}

	st = goodState()
	st.FeedbackHistory = entries("1-0", repeat(7, [3]int{4, 5, 3})...)
	st.FeedbackHistory[0].Fatigue = 4
	st.FeedbackHistory[1].Fatigue = 4
	st.FeedbackHistory[2].Fatigue = 4
	// mean fatigue ~4.57 deloads outright
	if got := a.ClassifyProgression(st); got != adaptive.Deload {
		t.Errorf("mean fatigue 4.57 = %s, want deload", got)
	}

	st = goodState()
	st.FeedbackHistory = entries("1-0", repeat(7, [3]int{4, 4, 2})...)
	st.FeedbackHistory[6].Fatigue = 5
	if got := a.ClassifyProgression(st); got == adaptive.Deload {
		t.Error("fatigue 4.1 with good completion should not deload")
	}
	st.Metrics.CompletionRate = 0.5
	if got := a.ClassifyProgression(st); got != adaptive.Deload {
		t.Errorf("fatigue 4.1 with low completion = %s, want deload", got)
	}
}

// TestRisingFatigueTrend checks the trend trigger needs poor performance.
func TestRisingFatigueTrend(t *testing.T) {
	a := newTestAnalyzer()
	st := goodState()
	st.FeedbackHistory = entries("1-0",
		[3]int{3, 3, 4}, [3]int{3, 3, 4}, [3]int{3, 3, 4},
		[3]int{3, 4, 4}, [3]int{3, 4, 4}, [3]int{3, 5, 4}, [3]int{3, 5, 4})
	if got := a.ClassifyProgression(st); got == adaptive.Deload {
		t.Error("rising fatigue alone should not deload")
	}
	st.Metrics.ImprovementRate = -0.5
	if got := a.ClassifyProgression(st); got != adaptive.Deload {
		t.Errorf("rising fatigue and regression = %s, want deload", got)
	}
}

// TestConsistencyMaintenance holds load after a long break or poor consistency.
func TestConsistencyMaintenance(t *testing.T) {
	a := newTestAnalyzer()

	st := goodState()
	last := now.AddDate(0, 0, -11)
	st.LastWorkout = &last
	if got := a.ClassifyProgression(st); got != adaptive.Maintenance {
		t.Errorf("11 days idle = %s, want maintenance", got)
	}

	st = goodState()
	st.Metrics.ConsistencyScore = 0.2
	if got := a.ClassifyProgression(st); got != adaptive.Maintenance {
		t.Errorf("low consistency = %s, want maintenance", got)
	}
}

// TestScoredLevels verifies a strong user breaks through and a weak one stalls.
func TestScoredLevels(t *testing.T) {
	a := newTestAnalyzer()
	if got := a.ClassifyProgression(goodState()); got != adaptive.Breakthrough {
		t.Errorf("strong user = %s, want breakthrough", got)
	}

	st := goodState()
	st.Metrics = adaptive.UserMetrics{ConsistencyScore: 0.35, ImprovementRate: -1}
	st.FeedbackHistory = entries("1-0", repeat(5, [3]int{1, 3, 1})...)
	if got := a.ClassifyProgression(st); got > adaptive.VerySlowProgress {
		t.Errorf("weak user = %s, want at most very_slow_progress", got)
	}
}

// TestLevelForScore pins the threshold boundaries.
func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  adaptive.ProgressionLevel
	}{
		{0.85, adaptive.Breakthrough},
		{0.84, adaptive.FastProgress},
		{0.7, adaptive.FastProgress},
		{0.55, adaptive.ModerateProgress},
		{0.4, adaptive.NormalProgress},
		{0.25, adaptive.SlowProgress},
		{0.1, adaptive.VerySlowProgress},
		{0.09, adaptive.Maintenance},
	}
	for _, tt := range tests {
		if got := levelForScore(tt.score); got != tt.want {
			t.Errorf("levelForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

// TestProgressScoreMonotoneInDifficulty verifies that raising difficulty
// above the tier optimum never raises the score.
func TestProgressScoreMonotoneInDifficulty(t *testing.T) {
	for _, exp := range []adaptive.ExperienceLevel{adaptive.Beginner, adaptive.Intermediate, adaptive.Advanced} {
		opt := int(exp.OptimalDifficulty())
		prev := 2.0
		for d := opt; d <= 5; d++ {
			st := goodState()
			st.Experience = exp
			st.FeedbackHistory = entries("1-0", repeat(5, [3]int{d, 3, 4})...)
			score := ProgressScore(st)
			if score > prev {
				t.Errorf("%s difficulty %d: score %v rose above %v", exp, d, score, prev)
			}
			prev = score
		}
	}
}

// TestProgressScoreBounds checks extreme inputs stay in [0,1].
func TestProgressScoreBounds(t *testing.T) {
	st := goodState()
	st.Metrics.ImprovementRate = 5
	if s := ProgressScore(st); s < 0 || s > 1 {
		t.Errorf("score = %v", s)
	}
	st.Experience = "unknown"
	if s := ProgressScore(st); s < 0 || s > 1 {
		t.Errorf("unknown tier score = %v", s)
	}
}

// TestPainFlaggedFirst reproduces a painful, too-hard exercise being
// reported as pain rather than difficulty.
func TestPainFlaggedFirst(t *testing.T) {
	fb := entries("1-0", repeat(3, [3]int{5, 3, 3})...)
	fb[1].Notes = "sharp pain in wrist"

	got := FindProblematicExercises(fb)
	want := []adaptive.ProblematicExercise{{ExerciseID: "1-0", Reason: adaptive.ReasonPain, Severity: 0.9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
}

// TestProblemScenarios covers each rating-based classification.
func TestProblemScenarios(t *testing.T) {
	tests := []struct {
		name    string
		ratings [][3]int
		reason  string
	}{
		{"low enjoyment", repeat(3, [3]int{3, 3, 1}), adaptive.ReasonLowEnjoyment},
		{"declining enjoyment", [][3]int{{3, 3, 5}, {3, 3, 5}, {3, 3, 3}, {3, 3, 3}}, adaptive.ReasonDecliningEnjoyment},
		{"too difficult", repeat(3, [3]int{5, 3, 3}), adaptive.ReasonTooDifficult},
		{"excessive fatigue", repeat(2, [3]int{3, 5, 3}), adaptive.ReasonExcessiveFatigue},
		{"fine", repeat(4, [3]int{3, 3, 4}), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := entries("2-1", tt.ratings...)
			fb = append(fb, entries("3-0", [3]int{3, 3, 4})...)
			got := FindProblematicExercises(fb)
			if tt.reason == "" {
				if len(got) != 0 {
					t.Fatalf("got %v, want no problems", got)
				}
				return
			}
			if len(got) != 1 || got[0].ExerciseID != "2-1" || got[0].Reason != tt.reason {
				t.Errorf("got %v, want 2-1 %q", got, tt.reason)
			}
		})
	}
}

// TestProblemsNeedEnoughData skips short histories and single entries.
func TestProblemsNeedEnoughData(t *testing.T) {
	if got := FindProblematicExercises(entries("1-0", repeat(2, [3]int{5, 5, 1})...)); got != nil {
		t.Errorf("2 entries total: got %v", got)
	}
	fb := append(entries("1-0", [3]int{5, 5, 1}), entries("1-1", repeat(2, [3]int{3, 3, 4})...)...)
	if got := FindProblematicExercises(fb); len(got) != 0 {
		t.Errorf("single-entry exercise flagged: %v", got)
	}
}

// TestProblemsSortedBySeverity checks ordering across exercises.
func TestProblemsSortedBySeverity(t *testing.T) {
	var fb []models.UserFeedback
	fb = append(fb, entries("1-0", repeat(2, [3]int{3, 5, 3})...)...) // fatigue 0.6
	fb = append(fb, entries("1-1", repeat(3, [3]int{3, 3, 1})...)...) // enjoyment 0.8
	fb = append(fb, entries("1-2", repeat(3, [3]int{5, 3, 3})...)...) // difficult 0.7

	got := FindProblematicExercises(fb)
	var ids []string
	for _, p := range got {
		ids = append(ids, p.ExerciseID)
	}
	if diff := cmp.Diff([]string{"1-1", "1-2", "1-0"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// TestMentionsPain matches keyword stems case-insensitively.
func TestMentionsPain(t *testing.T) {
	for text, want := range map[string]bool{
		"Knee ACHES after":  true,
		"slight strain":     true,
		"felt great":        false,
		"":                  false,
		"old injury flared": true,
	} {
		if got := MentionsPain(text); got != want {
			t.Errorf("MentionsPain(%q) = %v, want %v", text, got, want)
		}
	}
}
