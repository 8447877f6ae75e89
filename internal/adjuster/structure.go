package adjuster

import (
	"math"
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

func (r *run) adjustStructure() {
	training := r.trainingDays()
	current, target := len(training), r.res.Params.Frequency

	switch {
	case target > current:
		r.structure(adaptive.AddDay, -1,
			"Added a training day to move from "+itoa(current)+" toward "+itoa(target)+" sessions per week")
	case target < current && len(training) > 0:
		idx := r.weakestDay(training)
		r.structure(adaptive.RemoveDay, idx,
			"Removed "+r.plan.Days[idx].Focus+" day to move from "+itoa(current)+" toward "+itoa(target)+" sessions per week")
	}

	if r.st.Experience != adaptive.Beginner && r.st.HasStrengthGoal() && current >= 4 {
		r.checkSplit(training)
	}

	if r.fatigue > 4 && len(r.plan.Days) >= 4 && current == len(r.plan.Days) {
		r.structure(adaptive.ChangeRest, training[0],
			"Converted a training day to active recovery because recent fatigue is high and the plan has no rest day")
	}
}

// weakestDay picks the removal candidate: a training day with no feedback
// at all, else the one with the lowest effectiveness score.
func (r *run) weakestDay(training []int) int {
	type agg struct{ enj, diff, n float64 }
	byDay := map[int]*agg{}
	for _, f := range r.st.FeedbackHistory {
		day, _, err := models.ParseExerciseID(f.ExerciseID)
		if err != nil {
			continue
		}
		a := byDay[day]
		if a == nil {
			a = &agg{}
			byDay[day] = a
		}
		a.enj += float64(f.Enjoyment)
		a.diff += float64(f.Difficulty)
		a.n++
	}

	opt := r.st.Experience.OptimalDifficulty()
	tol := r.st.Experience.DifficultyTolerance()
	best, bestScore := training[0], math.Inf(1)
	for _, i := range training {
		a := byDay[r.plan.Days[i].DayNumber]
		if a == nil {
			return i
		}
		enj := (a.enj/a.n - 1) / 4
		fit := max(0, 1-math.Abs(a.diff/a.n-opt)/tol)
		if s := 0.7*enj + 0.3*fit; s < bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// idealSplit returns the focus labels a strength-oriented plan with n
// training days should cover.
func idealSplit(n int) []string {
	switch {
	case n <= 3:
		return []string{"Full Body"}
	case n == 4:
		return []string{"Upper Body", "Lower Body"}
	default:
		return []string{"Push", "Pull", "Legs"}
	}
}

func (r *run) checkSplit(training []int) {
	have := map[string]bool{}
	for _, i := range training {
		f, _ := catalog.CanonicalFocus(r.plan.Days[i].Focus)
		have[f] = true
	}
	ideal := idealSplit(len(training))
	for _, f := range ideal {
		if !have[f] {
			r.reason("A " + strings.Join(ideal, "/") + " split suits " + itoa(len(training)) +
				" strength sessions per week better than the current day layout")
			return
		}
	}
}

// checkRest runs after exercise edits so it sees the final day layout.
func (r *run) checkRest() {
	training := r.trainingDays()
	if len(training) == 0 {
		return
	}
	if r.fatigue > 3.8 && len(training) == len(r.plan.Days) && !r.res.HasStructure(adaptive.ChangeRest) {
		r.structure(adaptive.ChangeRest, training[0],
			"Added an active recovery day because fatigue is building with no rest days")
	}

	longest, run := 0, 0
	for _, d := range r.plan.Days {
		if d.IsRest() {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	if longest > 3 && r.fatigue > 3.5 {
		r.reason("Consider a rest day within the " + itoa(longest) + " consecutive training days to manage fatigue")
	}
}
