package adjuster

import (
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

// tierBias weights the overload delta per field. A bias above 1 amplifies
// the change, below 1 dampens it.
type tierBias struct{ sets, reps, rest float64 }

func biasFor(e adaptive.ExperienceLevel) tierBias {
	switch e {
	case adaptive.Beginner:
		return tierBias{sets: 0.9, reps: 1.1, rest: 1}
	case adaptive.Advanced:
		return tierBias{sets: 0.95, reps: 1.05, rest: 1.1}
	default:
		return tierBias{sets: 1, reps: 1, rest: 1}
	}
}

func (r *run) adjustExercises() {
	days := r.plan.Days
	for di := range days {
		day := days[di]
		if day.IsRest() {
			continue
		}
		for idx, ex := range day.Exercises {
			id := models.ExerciseID(day.DayNumber, idx)
			if p, ok := r.problems[id]; ok {
				r.replaceProblem(id, day, ex, p)
				continue
			}
			r.overload(id, ex)
		}
	}
}

// replaceProblem swaps a flagged exercise for the best-scoring substitute.
func (r *run) replaceProblem(id string, day models.WorkoutDay, ex models.WorkoutExercise, p adaptive.ProblematicExercise) {
	candidates := catalog.Similar(ex.Name)
	if len(candidates) == 0 {
		candidates = catalog.Candidates(day.Focus, dayNames(day), 3)
	}

	reason := strings.ToLower(p.Reason)
	var best *models.WorkoutExercise
	bestScore := -1
	for _, c := range candidates {
		if c.Name == ex.Name || r.avoid[c.Name] {
			continue
		}
		cand := c.Exercise()
		score := 0
		if v, ok := r.st.Preferences[c.Name]; ok && v > 3 {
			score += 2
		}
		if strings.Contains(reason, "difficult") {
			easier(&cand)
			score++
		}
		if strings.Contains(reason, "pain") || strings.Contains(reason, "discomfort") {
			if catalog.IsLowImpact(c.Name) {
				score += 3
			}
		}
		if strings.Contains(reason, "enjoyment") && catalog.IsHighEngagement(c.Name) {
			score += 2
		}
		if score > bestScore {
			best, bestScore = &cand, score
		}
	}
	if best == nil {
		r.log.Debug("no substitute found", "exercise", ex.Name)
		return
	}

	r.emit(adaptive.ExerciseAdjustment{
		Kind:        adaptive.Replace,
		ExerciseID:  id,
		NewExercise: best,
		Reason:      p.Reason,
	})
	r.reason("Replaced %s with %s (%s)", ex.Name, best.Name, strings.ToLower(p.Reason))
}

// easier trims a substitute for a user who found the original too hard.
func easier(ex *models.WorkoutExercise) {
	if ex.Sets != nil {
		*ex.Sets = max(1, *ex.Sets-1)
	}
	if ex.Reps != nil {
		*ex.Reps = adaptive.RoundHalf(*ex.Reps * 0.8)
	}
	if ex.Duration != nil {
		*ex.Duration = adaptive.RoundHalf(*ex.Duration * 0.8)
	}
}

// overload scales an exercise relative to the tier base parameters and
// emits a modify edit for the fields that actually change.
func (r *run) overload(id string, ex models.WorkoutExercise) {
	base := adaptive.BaseParameters(r.st.Experience)
	p := r.res.Params
	bias := biasFor(r.st.Experience)
	volRatio := p.Volume / base.Volume
	intRatio := p.Intensity / base.Intensity

	var ch adaptive.ExerciseChanges
	if ex.Sets != nil {
		v := adaptive.ClampFloat(adaptive.RoundHalf(*ex.Sets*scaled(volRatio, bias.sets)), 1, 6)
		if v != *ex.Sets {
			ch.Sets = models.Float(v)
		}
	}
	if ex.Reps != nil {
		lo, hi := 8.0, 20.0
		if catalog.IsStrengthLift(ex.Name) {
			lo, hi = 4, 12
		}
		v := adaptive.ClampFloat(adaptive.RoundHalf(*ex.Reps*scaled(intRatio, bias.reps)), lo, hi)
		if v != *ex.Reps {
			ch.Reps = models.Float(v)
		}
	}
	if ex.Duration != nil {
		v := adaptive.ClampFloat(adaptive.RoundHalf(*ex.Duration*intRatio), 10, 1800)
		if v != *ex.Duration {
			ch.Duration = models.Float(v)
		}
	}
	if ex.RestTime != nil {
		lo := 30.0
		if catalog.IsCompound(ex.Name) {
			lo = 60
		}
		v := adaptive.ClampFloat(adaptive.RoundHalf(*ex.RestTime*scaled(1/intRatio, bias.rest)), lo, adaptive.MaxRest)
		if v != *ex.RestTime {
			ch.RestTime = models.Float(v)
		}
	}
	if ch.Empty() {
		return
	}

	reason := "Progressive overload"
	switch {
	case r.level == adaptive.Deload:
		reason = "Deload"
	case intRatio < 1 && volRatio < 1:
		reason = "Reduced load"
	}
	r.emit(adaptive.ExerciseAdjustment{
		Kind:       adaptive.Modify,
		ExerciseID: id,
		Changes:    &ch,
		Reason:     reason + " for " + ex.Name,
	})
}

// scaled applies bias to the distance of ratio from 1.
func scaled(ratio, bias float64) float64 {
	return 1 + (ratio-1)*bias
}

// injectVariety swaps one exercise at every tenth completed workout.
func (r *run) injectVariety() {
	n := r.st.CompletedWorkouts
	if n == 0 || n%10 != 0 {
		return
	}
	training := r.trainingDays()
	if len(training) == 0 {
		return
	}
	day := r.plan.Days[training[r.rand.IntN(len(training))]]

	var eligible []int
	for idx, ex := range day.Exercises {
		id := models.ExerciseID(day.DayNumber, idx)
		if _, flagged := r.problems[id]; flagged {
			continue
		}
		if r.st.Preference(ex.Name) <= 4 {
			eligible = append(eligible, idx)
		}
	}
	if len(eligible) == 0 {
		return
	}
	idx := eligible[r.rand.IntN(len(eligible))]
	old := day.Exercises[idx]

	exclude := dayNames(day)
	for name := range r.avoid {
		exclude[name] = true
	}
	candidates := catalog.Candidates(day.Focus, exclude, 3)
	if len(candidates) == 0 {
		return
	}
	pick := candidates[r.rand.IntN(len(candidates))]
	repl := old.Clone()
	repl.Name = pick.Name
	repl.Notes = pick.Notes
	if pick.Intensity != "" {
		repl.Intensity = pick.Intensity
	}

	r.emit(adaptive.ExerciseAdjustment{
		Kind:        adaptive.Replace,
		ExerciseID:  models.ExerciseID(day.DayNumber, idx),
		NewExercise: &repl,
		Reason:      "Variety",
	})
	r.reason("Swapped %s for %s to keep training varied at workout %d", old.Name, pick.Name, n)
}

func dayNames(day models.WorkoutDay) map[string]bool {
	names := make(map[string]bool, len(day.Exercises))
	for _, e := range day.Exercises {
		names[e.Name] = true
	}
	return names
}
