package adjuster

import (
	"slices"
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

// Caps for exercises inserted by the balance pass.
const (
	balanceMaxSets     = 3
	balanceMaxReps     = 12
	balanceMaxDuration = 45
)

// sequence orders each training day compounds first, cardio last.
func (r *run) sequence() {
	for _, di := range r.trainingDays() {
		day := r.plan.Days[di]
		ordered := make([]models.WorkoutExercise, len(day.Exercises))
		for i, e := range day.Exercises {
			ordered[i] = e.Clone()
		}
		slices.SortStableFunc(ordered, func(a, b models.WorkoutExercise) int {
			return catalog.Rank(a.Name) - catalog.Rank(b.Name)
		})

		moved := 0
		for i := range ordered {
			if ordered[i].Name == day.Exercises[i].Name {
				continue
			}
			ex := ordered[i]
			r.emit(adaptive.ExerciseAdjustment{
				Kind:        adaptive.Replace,
				ExerciseID:  models.ExerciseID(day.DayNumber, i),
				NewExercise: &ex,
				Reason:      "Exercise order",
			})
			moved++
		}
		if moved > 0 {
			r.reason("Reordered day %d (%s) so compound lifts come first and cardio last", day.DayNumber, day.Focus)
		}
	}
}

type imbalance struct {
	target string // body part or movement pattern
	desc   string
}

// findImbalances tallies body parts and push/pull patterns across the
// projected plan.
func (r *run) findImbalances() []imbalance {
	counts := map[string]int{}
	push, pull := 0, 0
	for _, di := range r.trainingDays() {
		day := r.plan.Days[di]
		for _, p := range catalog.FocusBodyParts(day.Focus) {
			counts[p]++
		}
		for _, e := range day.Exercises {
			for _, p := range catalog.BodyPartsOf(e.Name) {
				counts[p]++
			}
			isPush, isPull := catalog.MovementPatterns(e.Name)
			if isPush {
				push++
			}
			if isPull {
				pull++
			}
		}
	}

	total := 0
	for _, p := range catalog.MajorParts {
		total += counts[p]
	}
	avg := float64(total) / float64(len(catalog.MajorParts))

	var out []imbalance
	for _, p := range catalog.MajorParts {
		if c := counts[p]; float64(c) < 0.5*avg && c < 2 {
			out = append(out, imbalance{target: p, desc: p + " is under-trained"})
		}
	}
	switch {
	case push-pull > 2:
		out = append(out, imbalance{target: catalog.PatternPull, desc: "pushing outweighs pulling"})
	case pull-push > 2:
		out = append(out, imbalance{target: catalog.PatternPush, desc: "pulling outweighs pushing"})
	}
	return out
}

// dedicatedTo reports whether a day already trains the imbalance target.
func dedicatedTo(day models.WorkoutDay, target string) bool {
	switch target {
	case catalog.PatternPush, catalog.PatternPull:
		f, _ := catalog.CanonicalFocus(day.Focus)
		return strings.EqualFold(f, target)
	}
	return slices.Contains(catalog.FocusBodyParts(day.Focus), target)
}

func (r *run) balance() {
	found := r.findImbalances()
	if len(found) == 0 {
		return
	}
	descs := make([]string, len(found))
	for i, im := range found {
		descs[i] = im.desc
	}
	r.reason("Plan imbalance: " + strings.Join(descs, "; "))

	target := found[0].target
	for _, di := range r.trainingDays() {
		day := r.plan.Days[di]
		if len(day.Exercises) == 0 || dedicatedTo(day, target) {
			continue
		}
		idx := len(day.Exercises) - 1
		ex := capped(catalog.ExerciseForBodyPart(target).Exercise())
		if day.Exercises[idx].Name == ex.Name || r.avoid[ex.Name] {
			return
		}
		old := day.Exercises[idx].Name
		r.emit(adaptive.ExerciseAdjustment{
			Kind:        adaptive.Replace,
			ExerciseID:  models.ExerciseID(day.DayNumber, idx),
			NewExercise: &ex,
			Reason:      "Balance " + target,
		})
		r.reason("Replaced %s with %s on day %d to balance %s work", old, ex.Name, day.DayNumber, target)
		return
	}
}

func capped(ex models.WorkoutExercise) models.WorkoutExercise {
	if ex.Sets != nil && *ex.Sets > balanceMaxSets {
		ex.Sets = models.Float(balanceMaxSets)
	}
	if ex.Reps != nil && *ex.Reps > balanceMaxReps {
		ex.Reps = models.Float(balanceMaxReps)
	}
	if ex.Duration != nil && *ex.Duration > balanceMaxDuration {
		ex.Duration = models.Float(balanceMaxDuration)
	}
	return ex
}
