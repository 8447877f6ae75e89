package engine

import (
	"slices"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

// maxDays caps plans at one week.
const maxDays = 7

// Apply applies res onto plan in place: exercise edits first, then
// structure changes in order. Edits whose target no longer exists are
// skipped; the number skipped is returned.
func Apply(plan *models.WorkoutPlan, res *adaptive.AdjustmentResult) int {
	skipped := 0
	for _, adj := range res.ExerciseAdjustments {
		if !adaptive.ApplyExerciseEdit(plan, adj) {
			skipped++
		}
	}
	for _, c := range res.StructureChanges {
		var ok bool
		switch c.Kind {
		case adaptive.AddDay:
			ok = addDay(plan)
		case adaptive.RemoveDay:
			ok = removeDay(plan, c.DayIndex)
		case adaptive.ChangeRest:
			ok = convertToRecovery(plan)
		}
		if !ok {
			skipped++
		}
	}
	return skipped
}

func addDay(plan *models.WorkoutPlan) bool {
	if len(plan.Days) >= maxDays {
		return false
	}
	used := map[string]bool{}
	last := 0
	for _, d := range plan.Days {
		f, _ := catalog.CanonicalFocus(d.Focus)
		used[f] = true
		last = max(last, d.DayNumber)
	}
	focus := catalog.FocusRotation[len(plan.Days)%len(catalog.FocusRotation)]
	for _, f := range catalog.FocusRotation {
		if !used[f] {
			focus = f
			break
		}
	}

	day := models.WorkoutDay{DayNumber: last + 1, Focus: focus}
	for _, t := range catalog.DefaultDayExercises(focus) {
		day.Exercises = append(day.Exercises, t.Exercise())
	}
	plan.Days = append(plan.Days, day)
	return true
}

// removeDay splices out the day at index. Remaining days keep their numbers
// so feedback ids stay attached to the same exercises.
func removeDay(plan *models.WorkoutPlan, index *int) bool {
	if index == nil || *index < 0 || *index >= len(plan.Days) || len(plan.Days) <= 1 {
		return false
	}
	plan.Days = slices.Delete(plan.Days, *index, *index+1)
	return true
}

func convertToRecovery(plan *models.WorkoutPlan) bool {
	for i := range plan.Days {
		if plan.Days[i].IsRest() {
			continue
		}
		plan.Days[i].Focus = models.FocusActiveRecovery
		plan.Days[i].Exercises = nil
		for _, t := range catalog.RecoveryExercises() {
			plan.Days[i].Exercises = append(plan.Days[i].Exercises, t.Exercise())
		}
		return true
	}
	return false
}
