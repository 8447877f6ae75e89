package adaptive

import (
	"github.com/claude/flexifit/internal/models"
)

// AdjustmentKind distinguishes exercise edits.
type AdjustmentKind string

const (
	Replace AdjustmentKind = "replace"
	Modify  AdjustmentKind = "modify"
)

// StructureKind distinguishes plan-structure edits.
type StructureKind string

const (
	AddDay     StructureKind = "addDay"
	RemoveDay  StructureKind = "removeDay"
	ChangeRest StructureKind = "changeRest"
)

// ExerciseChanges is a field-level patch. Nil fields are left alone.
type ExerciseChanges struct {
	Sets      *float64 `json:"sets,omitempty"`
	Reps      *float64 `json:"reps,omitempty"`
	Duration  *float64 `json:"duration_sec,omitempty"`
	RestTime  *float64 `json:"rest_sec,omitempty"`
	Intensity *string  `json:"intensity,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (c ExerciseChanges) Empty() bool {
	return c.Sets == nil && c.Reps == nil && c.Duration == nil &&
		c.RestTime == nil && c.Intensity == nil && c.Notes == nil
}

// ExerciseAdjustment is one exercise-level edit instruction.
type ExerciseAdjustment struct {
	Kind        AdjustmentKind          `json:"type"`
	ExerciseID  string                  `json:"exercise_id"`
	NewExercise *models.WorkoutExercise `json:"new_exercise,omitempty"`
	Changes     *ExerciseChanges        `json:"changes,omitempty"`
	Reason      string                  `json:"reason"`
}

// PlanStructureChange is one day-level edit instruction.
type PlanStructureChange struct {
	Kind     StructureKind `json:"type"`
	DayIndex *int          `json:"day_index,omitempty"`
	Reason   string        `json:"reason"`
}

// AdjustmentResult is the full set of edits for one adaptation call.
type AdjustmentResult struct {
	Params              AdaptiveParameters    `json:"params"`
	ExerciseAdjustments []ExerciseAdjustment  `json:"exercise_adjustments"`
	StructureChanges    []PlanStructureChange `json:"structure_changes"`
	Message             string                `json:"message"`
	Reasons             []string              `json:"reasons"`
}

// HasStructure reports whether a structure change of kind k was emitted.
func (r *AdjustmentResult) HasStructure(k StructureKind) bool {
	for _, c := range r.StructureChanges {
		if c.Kind == k {
			return true
		}
	}
	return false
}

// ApplyExerciseEdit applies a single exercise edit to plan in place. It
// reports false when the target id no longer resolves, in which case the
// plan is unchanged.
func ApplyExerciseEdit(plan *models.WorkoutPlan, adj ExerciseAdjustment) bool {
	ex, ok := plan.ExerciseAt(adj.ExerciseID)
	if !ok {
		return false
	}
	switch adj.Kind {
	case Replace:
		if adj.NewExercise == nil {
			return false
		}
		*ex = adj.NewExercise.Clone()
	case Modify:
		if adj.Changes == nil {
			return false
		}
		c := adj.Changes
		if c.Sets != nil {
			ex.Sets = models.Float(*c.Sets)
		}
		if c.Reps != nil {
			ex.Reps = models.Float(*c.Reps)
		}
		if c.Duration != nil {
			ex.Duration = models.Float(*c.Duration)
		}
		if c.RestTime != nil {
			ex.RestTime = models.Float(*c.RestTime)
		}
		if c.Intensity != nil {
			ex.Intensity = *c.Intensity
		}
		if c.Notes != nil {
			ex.Notes = *c.Notes
		}
	default:
		return false
	}
	return true
}
