package engine

import (
	"slices"
	"strings"

	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/models"
)

// SafetySwap records one injury-driven substitution.
type SafetySwap struct {
	ExerciseID string `json:"exercise_id"`
	Area       string `json:"area"`
	Keyword    string `json:"keyword"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// SafetyPass replaces, in place, every exercise on a training day whose
// name contains a movement restricted for an injured area. No exercise in
// the result matches a restricted keyword for any of the areas, and a
// substitute never repeats a name already on its day.
func SafetyPass(plan *models.WorkoutPlan, injured []string) []SafetySwap {
	if plan == nil || len(injured) == 0 {
		return nil
	}
	var swaps []SafetySwap
	for di := range plan.Days {
		day := &plan.Days[di]
		for i := range day.Exercises {
			ex := &day.Exercises[i]
			area, kw, ok := catalog.MatchRestricted(ex.Name, injured)
			if !ok {
				continue
			}
			repl := safeReplacement(area, day.Focus, injured, dayNames(day, i))
			swaps = append(swaps, SafetySwap{
				ExerciseID: models.ExerciseID(day.DayNumber, i),
				Area:       area,
				Keyword:    kw,
				From:       ex.Name,
				To:         repl.Name,
			})
			*ex = repl
		}
	}
	return swaps
}

// safeReplacement tries the area table, then a focus-named placeholder,
// then a generic one, returning the first that is safe for every area and
// not already in taken.
func safeReplacement(area, focus string, injured, taken []string) models.WorkoutExercise {
	var options []models.WorkoutExercise
	if t, ok := catalog.SafetyAlternative(area, focus); ok {
		options = append(options, t.Exercise())
	}
	options = append(options, placeholder(focus), placeholder(""))
	for _, o := range options {
		if _, _, bad := catalog.MatchRestricted(o.Name, injured); !bad && !slices.Contains(taken, o.Name) {
			return o
		}
	}
	return options[len(options)-1]
}

// dayNames lists the exercise names on day other than the one at skip.
func dayNames(day *models.WorkoutDay, skip int) []string {
	out := make([]string, 0, len(day.Exercises))
	for i, e := range day.Exercises {
		if i != skip {
			out = append(out, e.Name)
		}
	}
	return out
}

func placeholder(focus string) models.WorkoutExercise {
	name := "Modified Movement"
	if f := strings.TrimSpace(focus); f != "" {
		name = "Modified " + f + " Movement"
	}
	return models.WorkoutExercise{
		Name:      name,
		Sets:      models.Float(2),
		Reps:      models.Float(10),
		Intensity: "Low",
		Notes:     "Low-intensity variation; stop if you feel pain",
	}
}

const safetyNote = " Modified for reported "

func annotate(plan *models.WorkoutPlan, injured []string) {
	if strings.Contains(plan.Description, safetyNote) {
		return
	}
	plan.Description += safetyNote + strings.Join(injured, ", ") + " issues."
}
