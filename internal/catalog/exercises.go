// Package catalog holds the immutable exercise tables the engine consults:
// exercise lists per focus, similarity and safety tables, and keyword maps.
package catalog

import (
	"github.com/claude/flexifit/internal/models"
)

// Template is a catalog exercise. Zero numeric fields are absent.
type Template struct {
	Name      string  `json:"name"`
	Sets      float64 `json:"sets,omitempty"`
	Reps      float64 `json:"reps,omitempty"`
	Duration  float64 `json:"duration_sec,omitempty"`
	Rest      float64 `json:"rest_sec,omitempty"`
	Intensity string  `json:"intensity,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Level     string  `json:"level,omitempty"` // beginner | intermediate | advanced
}

// Exercise converts the template to a plan exercise.
func (t Template) Exercise() models.WorkoutExercise {
	ex := models.WorkoutExercise{Name: t.Name, Intensity: t.Intensity, Notes: t.Notes}
	if t.Sets > 0 {
		ex.Sets = models.Float(t.Sets)
	}
	if t.Reps > 0 {
		ex.Reps = models.Float(t.Reps)
	}
	if t.Duration > 0 {
		ex.Duration = models.Float(t.Duration)
	}
	if t.Rest > 0 {
		ex.RestTime = models.Float(t.Rest)
	}
	return ex
}

const (
	lvlBeg = "beginner"
	lvlInt = "intermediate"
	lvlAdv = "advanced"
)

// byFocus lists exercises per canonical focus label.
var byFocus = map[string][]Template{
	"Upper Body": {
		{Name: "Push-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlInt},
		{Name: "Incline Push-Ups", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low", Level: lvlBeg},
		{Name: "Resistance Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Pike Push-Ups", Sets: 3, Reps: 10, Rest: 60, Intensity: "Medium", Level: lvlInt},
		{Name: "Lateral Raises", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Seated Dips", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlInt},
		{Name: "Bicep Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Diamond Push-Ups", Sets: 3, Reps: 10, Rest: 60, Intensity: "High", Level: lvlAdv},
	},
	"Lower Body": {
		{Name: "Bodyweight Squats", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Medium", Level: lvlBeg},
		{Name: "Lunges", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Wall Sits", Sets: 3, Duration: 45, Rest: 45, Intensity: "Medium", Level: lvlBeg},
		{Name: "Calf Raises", Sets: 4, Reps: 15, Rest: 45, Intensity: "Medium", Level: lvlBeg},
		{Name: "Single-Leg Glute Bridges", Sets: 3, Reps: 12, Rest: 45, Intensity: "Medium", Level: lvlInt},
		{Name: "Bulgarian Split Squats", Sets: 3, Reps: 10, Rest: 60, Intensity: "High", Level: lvlAdv},
	},
	"Core": {
		{Name: "Plank", Sets: 3, Duration: 45, Rest: 45, Intensity: "Medium", Level: lvlBeg},
		{Name: "Bicycle Crunches", Sets: 3, Reps: 16, Rest: 40, Intensity: "Medium", Level: lvlBeg},
		{Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low", Level: lvlBeg},
		{Name: "Russian Twists", Sets: 3, Reps: 20, Rest: 45, Intensity: "Medium", Level: lvlBeg},
		{Name: "Leg Raises", Sets: 3, Reps: 12, Rest: 45, Intensity: "Medium", Level: lvlInt},
		{Name: "Side Planks", Sets: 2, Duration: 30, Rest: 30, Intensity: "Medium", Level: lvlInt},
		{Name: "V-Ups", Sets: 3, Reps: 12, Rest: 45, Intensity: "High", Level: lvlAdv},
	},
	"Cardio": {
		{Name: "Jumping Jacks", Sets: 3, Duration: 60, Rest: 30, Intensity: "Medium", Level: lvlBeg},
		{Name: "High Knees", Sets: 3, Duration: 60, Rest: 30, Intensity: "Medium", Level: lvlBeg},
		{Name: "Stationary Cycling", Duration: 900, Intensity: "Medium", Level: lvlBeg},
		{Name: "Rowing Machine", Duration: 900, Intensity: "Medium", Level: lvlBeg},
		{Name: "Jump Rope", Duration: 600, Intensity: "Medium", Level: lvlInt},
		{Name: "Shadowboxing", Duration: 600, Intensity: "Medium", Level: lvlInt},
	},
	"HIIT Cardio": {
		{Name: "Mountain Climbers", Sets: 3, Reps: 20, Rest: 30, Intensity: "High", Level: lvlBeg},
		{Name: "Jumping Jacks", Sets: 4, Reps: 25, Rest: 20, Intensity: "Medium", Level: lvlBeg},
		{Name: "High Knees", Sets: 4, Reps: 20, Rest: 20, Intensity: "High", Level: lvlBeg},
		{Name: "Burpees", Sets: 3, Reps: 12, Rest: 30, Intensity: "High", Level: lvlInt},
		{Name: "Skater Jumps", Sets: 3, Reps: 16, Rest: 30, Intensity: "High", Level: lvlInt},
		{Name: "Kettlebell Swings", Sets: 4, Reps: 15, Rest: 45, Intensity: "High", Level: lvlInt},
	},
	"Full Body": {
		{Name: "Burpees", Sets: 3, Reps: 10, Rest: 60, Intensity: "High", Level: lvlInt},
		{Name: "Inchworms", Sets: 3, Reps: 10, Rest: 45, Intensity: "Medium", Level: lvlInt},
		{Name: "Bear Crawls", Sets: 3, Duration: 30, Rest: 45, Intensity: "Medium", Level: lvlInt},
		{Name: "Thrusters", Sets: 3, Reps: 10, Rest: 90, Intensity: "High", Level: lvlAdv},
		{Name: "Kettlebell Swings", Sets: 4, Reps: 15, Rest: 45, Intensity: "High", Level: lvlInt},
		{Name: "Star Jumps", Sets: 3, Reps: 15, Rest: 30, Intensity: "Medium", Level: lvlBeg},
	},
	"Strength": {
		{Name: "Barbell Squats", Sets: 4, Reps: 8, Rest: 120, Intensity: "High", Level: lvlInt},
		{Name: "Deadlifts", Sets: 4, Reps: 6, Rest: 120, Intensity: "High", Level: lvlAdv},
		{Name: "Bench Press", Sets: 4, Reps: 8, Rest: 90, Intensity: "High", Level: lvlInt},
		{Name: "Overhead Press", Sets: 4, Reps: 8, Rest: 90, Intensity: "High", Level: lvlInt},
		{Name: "Barbell Rows", Sets: 3, Reps: 10, Rest: 90, Intensity: "Medium", Level: lvlInt},
		{Name: "Goblet Squats", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
	},
	"Push": {
		{Name: "Bench Press", Sets: 4, Reps: 8, Rest: 90, Intensity: "High", Level: lvlInt},
		{Name: "Overhead Press", Sets: 4, Reps: 8, Rest: 90, Intensity: "High", Level: lvlInt},
		{Name: "Incline Dumbbell Press", Sets: 3, Reps: 10, Rest: 75, Intensity: "Medium", Level: lvlInt},
		{Name: "Push-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Tricep Pushdown", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Lateral Raises", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium", Level: lvlBeg},
	},
	"Pull": {
		{Name: "Pull-Ups", Sets: 3, Reps: 8, Rest: 90, Intensity: "High", Level: lvlAdv},
		{Name: "Barbell Rows", Sets: 3, Reps: 10, Rest: 90, Intensity: "Medium", Level: lvlInt},
		{Name: "Lat Pulldown", Sets: 4, Reps: 12, Rest: 90, Intensity: "Medium", Level: lvlBeg},
		{Name: "Seated Cable Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Face Pulls", Sets: 3, Reps: 15, Rest: 60, Intensity: "Low", Level: lvlBeg},
		{Name: "Hammer Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
	},
	"Legs": {
		{Name: "Barbell Squats", Sets: 4, Reps: 8, Rest: 120, Intensity: "High", Level: lvlInt},
		{Name: "Romanian Deadlifts", Sets: 3, Reps: 10, Rest: 90, Intensity: "High", Level: lvlInt},
		{Name: "Leg Press", Sets: 3, Reps: 12, Rest: 90, Intensity: "Medium", Level: lvlBeg},
		{Name: "Hamstring Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium", Level: lvlBeg},
		{Name: "Walking Lunges", Sets: 3, Reps: 20, Rest: 60, Intensity: "Medium", Level: lvlInt},
		{Name: "Calf Raises", Sets: 4, Reps: 15, Rest: 45, Intensity: "Medium", Level: lvlBeg},
	},
	"Flexibility": {
		{Name: "Yoga Flow", Duration: 1200, Intensity: "Low", Level: lvlBeg},
		{Name: "Dynamic Stretching", Duration: 900, Intensity: "Low", Level: lvlBeg},
		{Name: "Static Stretching", Duration: 900, Intensity: "Low", Level: lvlBeg},
		{Name: "Mobility Routine", Duration: 1200, Intensity: "Low", Level: lvlInt},
	},
}

// focusAliases maps free-form focus labels onto canonical ones.
var focusAliases = []struct {
	keyword string
	focus   string
}{
	{"hiit", "HIIT Cardio"},
	{"interval", "HIIT Cardio"},
	{"metabolic", "HIIT Cardio"},
	{"circuit", "Full Body"},
	{"upper", "Upper Body"},
	{"chest", "Push"},
	{"shoulder", "Push"},
	{"push", "Push"},
	{"back", "Pull"},
	{"pull", "Pull"},
	{"arm", "Upper Body"},
	{"lower", "Lower Body"},
	{"glute", "Lower Body"},
	{"leg", "Legs"},
	{"core", "Core"},
	{"abs", "Core"},
	{"cardio", "Cardio"},
	{"endurance", "Cardio"},
	{"tempo", "Cardio"},
	{"threshold", "Cardio"},
	{"strength", "Strength"},
	{"flexib", "Flexibility"},
	{"mobility", "Flexibility"},
	{"yoga", "Flexibility"},
	{"light", "Flexibility"},
	{"full", "Full Body"},
}

// FocusRotation is the order in which added days pick a focus.
var FocusRotation = []string{"Upper Body", "Lower Body", "Core", "Cardio", "Full Body"}

// defaultsForAddedDay are the three exercises placed on a newly added day.
var defaultsForAddedDay = map[string][3]Template{
	"Upper Body": {
		{Name: "Push-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Resistance Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Lateral Raises", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium"},
	},
	"Lower Body": {
		{Name: "Bodyweight Squats", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium"},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Medium"},
		{Name: "Calf Raises", Sets: 3, Reps: 15, Rest: 45, Intensity: "Medium"},
	},
	"Core": {
		{Name: "Plank", Sets: 3, Duration: 45, Rest: 45, Intensity: "Medium"},
		{Name: "Bicycle Crunches", Sets: 3, Reps: 16, Rest: 40, Intensity: "Medium"},
		{Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
	},
	"Cardio": {
		{Name: "Jumping Jacks", Sets: 3, Duration: 60, Rest: 30, Intensity: "Medium"},
		{Name: "High Knees", Sets: 3, Duration: 45, Rest: 30, Intensity: "Medium"},
		{Name: "Stationary Cycling", Duration: 900, Intensity: "Medium"},
	},
	"Full Body": {
		{Name: "Burpees", Sets: 3, Reps: 10, Rest: 60, Intensity: "High"},
		{Name: "Inchworms", Sets: 3, Reps: 10, Rest: 45, Intensity: "Medium"},
		{Name: "Mountain Climbers", Sets: 3, Reps: 20, Rest: 45, Intensity: "Medium"},
	},
}

// recoveryExercises fill an Active Recovery day.
var recoveryExercises = []Template{
	{Name: "Light Walking or Stretching", Duration: 1200, Intensity: "Low", Notes: "Stay active but allow your body to recover"},
	{Name: "Foam Rolling", Duration: 600, Intensity: "Low", Notes: "Focus on tight areas and trigger points"},
	{Name: "Mobility Work", Duration: 900, Intensity: "Low", Notes: "Improve joint range of motion with dynamic movements"},
}

// bodyPartExercises is the go-to exercise when a body part is under-trained.
var bodyPartExercises = map[string]Template{
	PartChest:     {Name: "Push-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	PartBack:      {Name: "Resistance Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	PartLegs:      {Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Medium"},
	PartShoulders: {Name: "Lateral Raises", Sets: 3, Reps: 15, Rest: 60, Intensity: "Medium"},
	PartArms:      {Name: "Bicep Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	PartCore:      {Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
	PartCardio:    {Name: "Jumping Jacks", Sets: 3, Duration: 45, Rest: 30, Intensity: "Medium"},
	PatternPush:   {Name: "Incline Push-Ups", Sets: 3, Reps: 12, Rest: 45, Intensity: "Low"},
	PatternPull:   {Name: "Face Pulls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
}
