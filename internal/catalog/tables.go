package catalog

// Body parts and movement patterns tracked by the balance analysis.
const (
	PartChest     = "chest"
	PartBack      = "back"
	PartLegs      = "legs"
	PartShoulders = "shoulders"
	PartArms      = "arms"
	PartCore      = "core"
	PartCardio    = "cardio"

	PatternPush = "push"
	PatternPull = "pull"
)

// MajorParts are the body parts checked for under-training, in report order.
var MajorParts = []string{PartChest, PartBack, PartLegs, PartShoulders, PartArms, PartCore}

// Coarse areas used by the profiler's balance score.
const (
	AreaUpper  = "upper"
	AreaLower  = "lower"
	AreaCore   = "core"
	AreaCardio = "cardio"
)

// Areas lists the four coarse areas.
var Areas = []string{AreaUpper, AreaLower, AreaCore, AreaCardio}

// similar maps an exercise to substitutes that train the same pattern.
var similar = map[string][]Template{
	"Push-Ups": {
		{Name: "Incline Push-Ups", Sets: 3, Reps: 12, Rest: 45, Intensity: "Low"},
		{Name: "Resistance Band Chest Press", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Dumbbell Bench Press", Sets: 3, Reps: 10, Rest: 75, Intensity: "Medium"},
	},
	"Bench Press": {
		{Name: "Dumbbell Bench Press", Sets: 3, Reps: 10, Rest: 75, Intensity: "Medium"},
		{Name: "Machine Chest Press", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Push-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	},
	"Pull-Ups": {
		{Name: "Lat Pulldown", Sets: 3, Reps: 12, Rest: 75, Intensity: "Medium"},
		{Name: "Resistance Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Inverted Rows", Sets: 3, Reps: 10, Rest: 60, Intensity: "Medium"},
	},
	"Barbell Squats": {
		{Name: "Goblet Squats", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Leg Press", Sets: 3, Reps: 12, Rest: 90, Intensity: "Medium"},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
	},
	"Bodyweight Squats": {
		{Name: "Wall Sits", Sets: 3, Duration: 45, Rest: 45, Intensity: "Low"},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		{Name: "Step-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	},
	"Lunges": {
		{Name: "Step-Ups", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		{Name: "Leg Press", Sets: 3, Reps: 12, Rest: 90, Intensity: "Medium"},
	},
	"Deadlifts": {
		{Name: "Romanian Deadlifts", Sets: 3, Reps: 10, Rest: 90, Intensity: "Medium"},
		{Name: "Hip Thrusts", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
	},
	"Overhead Press": {
		{Name: "Landmine Press", Sets: 3, Reps: 10, Rest: 75, Intensity: "Medium"},
		{Name: "Lateral Raises", Sets: 3, Reps: 15, Rest: 60, Intensity: "Low"},
		{Name: "Resistance Band Overhead Press", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
	},
	"Plank": {
		{Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		{Name: "Bird Dog", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		{Name: "Side Planks", Sets: 2, Duration: 30, Rest: 30, Intensity: "Medium"},
	},
	"Crunches": {
		{Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		{Name: "Bicycle Crunches", Sets: 3, Reps: 16, Rest: 40, Intensity: "Medium"},
		{Name: "Leg Raises", Sets: 3, Reps: 12, Rest: 45, Intensity: "Medium"},
	},
	"Burpees": {
		{Name: "Mountain Climbers", Sets: 3, Reps: 20, Rest: 45, Intensity: "Medium"},
		{Name: "Squat Thrusts", Sets: 3, Reps: 10, Rest: 60, Intensity: "Medium"},
		{Name: "Stationary Cycling", Duration: 600, Intensity: "Medium"},
	},
	"Running": {
		{Name: "Stationary Cycling", Duration: 1200, Intensity: "Medium"},
		{Name: "Elliptical Trainer", Duration: 1200, Intensity: "Medium"},
		{Name: "Swimming", Duration: 1200, Intensity: "Medium"},
	},
	"Jumping Jacks": {
		{Name: "Step Jacks", Sets: 3, Duration: 60, Rest: 30, Intensity: "Low"},
		{Name: "Shadowboxing", Duration: 300, Intensity: "Medium"},
		{Name: "Stationary Cycling", Duration: 600, Intensity: "Medium"},
	},
	"Bicep Curls": {
		{Name: "Hammer Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Medium"},
		{Name: "Resistance Band Bicep Curls", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		{Name: "Chin-Ups", Sets: 3, Reps: 8, Rest: 90, Intensity: "High"},
	},
}

var lowImpact = set(
	"Incline Push-Ups", "Wall Push-Ups", "Resistance Band Chest Press", "Machine Chest Press",
	"Lat Pulldown", "Resistance Band Rows", "Seated Cable Rows", "Face Pulls",
	"Glute Bridges", "Wall Sits", "Leg Press", "Hip Thrusts", "Step-Ups",
	"Dead Bug", "Bird Dog", "Stationary Cycling", "Elliptical Trainer", "Swimming",
	"Step Jacks", "Lateral Raises", "Resistance Band Bicep Curls", "Yoga Flow",
	"Mobility Work", "Foam Rolling", "Light Walking or Stretching",
)

var highEngagement = set(
	"Kettlebell Swings", "Shadowboxing", "Battle Ropes", "Mountain Climbers", "Dumbbell Bench Press",
	"Hip Thrusts", "Landmine Press", "Chin-Ups", "Inverted Rows", "Swimming", "Bicycle Crunches",
	"Squat Thrusts", "Hammer Curls", "Goblet Squats", "Side Planks",
)

// Name-substring lists for exercise ordering. Matching is case-insensitive.
var (
	compoundKeywords = []string{
		"squat", "deadlift", "bench press", "overhead press", "row", "pull-up", "chin-up",
		"lunge", "push-up", "dip", "thruster", "clean", "leg press", "burpee", "hip thrust",
	}
	isolationKeywords = []string{
		"curl", "raise", "extension", "fly", "flye", "pushdown", "face pull", "crunch", "kickback",
	}
	cardioKeywords = []string{
		"jumping jack", "jog", "running", "cycling", "bike", "rowing machine", "elliptical",
		"jump rope", "high knees", "mountain climber", "swimming", "shadowbox", "stair", "sprint", "treadmill",
	}
	strengthLiftKeywords = []string{
		"barbell squat", "front squat", "back squat", "deadlift", "bench press", "overhead press",
		"barbell row", "pull-up", "chin-up", "power clean", "hack squat",
	}
)

// bodyPartKeywords maps exercise name substrings onto body parts.
var bodyPartKeywords = map[string][]string{
	PartChest:     {"push-up", "bench", "chest", "fly", "flye", "dip"},
	PartBack:      {"row", "pull-up", "chin-up", "pulldown", "deadlift", "face pull", "back", "superman"},
	PartLegs:      {"squat", "lunge", "leg", "calf", "glute", "step-up", "hip thrust", "wall sit", "hamstring"},
	PartShoulders: {"shoulder", "overhead", "lateral raise", "pike", "landmine"},
	PartArms:      {"curl", "tricep", "dip", "pushdown"},
	PartCore:      {"plank", "crunch", "twist", "dead bug", "bird dog", "v-up", "sit-up", "leg raise", "ab "},
	PartCardio:    {"jump", "jack", "burpee", "running", "cycling", "rowing machine", "high knees", "mountain climber", "skater", "shadowbox"},
}

// focusBodyParts maps canonical focus labels onto the body parts they train.
var focusBodyParts = map[string][]string{
	"Full Body":   {PartChest, PartBack, PartLegs, PartShoulders, PartArms, PartCore},
	"Upper Body":  {PartChest, PartBack, PartShoulders, PartArms},
	"Lower Body":  {PartLegs},
	"Push":        {PartChest, PartShoulders, PartArms},
	"Pull":        {PartBack, PartArms},
	"Legs":        {PartLegs},
	"Core":        {PartCore},
	"Cardio":      {PartCardio},
	"HIIT Cardio": {PartCardio},
	"Strength":    {PartChest, PartBack, PartLegs},
}

var (
	pushKeywords = []string{"push", "press", "dip", "fly", "flye", "tricep", "lateral raise", "front raise"}
	pullKeywords = []string{"pull", "row", "curl", "chin-up", "face pull", "deadlift"}
)

// restricted lists movement keywords to avoid per injured body area.
var restricted = map[string][]string{
	"knee":     {"squat", "lunge", "jump", "knee extension", "leg extension", "burpee", "step-up"},
	"back":     {"deadlift", "good morning", "twist", "sit-up", "row", "swing"},
	"shoulder": {"overhead press", "push-up", "bench press", "pull-up", "dip", "pike"},
	"wrist":    {"push-up", "plank", "press", "curl", "burpee"},
	"ankle":    {"running", "jog", "jump", "lunge", "calf raise", "skater", "high knees"},
	"hip":      {"squat", "lunge", "deadlift", "hip thrust", "leg raise"},
	"neck":     {"overhead press", "shrug", "crunch", "sit-up", "headstand"},
	"elbow":    {"dip", "curl", "tricep", "push-up", "pushdown"},
}

// InjuryAreas lists the body areas the safety pass understands.
var InjuryAreas = []string{"knee", "back", "shoulder", "wrist", "ankle", "hip", "neck", "elbow"}

// injuryTerms are word prefixes that mark a health note as a complaint.
var injuryTerms = []string{
	"pain", "hurt", "injur", "ache", "aching", "sore", "strain", "sprain", "tear", "torn",
	"tendin", "tendon", "arthrit", "fractur", "broke", "surger", "stiff", "inflam", "swell",
	"swollen", "discomfort", "bad", "weak", "tight", "issue", "problem", "rehab",
}

// areaModifiers may accompany an area in a bare note such as "left knee".
var areaModifiers = []string{"left", "right", "lower", "upper", "both", "my", "and", "the"}

// safetyAlternatives are keyed by injured area, then canonical focus. The
// "" focus entry is the area default.
var safetyAlternatives = map[string]map[string]Template{
	"knee": {
		"Lower Body": {Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		"Legs":       {Name: "Hamstring Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
		"Cardio":     {Name: "Swimming", Duration: 900, Intensity: "Low"},
		"Full Body":  {Name: "Seated Medicine Ball Chest Pass", Sets: 3, Reps: 10, Rest: 60, Intensity: "Low"},
		"":           {Name: "Seated Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
	},
	"back": {
		"Pull":      {Name: "Lat Pulldown", Sets: 3, Reps: 12, Rest: 75, Intensity: "Low"},
		"Legs":      {Name: "Leg Press", Sets: 3, Reps: 12, Rest: 90, Intensity: "Low"},
		"Core":      {Name: "Bird Dog", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		"Full Body": {Name: "Wall Sits", Sets: 3, Duration: 30, Rest: 45, Intensity: "Low"},
		"":          {Name: "Bird Dog", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
	},
	"shoulder": {
		"Upper Body": {Name: "Resistance Band External Rotations", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		"Push":       {Name: "Resistance Band External Rotations", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		"Pull":       {Name: "Seated Cable Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
		"":           {Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
	},
	"wrist": {
		"Upper Body": {Name: "Resistance Band Face Pulls", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		"Core":       {Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		"":           {Name: "Wall Sits", Sets: 3, Duration: 45, Rest: 45, Intensity: "Low"},
	},
	"ankle": {
		"Cardio":     {Name: "Stationary Cycling", Duration: 900, Intensity: "Low"},
		"Lower Body": {Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
		"":           {Name: "Seated Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
	},
	"hip": {
		"Lower Body": {Name: "Seated Hamstring Curls", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
		"Core":       {Name: "Dead Bug", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		"":           {Name: "Seated Band Rows", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
	},
	"neck": {
		"Core": {Name: "Bird Dog", Sets: 3, Reps: 12, Rest: 40, Intensity: "Low"},
		"":     {Name: "Stationary Cycling", Duration: 600, Intensity: "Low"},
	},
	"elbow": {
		"Upper Body": {Name: "Lateral Raises", Sets: 3, Reps: 12, Rest: 60, Intensity: "Low"},
		"":           {Name: "Glute Bridges", Sets: 3, Reps: 15, Rest: 45, Intensity: "Low"},
	},
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
