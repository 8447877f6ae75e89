package engine

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/generator"
	"github.com/claude/flexifit/internal/models"
)

var now = time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC)

func newEngine(gen PlanGenerator) *Engine {
	return New(Options{
		Clock:     adaptive.FixedClock(now),
		Rand:      adaptive.NewRand(42),
		Generator: gen,
	})
}

func exercise(name string, sets, reps float64) models.WorkoutExercise {
	return models.WorkoutExercise{
		Name:      name,
		Sets:      models.Float(sets),
		Reps:      models.Float(reps),
		RestTime:  models.Float(60),
		Intensity: "Medium",
	}
}

func planWith(foci ...string) *models.WorkoutPlan {
	p := &models.WorkoutPlan{ID: "plan-1", Name: "Base Plan", Description: "Three days a week", CreatedAt: now.AddDate(0, 0, -14)}
	for i, f := range foci {
		p.Days = append(p.Days, models.WorkoutDay{
			DayNumber: i + 1,
			Focus:     f,
			Exercises: []models.WorkoutExercise{
				exercise("Push-Ups", 3, 12),
				exercise("Resistance Band Rows", 3, 12),
				exercise("Glute Bridges", 3, 15),
			},
		})
	}
	return p
}

func user(exp string, completed int) *models.UserProfile {
	u := &models.UserProfile{
		UserID: "u1",
		Static: models.StaticAttributes{
			Age:             30,
			ExperienceLevel: exp,
			PrimaryGoal:     models.GoalGeneralHealth,
		},
	}
	for i := range completed {
		u.Dynamic.CompletedExercises = append(u.Dynamic.CompletedExercises, "session-"+string(rune('a'+i)))
	}
	last := now.Add(-24 * time.Hour)
	u.Dynamic.LastWorkout = &last
	return u
}

func ratings(id string, n, diff, fat, enj int, notes string) []models.UserFeedback {
	out := make([]models.UserFeedback, n)
	for i := range out {
		out[i] = models.UserFeedback{
			ExerciseID:  id,
			Difficulty:  diff,
			Fatigue:     fat,
			Enjoyment:   enj,
			Notes:       notes,
			CompletedAt: now.Add(time.Duration(i-n) * 24 * time.Hour),
		}
	}
	return out
}

// TestAdaptNewBeginner raises load for a beginner with almost no history.
func TestAdaptNewBeginner(t *testing.T) {
	out, err := newEngine(nil).Adapt(user("beginner", 1), planWith("Upper Body", "Rest", "Lower Body"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Level != adaptive.FastProgress {
		t.Errorf("level = %s, want %s", out.Level, adaptive.FastProgress)
	}
	if out.Result.Params.Intensity <= 0.5 {
		t.Errorf("intensity = %.3f, want > 0.5", out.Result.Params.Intensity)
	}
	if !strings.HasSuffix(out.Plan.Name, " (Adjusted)") {
		t.Errorf("name = %q", out.Plan.Name)
	}
	if out.Plan.ID == "plan-1" || !out.Plan.CreatedAt.Equal(now) {
		t.Errorf("plan identity not refreshed: id=%s created=%v", out.Plan.ID, out.Plan.CreatedAt)
	}
}

// TestAdaptExhaustedUserDeloads converts exactly one day to active recovery.
func TestAdaptExhaustedUserDeloads(t *testing.T) {
	plan := planWith("Upper Body", "Lower Body", "Core", "Cardio", "Full Body")
	fb := ratings(models.ExerciseID(1, 0), 7, 5, 5, 1, "")
	out, err := newEngine(nil).Adapt(user("intermediate", 5), plan, fb)
	if err != nil {
		t.Fatal(err)
	}
	if out.Level != adaptive.Deload {
		t.Fatalf("level = %s, want %s", out.Level, adaptive.Deload)
	}
	recovery := 0
	for _, d := range out.Plan.Days {
		if d.Focus == models.FocusActiveRecovery {
			recovery++
		}
	}
	if recovery != 1 {
		t.Errorf("active recovery days = %d, want 1", recovery)
	}
	if out.Result.Params.Intensity >= out.State.Params.Intensity {
		t.Errorf("deload intensity %.3f not below %.3f", out.Result.Params.Intensity, out.State.Params.Intensity)
	}
}

// TestAdaptReplacesPainfulExercise flags pain notes and swaps the exercise out.
func TestAdaptReplacesPainfulExercise(t *testing.T) {
	plan := planWith("Upper Body", "Rest", "Lower Body")
	fb := ratings(models.ExerciseID(1, 0), 3, 5, 3, 3, "sharp pain in my wrist")
	out, err := newEngine(nil).Adapt(user("intermediate", 4), plan, fb)
	if err != nil {
		t.Fatal(err)
	}
	want := []adaptive.ProblematicExercise{{ExerciseID: "1-0", Reason: adaptive.ReasonPain, Severity: 0.9}}
	if diff := cmp.Diff(want, out.Problems); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
	for _, e := range out.Plan.Days[0].Exercises {
		if e.Name == "Push-Ups" {
			t.Errorf("Push-Ups still on day 1: %+v", out.Plan.Days[0].Exercises)
		}
	}
}

// TestAdaptAddsDayForAdvancedUser adds a day with a focus the plan lacks.
func TestAdaptAddsDayForAdvancedUser(t *testing.T) {
	plan := planWith("Upper Body", "Lower Body", "Core")
	out, err := newEngine(nil).Adapt(user("advanced", 2), plan, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Result.HasStructure(adaptive.AddDay) {
		t.Fatalf("no addDay in %+v", out.Result.StructureChanges)
	}
	if len(out.Plan.Days) != 4 {
		t.Fatalf("days = %d, want 4", len(out.Plan.Days))
	}
	added := out.Plan.Days[3]
	if added.DayNumber != 4 {
		t.Errorf("added day number = %d", added.DayNumber)
	}
	for _, d := range plan.Days {
		if d.Focus == added.Focus {
			t.Errorf("added focus %q duplicates an existing day", added.Focus)
		}
	}
	if len(added.Exercises) != 3 {
		t.Errorf("added exercises = %d, want 3", len(added.Exercises))
	}
}

// TestAdaptRemovesRestrictedMovements leaves nothing that loads an injured knee.
func TestAdaptRemovesRestrictedMovements(t *testing.T) {
	plan := &models.WorkoutPlan{ID: "p", Name: "Squat Plan"}
	for i, f := range []string{"Lower Body", "Full Body", "Legs"} {
		plan.Days = append(plan.Days, models.WorkoutDay{
			DayNumber: i + 1,
			Focus:     f,
			Exercises: []models.WorkoutExercise{
				exercise("Back Squat", 5, 5),
				exercise("Goblet Squat", 3, 10),
				exercise("Jump Squat", 3, 8),
			},
		})
	}
	u := user("intermediate", 6)
	u.Static.HealthStatus = []models.HealthEntry{{Description: "Knee injury from running"}}

	out, err := newEngine(nil).Adapt(u, plan, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range out.Plan.Days {
		for _, e := range d.Exercises {
			if _, k, bad := catalog.MatchRestricted(e.Name, []string{"knee"}); bad {
				t.Errorf("day %d keeps %q (matches %q)", d.DayNumber, e.Name, k)
			}
		}
	}
	if len(out.Safety) < 9 {
		t.Errorf("safety swaps = %d, want at least 9", len(out.Safety))
	}
	if !strings.Contains(out.Plan.Description, "Modified for reported knee issues.") {
		t.Errorf("description = %q", out.Plan.Description)
	}
}

// TestSafetyPassMultipleAreas never substitutes an exercise that hits
// another injured area.
func TestSafetyPassMultipleAreas(t *testing.T) {
	plan := &models.WorkoutPlan{Days: []models.WorkoutDay{{
		DayNumber: 1,
		Focus:     "Lower Body",
		Exercises: []models.WorkoutExercise{exercise("Walking Lunges", 3, 10)},
	}}}
	areas := []string{"knee", "back"}
	swaps := SafetyPass(plan, areas)
	if len(swaps) != 1 {
		t.Fatalf("swaps = %d, want 1", len(swaps))
	}
	got := plan.Days[0].Exercises[0].Name
	if _, _, bad := catalog.MatchRestricted(got, areas); bad {
		t.Errorf("replacement %q is restricted", got)
	}
	if swaps[0].From != "Walking Lunges" || swaps[0].Area != "knee" || swaps[0].Keyword != "lunge" {
		t.Errorf("swap = %+v", swaps[0])
	}
}

// TestSafeReplacementFallsBack uses the generic placeholder when the focus
// name itself is restricted.
func TestSafeReplacementFallsBack(t *testing.T) {
	got := safeReplacement("hip", "Squat Day", []string{"hip", "back"}, nil)
	if got.Name != "Modified Movement" {
		t.Errorf("name = %q", got.Name)
	}
}

// TestAdaptKeepsSafetyAlternative leaves the table substitute in place
// instead of flagging the swapped slot as painful again.
func TestAdaptKeepsSafetyAlternative(t *testing.T) {
	plan := &models.WorkoutPlan{ID: "p", Name: "Knee Plan", Days: []models.WorkoutDay{{
		DayNumber: 1,
		Focus:     "Lower Body",
		Exercises: []models.WorkoutExercise{
			exercise("Bodyweight Squats", 3, 12),
			exercise("Push-Ups", 3, 12),
			exercise("Running", 1, 1),
		},
	}}}
	u := user("intermediate", 4)
	u.Static.HealthStatus = []models.HealthEntry{{Description: "knee pain"}}

	out, err := newEngine(nil).Adapt(u, plan, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Safety) != 1 || out.Safety[0].To != "Glute Bridges" {
		t.Fatalf("safety swaps = %+v", out.Safety)
	}
	for _, p := range out.Problems {
		if p.ExerciseID == "1-0" {
			t.Errorf("swapped slot flagged again: %+v", p)
		}
	}
	for _, a := range out.Result.ExerciseAdjustments {
		if a.Kind == adaptive.Replace && a.ExerciseID == "1-0" && a.NewExercise != nil && a.NewExercise.Name != "Push-Ups" {
			t.Errorf("substitute replaced: %+v", a)
		}
	}
	var names []string
	for _, e := range out.Plan.Days[0].Exercises {
		names = append(names, e.Name)
	}
	if !slices.Contains(names, "Glute Bridges") {
		t.Errorf("day 1 = %v, want Glute Bridges kept", names)
	}
}

// TestSafetyPassSkipsNamesOnDay falls through to the focus placeholder when
// the table alternative is already on the day.
func TestSafetyPassSkipsNamesOnDay(t *testing.T) {
	plan := &models.WorkoutPlan{Days: []models.WorkoutDay{{
		DayNumber: 1,
		Focus:     "Lower Body",
		Exercises: []models.WorkoutExercise{
			exercise("Bodyweight Squats", 3, 12),
			exercise("Glute Bridges", 3, 15),
		},
	}}}
	swaps := SafetyPass(plan, []string{"knee"})
	if len(swaps) != 1 {
		t.Fatalf("swaps = %d, want 1", len(swaps))
	}
	want := []string{"Modified Lower Body Movement", "Glute Bridges"}
	var got []string
	for _, e := range plan.Days[0].Exercises {
		got = append(got, e.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("day mismatch (-want +got):\n%s", diff)
	}
}

// TestAdaptGeneratesWhenNoPlan uses the generator for a user with no plan.
func TestAdaptGeneratesWhenNoPlan(t *testing.T) {
	gen := generator.New(adaptive.FixedClock(now), generator.Options{})
	out, err := newEngine(gen).Adapt(user("beginner", 0), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Generated || out.Plan == nil || len(out.Plan.Days) == 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Level != adaptive.FastProgress {
		t.Errorf("level = %s", out.Level)
	}
}

// TestAdaptWithoutPlanOrGenerator reports ErrNoCurrentPlan.
func TestAdaptWithoutPlanOrGenerator(t *testing.T) {
	_, err := newEngine(nil).Adapt(user("beginner", 0), nil, nil)
	if !errors.Is(err, adjuster.ErrNoCurrentPlan) {
		t.Errorf("err = %v, want ErrNoCurrentPlan", err)
	}
}

// TestAdaptDoesNotMutateInput compares the input plan before and after.
func TestAdaptDoesNotMutateInput(t *testing.T) {
	plan := planWith("Upper Body", "Lower Body", "Core", "Cardio", "Full Body")
	before := plan.Clone()
	fb := ratings(models.ExerciseID(1, 0), 7, 5, 5, 1, "knee pain")
	u := user("intermediate", 10)
	u.Static.HealthStatus = []models.HealthEntry{{Description: "shoulder strain"}}
	if _, err := newEngine(nil).Adapt(u, plan, fb); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, plan); diff != "" {
		t.Errorf("input plan changed (-before +after):\n%s", diff)
	}
}

// TestAdaptTwiceDoesNotStackSuffixes re-adapts an adapted plan.
func TestAdaptTwiceDoesNotStackSuffixes(t *testing.T) {
	e := newEngine(nil)
	u := user("intermediate", 4)
	u.Static.HealthStatus = []models.HealthEntry{{Description: "knee"}}
	plan := planWith("Upper Body", "Rest", "Lower Body")
	plan.Days[2].Exercises[0] = exercise("Bodyweight Squats", 3, 15)

	first, err := e.Adapt(u, plan, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Adapt(u, first.Plan, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(second.Plan.Name, "(Adjusted)"); n != 1 {
		t.Errorf("name %q has %d suffixes", second.Plan.Name, n)
	}
	if n := strings.Count(second.Plan.Description, "(Adaptively Adjusted)"); n != 1 {
		t.Errorf("description %q has %d suffixes", second.Plan.Description, n)
	}
	if n := strings.Count(second.Plan.Description, "Modified for reported"); n > 1 {
		t.Errorf("description %q repeats the safety note", second.Plan.Description)
	}
}

// TestMergeProblems keeps one entry per id at the higher severity.
func TestMergeProblems(t *testing.T) {
	fb := []adaptive.ProblematicExercise{
		{ExerciseID: "1-0", Reason: adaptive.ReasonTooDifficult, Severity: 0.7},
		{ExerciseID: "2-1", Reason: adaptive.ReasonExcessiveFatigue, Severity: 0.6},
	}
	inj := []adaptive.ProblematicExercise{
		{ExerciseID: "1-0", Reason: adaptive.ReasonPain, Severity: 0.9},
		{ExerciseID: "3-2", Reason: adaptive.ReasonPain, Severity: 0.9},
	}
	want := []adaptive.ProblematicExercise{
		{ExerciseID: "1-0", Reason: adaptive.ReasonPain, Severity: 0.9},
		{ExerciseID: "3-2", Reason: adaptive.ReasonPain, Severity: 0.9},
		{ExerciseID: "2-1", Reason: adaptive.ReasonExcessiveFatigue, Severity: 0.6},
	}
	if diff := cmp.Diff(want, mergeProblems(fb, inj)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := mergeProblems(); got == nil || len(got) != 0 {
		t.Errorf("empty merge = %#v", got)
	}
}

// TestApplySkipsStaleEdits counts edits that no longer resolve.
func TestApplySkipsStaleEdits(t *testing.T) {
	plan := planWith("Upper Body", "Lower Body")
	idx := 5
	res := &adaptive.AdjustmentResult{
		ExerciseAdjustments: []adaptive.ExerciseAdjustment{
			{Kind: adaptive.Modify, ExerciseID: "2-0", Changes: &adaptive.ExerciseChanges{Sets: models.Float(4)}},
			{Kind: adaptive.Modify, ExerciseID: "9-0", Changes: &adaptive.ExerciseChanges{Sets: models.Float(4)}},
		},
		StructureChanges: []adaptive.PlanStructureChange{
			{Kind: adaptive.RemoveDay, DayIndex: &idx},
			{Kind: adaptive.ChangeRest},
		},
	}
	if skipped := Apply(plan, res); skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if got := plan.Days[1].Exercises[0].Sets; got == nil || *got != 4 {
		t.Errorf("day 2 sets = %v", got)
	}
	if plan.Days[0].Focus != models.FocusActiveRecovery {
		t.Errorf("day 1 focus = %q", plan.Days[0].Focus)
	}
}

// TestApplyAddDayCapped refuses to grow a plan past seven days.
func TestApplyAddDayCapped(t *testing.T) {
	plan := planWith("Upper Body", "Lower Body", "Core", "Cardio", "Full Body", "Push", "Pull")
	res := &adaptive.AdjustmentResult{StructureChanges: []adaptive.PlanStructureChange{{Kind: adaptive.AddDay}}}
	if skipped := Apply(plan, res); skipped != 1 || len(plan.Days) != 7 {
		t.Errorf("skipped = %d, days = %d", skipped, len(plan.Days))
	}
}

// TestAnalyzeIncludesInjuryFlags reports injury risks without touching the plan.
func TestAnalyzeIncludesInjuryFlags(t *testing.T) {
	u := user("beginner", 0)
	u.Static.HealthStatus = []models.HealthEntry{{Description: "wrist sprain"}}
	a := newEngine(nil).Analyze(u, planWith("Upper Body"), nil)
	if diff := cmp.Diff([]string{"wrist"}, a.Injuries); diff != "" {
		t.Errorf("injuries mismatch (-want +got):\n%s", diff)
	}
	if len(a.Problems) != 1 || a.Problems[0].ExerciseID != "1-0" {
		t.Errorf("problems = %+v", a.Problems)
	}
}
