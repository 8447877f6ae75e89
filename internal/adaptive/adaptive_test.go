package adaptive

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/claude/flexifit/internal/models"
)

// TestProgressionLevelOrder verifies the glossary ordering.
func TestProgressionLevelOrder(t *testing.T) {
	order := []ProgressionLevel{Deload, Maintenance, VerySlowProgress, SlowProgress,
		NormalProgress, ModerateProgress, FastProgress, Breakthrough}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("%s should be below %s", order[i-1], order[i])
		}
		if order[i-1].Rate() >= order[i].Rate() {
			t.Errorf("rate(%s) should be below rate(%s)", order[i-1], order[i])
		}
	}
}

// TestProgressionLevelJSON verifies levels serialize by name.
func TestProgressionLevelJSON(t *testing.T) {
	data, err := json.Marshal(FastProgress)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"fast_progress"` {
		t.Errorf("marshal = %s", data)
	}
	var l ProgressionLevel
	if err := json.Unmarshal([]byte(`"deload"`), &l); err != nil || l != Deload {
		t.Errorf("unmarshal = %v, %v", l, err)
	}
	if err := json.Unmarshal([]byte(`"sprint"`), &l); err == nil {
		t.Error("unknown level should fail")
	}
}

// TestExperiencePromoteDemote checks one-tier saturation.
func TestExperiencePromoteDemote(t *testing.T) {
	if Beginner.Promote() != Intermediate || Advanced.Promote() != Advanced {
		t.Error("promote")
	}
	if Advanced.Demote() != Intermediate || Beginner.Demote() != Beginner {
		t.Error("demote")
	}
	if ParseExperience("expert") != Beginner {
		t.Error("unknown level should default to beginner")
	}
}

// TestClamp verifies every bounded field is clamped.
func TestClamp(t *testing.T) {
	p := AdaptiveParameters{Intensity: 1.4, Volume: -2, Frequency: 9, RestPeriod: 3,
		ProgressionRate: math.NaN(), PeriodizationAmplitude: 2}.Clamp()
	want := AdaptiveParameters{Intensity: 1, Volume: 0, Frequency: 6, RestPeriod: 15,
		ProgressionRate: 0, PeriodizationAmplitude: 1}
	if p != want {
		t.Errorf("Clamp = %+v, want %+v", p, want)
	}
	if got := (AdaptiveParameters{Frequency: 0, RestPeriod: 500}).Clamp(); got.Frequency != 2 || got.RestPeriod != 180 {
		t.Errorf("Clamp low freq/high rest = %+v", got)
	}
}

// TestRoundHalf checks half-step rounding.
func TestRoundHalf(t *testing.T) {
	for in, want := range map[float64]float64{3.2: 3, 3.3: 3.5, 12.74: 12.5, 12.76: 13} {
		if got := RoundHalf(in); got != want {
			t.Errorf("RoundHalf(%v) = %v, want %v", in, got, want)
		}
	}
}

// TestApplyExerciseEdit covers replace, modify and an out-of-range skip.
func TestApplyExerciseEdit(t *testing.T) {
	plan := &models.WorkoutPlan{Days: []models.WorkoutDay{{DayNumber: 1, Focus: "Core", Exercises: []models.WorkoutExercise{
		{Name: "Plank", Sets: models.Float(3), Duration: models.Float(30)},
	}}}}

	ok := ApplyExerciseEdit(plan, ExerciseAdjustment{Kind: Modify, ExerciseID: "1-0",
		Changes: &ExerciseChanges{Duration: models.Float(40)}})
	if !ok || *plan.Days[0].Exercises[0].Duration != 40 || *plan.Days[0].Exercises[0].Sets != 3 {
		t.Errorf("modify: ok=%v ex=%+v", ok, plan.Days[0].Exercises[0])
	}

	ok = ApplyExerciseEdit(plan, ExerciseAdjustment{Kind: Replace, ExerciseID: "1-0",
		NewExercise: &models.WorkoutExercise{Name: "Dead Bug"}})
	if !ok || plan.Days[0].Exercises[0].Name != "Dead Bug" {
		t.Errorf("replace: ok=%v ex=%+v", ok, plan.Days[0].Exercises[0])
	}

	if ApplyExerciseEdit(plan, ExerciseAdjustment{Kind: Replace, ExerciseID: "1-4",
		NewExercise: &models.WorkoutExercise{Name: "X"}}) {
		t.Error("out-of-range edit should be skipped")
	}
}

// TestNewRandDeterministic verifies equal seeds yield equal sequences.
func TestNewRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for range 10 {
		if a.IntN(100) != b.IntN(100) {
			t.Fatal("sequences diverged")
		}
	}
}
