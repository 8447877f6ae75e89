package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func samplePlan() *WorkoutPlan {
	return &WorkoutPlan{
		ID:        "p1",
		Name:      "Base",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Days: []WorkoutDay{
			{DayNumber: 1, Focus: "Upper Body", Exercises: []WorkoutExercise{
				{Name: "Push-Ups", Sets: Float(3), Reps: Float(12), RestTime: Float(60)},
				{Name: "Plank", Sets: Float(3), Duration: Float(45)},
			}},
			{DayNumber: 2, Focus: "Rest"},
		},
		TargetBodyAreas: []string{"chest"},
	}
}

// TestCloneIsDeep verifies that mutating a clone never reaches the original,
// including through optional pointer fields.
func TestCloneIsDeep(t *testing.T) {
	orig := samplePlan()
	want := samplePlan()

	c := orig.Clone()
	*c.Days[0].Exercises[0].Sets = 10
	c.Days[0].Exercises[1].Name = "Side Plank"
	c.Days[0].Exercises = append(c.Days[0].Exercises, WorkoutExercise{Name: "Dips"})
	c.TargetBodyAreas[0] = "legs"
	c.Days = c.Days[:1]

	if diff := cmp.Diff(want, orig); diff != "" {
		t.Errorf("original mutated (-want +got):\n%s", diff)
	}
}

// TestCloneNil verifies Clone on a nil plan returns nil.
func TestCloneNil(t *testing.T) {
	var p *WorkoutPlan
	if p.Clone() != nil {
		t.Error("Clone of nil plan should be nil")
	}
}

// TestParseExerciseID covers valid and malformed ids.
func TestParseExerciseID(t *testing.T) {
	tests := []struct {
		id      string
		day     int
		idx     int
		wantErr bool
	}{
		{"1-0", 1, 0, false},
		{"7-12", 7, 12, false},
		{"0-1", 0, 0, true},
		{"1--1", 0, 0, true},
		{"abc", 0, 0, true},
		{"1-x", 0, 0, true},
	}
	for _, tt := range tests {
		day, idx, err := ParseExerciseID(tt.id)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidExerciseID) {
				t.Errorf("ParseExerciseID(%q) err = %v, want ErrInvalidExerciseID", tt.id, err)
			}
			continue
		}
		if err != nil || day != tt.day || idx != tt.idx {
			t.Errorf("ParseExerciseID(%q) = %d, %d, %v", tt.id, day, idx, err)
		}
		if got := ExerciseID(day, idx); got != tt.id {
			t.Errorf("ExerciseID(%d, %d) = %q, want %q", day, idx, got, tt.id)
		}
	}
}

// TestExerciseAt resolves ids through day numbers, not slice positions.
func TestExerciseAt(t *testing.T) {
	p := samplePlan()
	p.Days[0].DayNumber = 3

	ex, ok := p.ExerciseAt("3-1")
	if !ok || ex.Name != "Plank" {
		t.Errorf("ExerciseAt(3-1) = %v, %v", ex, ok)
	}
	if _, ok := p.ExerciseAt("1-0"); ok {
		t.Error("ExerciseAt(1-0) should miss after renumbering")
	}
	if _, ok := p.ExerciseAt("3-5"); ok {
		t.Error("ExerciseAt(3-5) should miss out-of-range index")
	}
}

// TestIsRest checks the sentinel focus labels.
func TestIsRest(t *testing.T) {
	for focus, want := range map[string]bool{
		"Rest":            true,
		"Active Recovery": true,
		"rest day":        true,
		"Upper Body":      false,
		"Full Body":       false,
	} {
		if got := (WorkoutDay{Focus: focus}).IsRest(); got != want {
			t.Errorf("IsRest(%q) = %v, want %v", focus, got, want)
		}
	}
}

// TestHealthEntryUnmarshal verifies both legacy string and structured forms decode.
func TestHealthEntryUnmarshal(t *testing.T) {
	data := `["knee pain", {"description":"sprain","affected_areas":["ankle"],"severity":"moderate","reported_at":"2026-03-01T00:00:00Z"}]`
	var entries []HealthEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Description != "knee pain" || entries[0].Structured() {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if !entries[1].Structured() || entries[1].AffectedAreas[0] != "ankle" || entries[1].ReportedAt == nil {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

// TestFeedbackValidate checks rating bounds and id shape.
func TestFeedbackValidate(t *testing.T) {
	ok := UserFeedback{ExerciseID: "1-0", Difficulty: 3, Fatigue: 3, Enjoyment: 3, CompletedAt: time.Now()}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid feedback: %v", err)
	}
	bad := ok
	bad.Fatigue = 6
	if err := bad.Validate(); err == nil {
		t.Error("fatigue 6 should fail")
	}
	bad = ok
	bad.ExerciseID = "x"
	if err := bad.Validate(); err == nil {
		t.Error("bad id should fail")
	}
}

// TestSortedFeedback verifies ordering and that the input is untouched.
func TestSortedFeedback(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []UserFeedback{
		{ExerciseID: "1-0", CompletedAt: t0.Add(2 * time.Hour)},
		{ExerciseID: "1-1", CompletedAt: t0},
	}
	out := SortedFeedback(in)
	if out[0].ExerciseID != "1-1" {
		t.Errorf("first = %s, want 1-1", out[0].ExerciseID)
	}
	if in[0].ExerciseID != "1-0" {
		t.Error("input reordered")
	}
	if got := LastN(out, 1); len(got) != 1 || got[0].ExerciseID != "1-0" {
		t.Errorf("LastN = %v", got)
	}
}
