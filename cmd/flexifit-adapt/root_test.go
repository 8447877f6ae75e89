package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/models"
)

const profileOnly = `{"profile": {"user_id": "u1", "static": {"age": 30, "experience_level": "beginner", "primary_goal": "general_health", "frequency_per_week": 3}}}`

const withPlan = `{
  "profile": {"user_id": "u1", "static": {"experience_level": "intermediate", "primary_goal": "strength"}},
  "plan": {"id": "p1", "name": "Base", "days": [
    {"day_number": 1, "focus": "Upper Body", "exercises": [{"name": "Push-Ups", "sets": 3, "reps": 12, "rest_sec": 60}]}
  ]},
  "feedback": [
    {"exercise_id": "1-0", "difficulty": 5, "fatigue": 4, "enjoyment": 2, "completed_at": "2026-04-08T18:00:00Z"},
    {"exercise_id": "1-0", "difficulty": 5, "fatigue": 5, "enjoyment": 1, "completed_at": "2026-04-10T18:00:00Z"},
    {"exercise_id": "1-0", "difficulty": 5, "fatigue": 5, "enjoyment": 1, "completed_at": "2026-04-12T18:00:00Z"}
  ]
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestGenerate builds a plan from a profile alone.
func TestGenerate(t *testing.T) {
	out, err := execute(t, profileOnly, "generate", "--now", "2026-04-15T18:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	var plan models.WorkoutPlan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(plan.Days) == 0 || plan.TotalExercises() == 0 {
		t.Errorf("generated plan has %d days, %d exercises", len(plan.Days), plan.TotalExercises())
	}
}

// TestRunWithoutPlan needs --generate to bootstrap a plan.
func TestRunWithoutPlan(t *testing.T) {
	if _, err := execute(t, profileOnly, "run"); err == nil {
		t.Fatal("expected error without a plan")
	}

	out, err := execute(t, profileOnly, "run", "--generate", "--seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	var o engine.Outcome
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatal(err)
	}
	if !o.Generated || o.Plan == nil {
		t.Errorf("generated = %v plan = %v", o.Generated, o.Plan)
	}
}

// TestRunFromFile adapts a plan read from --input.
func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte(withPlan), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "run", "-i", path, "--seed", "42", "--now", "2026-04-15T18:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	var o engine.Outcome
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatal(err)
	}
	if o.Plan == nil || o.Generated {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Plan.ID == "p1" {
		t.Error("adapted plan kept the source id")
	}
}

// TestAnalyze flags the exercise rated too hard and unenjoyable.
func TestAnalyze(t *testing.T) {
	out, err := execute(t, withPlan, "analyze", "--now", "2026-04-15T18:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	var a engine.Analysis
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatal(err)
	}
	if len(a.Problems) == 0 {
		t.Error("expected at least one problem exercise")
	}
}

// TestBadInput rejects snapshots the engine cannot use.
func TestBadInput(t *testing.T) {
	cases := map[string]string{
		"no profile":   `{"plan": {"id": "p"}}`,
		"bad feedback": `{"profile": {}, "feedback": [{"exercise_id": "x", "difficulty": 9}]}`,
		"not json":     `{`,
	}
	for name, in := range cases {
		if _, err := execute(t, in, "analyze"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := execute(t, profileOnly, "generate", "--now", "yesterday"); err == nil {
		t.Error("bad --now accepted")
	}
}
