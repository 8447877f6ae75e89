package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidExerciseID is returned when an exercise id does not follow
// the "<dayNumber>-<index>" shape.
var ErrInvalidExerciseID = errors.New("invalid exercise id")

// Sentinel focus labels.
const (
	FocusRest           = "Rest"
	FocusActiveRecovery = "Active Recovery"
	FocusFullBody       = "Full Body"
)

// WorkoutPlan is a multi-day exercise schedule.
type WorkoutPlan struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"created_at"`
	Days            []WorkoutDay `json:"days"`
	TargetBodyAreas []string     `json:"target_body_areas,omitempty"`
}

// WorkoutDay is a single day of a plan. DayNumber is 1-based.
type WorkoutDay struct {
	DayNumber int               `json:"day_number"`
	Focus     string            `json:"focus"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// IsRest reports whether the day is a rest or recovery day.
func (d WorkoutDay) IsRest() bool {
	f := strings.ToLower(d.Focus)
	return strings.Contains(f, "rest") || strings.Contains(f, "recovery")
}

// WorkoutExercise is one exercise prescription. Strength, timed and cardio
// exercises populate different subsets of the optional fields.
type WorkoutExercise struct {
	Name      string   `json:"name"`
	Sets      *float64 `json:"sets,omitempty"`
	Reps      *float64 `json:"reps,omitempty"`
	Duration  *float64 `json:"duration_sec,omitempty"`
	RestTime  *float64 `json:"rest_sec,omitempty"`
	Intensity string   `json:"intensity,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Float returns a pointer to v, for building optional exercise fields.
func Float(v float64) *float64 { return &v }

// Clone returns a deep copy of the exercise.
func (e WorkoutExercise) Clone() WorkoutExercise {
	out := e
	out.Sets = cloneFloat(e.Sets)
	out.Reps = cloneFloat(e.Reps)
	out.Duration = cloneFloat(e.Duration)
	out.RestTime = cloneFloat(e.RestTime)
	return out
}

// Clone returns a deep copy of the day.
func (d WorkoutDay) Clone() WorkoutDay {
	out := d
	if d.Exercises != nil {
		out.Exercises = make([]WorkoutExercise, len(d.Exercises))
		for i, e := range d.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the plan. Edits to the copy never reach p.
func (p *WorkoutPlan) Clone() *WorkoutPlan {
	if p == nil {
		return nil
	}
	out := *p
	if p.Days != nil {
		out.Days = make([]WorkoutDay, len(p.Days))
		for i, d := range p.Days {
			out.Days[i] = d.Clone()
		}
	}
	if p.TargetBodyAreas != nil {
		out.TargetBodyAreas = append([]string(nil), p.TargetBodyAreas...)
	}
	return &out
}

// TotalExercises counts exercises across all days.
func (p *WorkoutPlan) TotalExercises() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, d := range p.Days {
		n += len(d.Exercises)
	}
	return n
}

// DayByNumber returns the index into Days of the day with the given number.
func (p *WorkoutPlan) DayByNumber(dayNumber int) (int, bool) {
	if p == nil {
		return 0, false
	}
	for i, d := range p.Days {
		if d.DayNumber == dayNumber {
			return i, true
		}
	}
	return 0, false
}

// ExerciseAt resolves an exercise id against the plan.
func (p *WorkoutPlan) ExerciseAt(id string) (*WorkoutExercise, bool) {
	day, idx, err := ParseExerciseID(id)
	if err != nil {
		return nil, false
	}
	di, ok := p.DayByNumber(day)
	if !ok || idx >= len(p.Days[di].Exercises) {
		return nil, false
	}
	return &p.Days[di].Exercises[idx], true
}

// ExerciseID builds the feedback key for an exercise.
func ExerciseID(dayNumber, index int) string {
	return strconv.Itoa(dayNumber) + "-" + strconv.Itoa(index)
}

// ParseExerciseID splits an exercise id into day number and zero-based index.
func ParseExerciseID(id string) (dayNumber, index int, err error) {
	dayStr, idxStr, ok := strings.Cut(id, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidExerciseID, id)
	}
	dayNumber, err = strconv.Atoi(dayStr)
	if err != nil || dayNumber < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidExerciseID, id)
	}
	index, err = strconv.Atoi(idxStr)
	if err != nil || index < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidExerciseID, id)
	}
	return dayNumber, index, nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
