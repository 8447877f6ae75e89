package analyzer

import (
	"slices"
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

var painKeywords = []string{"pain", "hurt", "injur", "ache", "discomfort", "strain", "sprain"}

// MentionsPain reports whether free text mentions pain or injury.
func MentionsPain(text string) bool {
	t := strings.ToLower(text)
	for _, k := range painKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// FindProblematicExercises groups feedback by exercise id and flags the
// ones whose ratings or notes indicate a problem. The result is ordered by
// severity, highest first; equal severities keep first-seen order.
func FindProblematicExercises(feedback []models.UserFeedback) []adaptive.ProblematicExercise {
	if len(feedback) < minWorkouts {
		return nil
	}
	sorted := models.SortedFeedback(feedback)

	var order []string
	groups := map[string][]models.UserFeedback{}
	for _, f := range sorted {
		if _, seen := groups[f.ExerciseID]; !seen {
			order = append(order, f.ExerciseID)
		}
		groups[f.ExerciseID] = append(groups[f.ExerciseID], f)
	}

	var out []adaptive.ProblematicExercise
	for _, id := range order {
		if p, ok := classify(id, groups[id]); ok {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b adaptive.ProblematicExercise) int {
		switch {
		case a.Severity > b.Severity:
			return -1
		case a.Severity < b.Severity:
			return 1
		}
		return 0
	})
	return out
}

// classify returns the first matching problem for one exercise's entries.
func classify(id string, fb []models.UserFeedback) (adaptive.ProblematicExercise, bool) {
	n := len(fb)
	if n < 2 {
		return adaptive.ProblematicExercise{}, false
	}
	p := adaptive.ProblematicExercise{ExerciseID: id}

	for _, f := range fb {
		if MentionsPain(f.Notes) {
			p.Reason, p.Severity = adaptive.ReasonPain, 0.9
			return p, true
		}
	}

	enjoyment := mean(fb, enjoymentOf)
	enjoymentTrend := halfTrend(fb, enjoymentOf)
	difficulty := mean(fb, difficultyOf)
	difficultyTrend := halfTrend(fb, difficultyOf)
	fatigue := mean(fb, fatigueOf)

	switch {
	case enjoyment < 2 && enjoymentTrend <= 0:
		p.Reason, p.Severity = adaptive.ReasonLowEnjoyment, 0.8
	case enjoymentTrend < -0.7 && n >= 3:
		p.Reason, p.Severity = adaptive.ReasonDecliningEnjoyment, 0.6
	case difficulty > 4.3 && difficultyTrend >= 0 && n >= 3:
		p.Reason, p.Severity = adaptive.ReasonTooDifficult, 0.7
	case fatigue > 4.5:
		p.Reason, p.Severity = adaptive.ReasonExcessiveFatigue, 0.6
	default:
		return p, false
	}
	return p, true
}
