package adjuster

import (
	"strconv"
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

var levelMessages = map[adaptive.ProgressionLevel]string{
	adaptive.Deload:           "Your recent sessions show accumulated fatigue, so this plan backs off to let you recover.",
	adaptive.Maintenance:      "This plan keeps the load steady while you get back into a regular rhythm.",
	adaptive.VerySlowProgress: "You are moving forward; the plan nudges the load up very gently.",
	adaptive.SlowProgress:     "Steady work is paying off, so the plan adds a little more challenge.",
	adaptive.NormalProgress:   "You are progressing well and the plan increases the challenge accordingly.",
	adaptive.ModerateProgress: "Good momentum: the plan steps up intensity and volume.",
	adaptive.FastProgress:     "You are adapting quickly, so the plan raises the challenge noticeably.",
	adaptive.Breakthrough:     "Outstanding progress. The plan takes a big step up to match.",
}

var experienceMessages = map[adaptive.ExperienceLevel]string{
	adaptive.Beginner:     "Keep focusing on form before adding weight.",
	adaptive.Intermediate: "Track your lifts so the next adjustment has good data.",
	adaptive.Advanced:     "Small, deliberate increases will keep you progressing.",
}

var goalMessages = map[string]string{
	models.GoalFatLoss:       "Pair this with consistent activity outside the gym for fat loss.",
	models.GoalMuscleGain:    "Eat enough protein to support muscle growth.",
	models.GoalStrength:      "Rest fully between heavy sets to build strength.",
	models.GoalEndurance:     "Keep an even pace to build endurance.",
	models.GoalGeneralHealth: "Consistency matters more than intensity for overall health.",
}

func summaryMessage(level adaptive.ProgressionLevel, exp adaptive.ExperienceLevel, goal string) string {
	parts := []string{levelMessages[level]}
	if m, ok := experienceMessages[exp]; ok {
		parts = append(parts, m)
	}
	if m, ok := goalMessages[goal]; ok {
		parts = append(parts, m)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func humanLevel(l adaptive.ProgressionLevel) string {
	return strings.ReplaceAll(l.String(), "_", " ")
}

func itoa(n int) string { return strconv.Itoa(n) }
