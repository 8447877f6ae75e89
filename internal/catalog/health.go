package catalog

import (
	"slices"
	"strings"
	"time"

	"github.com/claude/flexifit/internal/models"
)

// HealthWindow is how long a structured health report stays active.
const HealthWindow = 30 * 24 * time.Hour

// InjuredAreas returns the body areas affected by active health reports.
// Structured entries count when reported within HealthWindow of now, or
// when undated; plain-text entries go through AreasIn.
func InjuredAreas(entries []models.HealthEntry, now time.Time) []string {
	var out []string
	add := func(a string) {
		if a != "" && !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	for _, h := range entries {
		if h.Structured() {
			if h.ReportedAt != nil && now.Sub(*h.ReportedAt) > HealthWindow {
				continue
			}
			for _, a := range h.AffectedAreas {
				add(normalizeArea(a))
			}
			continue
		}
		for _, a := range AreasIn(h.Description) {
			add(a)
		}
	}
	return out
}

// normalizeArea maps "Knees" or "lower back" onto an injury area key.
func normalizeArea(a string) string {
	if found := areasAmong(textWords(a)); len(found) > 0 {
		return found[0]
	}
	return strings.ToLower(strings.TrimSpace(a))
}
