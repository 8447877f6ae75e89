package catalog

import (
	"slices"
	"sort"
	"strings"
	"unicode"
)

// Exercise ordering ranks.
const (
	RankCompound = iota
	RankIsolation
	RankCardio
)

// CanonicalFocus maps a free-form focus label to a catalog focus. The second
// return is false when nothing matched and the label fell back to Full Body.
func CanonicalFocus(label string) (string, bool) {
	for k := range byFocus {
		if strings.EqualFold(k, label) {
			return k, true
		}
	}
	l := strings.ToLower(label)
	for _, a := range focusAliases {
		if strings.Contains(l, a.keyword) {
			return a.focus, true
		}
	}
	return "Full Body", false
}

// Focuses returns the catalog focus labels, sorted.
func Focuses() []string {
	out := make([]string, 0, len(byFocus))
	for k := range byFocus {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ForFocus returns the exercises listed for a focus label.
func ForFocus(label string) []Template {
	f, _ := CanonicalFocus(label)
	return slices.Clone(byFocus[f])
}

// Candidates returns up to n exercises for the focus whose names are not in exclude.
func Candidates(label string, exclude map[string]bool, n int) []Template {
	var out []Template
	for _, t := range ForFocus(label) {
		if exclude[t.Name] {
			continue
		}
		out = append(out, t)
		if len(out) == n {
			break
		}
	}
	return out
}

// ForLevel filters exercises to those at or below the experience level.
func ForLevel(ts []Template, level string) []Template {
	rank := map[string]int{lvlBeg: 0, lvlInt: 1, lvlAdv: 2}
	limit := rank[level]
	var out []Template
	for _, t := range ts {
		if rank[t.Level] <= limit {
			out = append(out, t)
		}
	}
	return out
}

// Similar returns substitutes for an exercise. An exact table key wins;
// otherwise the longest key contained in the name is used.
func Similar(name string) []Template {
	if s, ok := similar[name]; ok {
		return slices.Clone(s)
	}
	l := strings.ToLower(name)
	for _, k := range similarKeys {
		if strings.Contains(l, strings.ToLower(k)) {
			return slices.Clone(similar[k])
		}
	}
	return nil
}

// similarKeys orders the similarity table longest key first, ties
// alphabetical, so the fallback match does not depend on map order.
var similarKeys = func() []string {
	keys := make([]string, 0, len(similar))
	for k := range similar {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return keys
}()

// IsLowImpact reports whether the name is a known joint-friendly exercise.
func IsLowImpact(name string) bool { return lowImpact[name] }

// IsHighEngagement reports whether the name is a known enjoyable exercise.
func IsHighEngagement(name string) bool { return highEngagement[name] }

// Rank classifies an exercise for ordering: compound, isolation or cardio.
// Names matching no list rank as isolation.
func Rank(name string) int {
	switch {
	case containsAny(name, cardioKeywords):
		return RankCardio
	case containsAny(name, compoundKeywords):
		return RankCompound
	default:
		return RankIsolation
	}
}

// IsCompound reports whether the exercise is a multi-joint lift.
func IsCompound(name string) bool { return Rank(name) == RankCompound }

// IsStrengthLift reports whether the name is one of the heavy barbell-style lifts.
func IsStrengthLift(name string) bool { return containsAny(name, strengthLiftKeywords) }

// BodyPartsOf returns the body parts an exercise trains, in MajorParts order
// followed by cardio.
func BodyPartsOf(name string) []string {
	var out []string
	for _, p := range append(slices.Clone(MajorParts), PartCardio) {
		if containsAny(name, bodyPartKeywords[p]) {
			out = append(out, p)
		}
	}
	return out
}

// AreaOf maps an exercise onto one of the four coarse areas, or "" if unknown.
func AreaOf(name string) string {
	parts := BodyPartsOf(name)
	switch {
	case slices.Contains(parts, PartCore):
		return AreaCore
	case slices.Contains(parts, PartLegs):
		return AreaLower
	case slices.Contains(parts, PartChest), slices.Contains(parts, PartBack),
		slices.Contains(parts, PartShoulders), slices.Contains(parts, PartArms):
		return AreaUpper
	case slices.Contains(parts, PartCardio):
		return AreaCardio
	}
	return ""
}

// FocusBodyParts returns the body parts implied by a focus label. Unknown
// labels imply nothing.
func FocusBodyParts(label string) []string {
	f, ok := CanonicalFocus(label)
	if !ok {
		return nil
	}
	return slices.Clone(focusBodyParts[f])
}

// MovementPatterns reports whether an exercise is a push and/or a pull.
func MovementPatterns(name string) (push, pull bool) {
	return containsAny(name, pushKeywords), containsAny(name, pullKeywords)
}

// ExerciseForBodyPart returns a moderate exercise for a body part or pattern.
func ExerciseForBodyPart(part string) Template {
	if t, ok := bodyPartExercises[part]; ok {
		return t
	}
	return defaultsForAddedDay["Full Body"][0]
}

// DefaultDayExercises returns the three exercises for a newly added day.
func DefaultDayExercises(label string) []Template {
	f, _ := CanonicalFocus(label)
	d, ok := defaultsForAddedDay[f]
	if !ok {
		d = defaultsForAddedDay["Full Body"]
	}
	return d[:]
}

// RecoveryExercises returns the light exercises for an Active Recovery day.
func RecoveryExercises() []Template {
	return slices.Clone(recoveryExercises)
}

// RestrictedKeywords returns the movement keywords to avoid for an injured area.
func RestrictedKeywords(area string) []string {
	return slices.Clone(restricted[area])
}

// MatchRestricted returns the first area in areas whose restricted keywords
// appear in name, with the matching keyword.
func MatchRestricted(name string, areas []string) (area, keyword string, ok bool) {
	l := strings.ToLower(name)
	for _, a := range areas {
		for _, k := range restricted[a] {
			if strings.Contains(l, k) {
				return a, k, true
			}
		}
	}
	return "", "", false
}

// SafetyAlternative returns the safe substitute for an injured area on a day
// with the given focus, falling back to the area default.
func SafetyAlternative(area, focus string) (Template, bool) {
	table, ok := safetyAlternatives[area]
	if !ok {
		return Template{}, false
	}
	f, _ := CanonicalFocus(focus)
	if t, ok := table[f]; ok {
		return t, true
	}
	t, ok := table[""]
	return t, ok
}

// AreasIn returns the injury areas named in a free-text health note, in
// InjuryAreas order. Areas match whole words only ("knees" counts,
// "backpack" does not), and the note must read as a complaint: it either
// carries an injury term or consists of nothing but areas and sides, so
// "bad knee" and "knee" match while "back to full training" does not.
func AreasIn(text string) []string {
	words := textWords(text)
	found := areasAmong(words)
	if len(found) == 0 {
		return nil
	}
	bare := true
	for _, w := range words {
		if hasPrefixAny(w, injuryTerms) {
			return found
		}
		if areaWord(w) == "" && !slices.Contains(areaModifiers, w) {
			bare = false
		}
	}
	if !bare {
		return nil
	}
	return found
}

// areasAmong returns the areas named by any of words, in InjuryAreas order.
func areasAmong(words []string) []string {
	var out []string
	for _, a := range InjuryAreas {
		if slices.ContainsFunc(words, func(w string) bool { return areaWord(w) == a }) {
			out = append(out, a)
		}
	}
	return out
}

// areaWord returns the injury area a single lower-case word names, allowing
// plurals, or "".
func areaWord(w string) string {
	for _, a := range InjuryAreas {
		if w == a || w == a+"s" || w == a+"es" {
			return a
		}
	}
	return ""
}

func textWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func hasPrefixAny(w string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	return false
}

func containsAny(name string, keywords []string) bool {
	l := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}
