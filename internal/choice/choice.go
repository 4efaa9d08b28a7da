// Package choice classifies multiple-choice model answers and extracts
// the option a student selected.
package choice

import (
	"regexp"
	"strings"
)

// The option alphabet is fixed at A-D, case-insensitive.
var (
	mcqPrefixRx = regexp.MustCompile(`^\(\s*[a-dA-D]\s*\)`)
	parenRx     = regexp.MustCompile(`\(([a-dA-D])\)`)
	looseRx     = regexp.MustCompile(`\b([a-dA-D])\b`)
)

// IsMCQ reports whether a model answer is multiple-choice shaped: after
// trimming it begins with a single parenthesized option letter, with or
// without explanatory text following.
func IsMCQ(modelAnswer string) bool {
	return mcqPrefixRx.MatchString(strings.TrimSpace(modelAnswer))
}

// PickChoice extracts the student's selected option letter, uppercased.
// It collects every parenthesized option and every free-standing
// single-letter token. No candidates means unanswered; more than one
// distinct letter means the answer is ambiguous or contradictory. Both
// return ok=false: the engine does not guess.
func PickChoice(studentText string) (letter string, ok bool) {
	var candidates []string
	for _, m := range parenRx.FindAllStringSubmatch(studentText, -1) {
		candidates = append(candidates, strings.ToUpper(m[1]))
	}
	for _, m := range looseRx.FindAllStringSubmatch(studentText, -1) {
		candidates = append(candidates, strings.ToUpper(m[1]))
	}

	if len(candidates) == 0 {
		return "", false
	}

	distinct := map[string]bool{}
	for _, c := range candidates {
		distinct[c] = true
	}
	if len(distinct) > 1 {
		return "", false
	}
	return candidates[0], true
}
