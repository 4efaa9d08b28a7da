package keywords

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// fuzzyRatio is the character-level sequence similarity of two tokens:
// 2*M/T where M is the number of matching characters under a
// longest-common-subsequence-style alignment and T the combined length.
// Returns a value in [0,1].
func fuzzyRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
