// Package align locates a student's answers inside a loosely-structured
// submission document and maps them onto a model question's subparts.
//
// A submission is a decoded JSON tree with no guaranteed schema: the
// aligner treats every node as one of {string, sequence, mapping,
// other} and applies the same key test at each mapping case.
package align

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spatel/markwise/internal/model"
)

var digitRx = regexp.MustCompile(`\d+`)

// NormalizeID folds a key or subpart id for comparison: parentheses and
// periods stripped, lowercased, trimmed.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	r := strings.NewReplacer("(", "", ")", "", ".", "")
	return strings.ToLower(r.Replace(s))
}

// digitSignature is the concatenation of all digit runs in s.
func digitSignature(s string) string {
	return strings.Join(digitRx.FindAllString(s, -1), "")
}

// candidateLabels generates the common spellings of a question label for
// the given digit signature, already id-folded for comparison.
func candidateLabels(qnum string) map[string]bool {
	variants := []string{
		"q" + qnum, "question" + qnum, "ques" + qnum, qnum,
		"q-" + qnum, "question-" + qnum, "ques-" + qnum,
		"q " + qnum, "question " + qnum, "ques " + qnum,
	}
	want := make(map[string]bool, len(variants))
	for _, v := range variants {
		want[NormalizeID(v)] = true
	}
	return want
}

// Align maps each of the model question's subpart ids to the student
// text found for it. Ids absent from the submission are simply missing
// from the result; a question whose section cannot be located at all
// yields an empty map.
func Align(q *model.ModelQuestion, student any) map[string]string {
	desired := make(map[string]bool, len(q.Subparts))
	order := make([]string, 0, len(q.Subparts))
	for _, sp := range q.Subparts {
		id := NormalizeID(sp.ID)
		if !desired[id] {
			desired[id] = true
			order = append(order, id)
		}
	}

	qDigits := digitSignature(q.QuestionNumber)
	section, found := findSection(student, qDigits)
	if !found {
		return map[string]string{}
	}

	acc := map[string]string{}

	switch sec := section.(type) {
	case map[string]any:
		for _, k := range sortedKeys(sec) {
			walk(k, sec[k], desired, acc)
		}
	default:
		// Single-blob fallback: a bare string (or sequence) section can
		// only be assigned when exactly one subpart is expected.
		if len(order) == 1 {
			acc[order[0]] = flatten(section)
		}
	}

	return acc
}

// findSection locates the question's section in the submission: first an
// exact match against common label spellings over the top-level keys,
// then digit-signature equality, then the same two tests one level
// deeper for sectioned submissions.
func findSection(student any, qDigits string) (any, bool) {
	root, isMap := student.(map[string]any)
	if !isMap {
		return nil, false
	}

	want := candidateLabels(qDigits)
	keys := sortedKeys(root)

	for _, k := range keys {
		if want[NormalizeID(k)] {
			return root[k], true
		}
	}
	if qDigits != "" {
		for _, k := range keys {
			if digitSignature(NormalizeID(k)) == qDigits {
				return root[k], true
			}
		}
	}

	for _, k := range keys {
		if inner, ok := root[k].(map[string]any); ok {
			innerKeys := sortedKeys(inner)
			for _, kk := range innerKeys {
				if want[NormalizeID(kk)] {
					return inner[kk], true
				}
			}
			if qDigits != "" {
				for _, kk := range innerKeys {
					if digitSignature(NormalizeID(kk)) == qDigits {
						return inner[kk], true
					}
				}
			}
		}
	}

	return nil, false
}

// walk performs the depth-first traversal. A key matching a desired
// subpart id flattens its entire subtree into that subpart's text and
// still descends, so matching keys nested below it contribute as well.
// Text under non-matching keys is never accumulated.
func walk(key string, val any, desired map[string]bool, acc map[string]string) {
	id := NormalizeID(key)

	if id != "" && desired[id] {
		if text := strings.TrimSpace(flatten(val)); text != "" {
			if prev := acc[id]; prev != "" {
				acc[id] = prev + " " + text
			} else {
				acc[id] = text
			}
		}
		switch v := val.(type) {
		case map[string]any:
			for _, k := range sortedKeys(v) {
				walk(k, v[k], desired, acc)
			}
		case []any:
			for _, item := range v {
				walk(key, item, desired, acc)
			}
		}
		return
	}

	switch v := val.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			walk(k, v[k], desired, acc)
		}
	case []any:
		for _, item := range v {
			walk(key, item, desired, acc)
		}
	}
}

// flatten concatenates every string leaf of a subtree, space-joined.
// Non-string scalars contribute nothing.
func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		keys := sortedKeys(t)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := flatten(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// sortedKeys keeps traversal deterministic; JSON objects decode into Go
// maps with randomized iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
