package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options selects the optional steps of the normalization pipeline.
// Transliteration, lowercasing, punctuation stripping, and whitespace
// collapsing always run; the pipeline order is fixed.
type Options struct {
	RemoveStopwords    bool
	ApplyStemming      bool
	ApplyLemmatization bool
	NormalizeNumbers   bool
}

var (
	numRx   = regexp.MustCompile(`\d+`)
	punctRx = regexp.MustCompile(`[^a-z0-9_\s]`)
	spaceRx = regexp.MustCompile(`\s+`)

	// NFD decomposition followed by removal of combining marks strips
	// diacritics, leaving a plain-ASCII-equivalent form for most Latin
	// script input. This is narrower than full transliteration: letters
	// with no combining-mark decomposition ("ß", "ø") and non-Latin
	// scripts survive here and are dropped by the punctuation strip
	// below instead of being romanized.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes text for comparison. It is pure and
// deterministic for a fixed set of options, and idempotent:
// Normalize(Normalize(x)) == Normalize(x). Empty input yields "".
func Normalize(text string, opts Options) string {
	if text == "" {
		return ""
	}

	if out, _, err := transform.String(deaccent, text); err == nil {
		text = out
	}

	text = strings.ToLower(text)

	// Digit runs become a placeholder; the surrounding angle brackets
	// are punctuation and fall away in the next step, so the surviving
	// token is "num".
	if opts.NormalizeNumbers {
		text = numRx.ReplaceAllString(text, " <num> ")
	}

	text = punctRx.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaceRx.ReplaceAllString(text, " "))

	tokens := strings.Fields(text)

	if opts.RemoveStopwords {
		kept := tokens[:0]
		for _, t := range tokens {
			if !stopwords[t] {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	if opts.ApplyStemming {
		for i, t := range tokens {
			tokens[i] = english.Stem(t, false)
		}
	}

	if opts.ApplyLemmatization {
		for i, t := range tokens {
			tokens[i] = lemmatize(t)
		}
	}

	return strings.Join(tokens, " ")
}

// Tokens normalizes text and returns the resulting token slice.
func Tokens(text string, opts Options) []string {
	n := Normalize(text, opts)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// TokenCount is the number of tokens the text normalizes to.
func TokenCount(text string, opts Options) int {
	return len(Tokens(text, opts))
}
