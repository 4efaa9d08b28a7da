// Package keywords extracts salient terms from a model answer and
// measures their presence in a student answer.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// Extractor ranks single-word keyword candidates in a text, most salient
// first. Implementations are injected so the ranking scheme can be
// swapped without touching the matcher.
type Extractor interface {
	// TopK returns up to k candidate keywords, ordered by rank.
	TopK(text string, k int) []string
}

// RankExtractor is the default unsupervised extractor. A candidate's
// salience combines term frequency with its first position in the text:
// frequent terms appearing early rank best. Lower score means more
// salient, in the style of statistical keyword rankers.
type RankExtractor struct{}

// NewRankExtractor creates the default extractor.
func NewRankExtractor() *RankExtractor { return &RankExtractor{} }

var wordRx = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9'_-]*`)

type candidate struct {
	word  string
	score float64
	first int
}

// TopK implements Extractor. Candidates keep their surface form; the
// matcher applies its own normalization and length filtering.
func (e *RankExtractor) TopK(text string, k int) []string {
	if text == "" || k <= 0 {
		return nil
	}

	words := wordRx.FindAllString(text, -1)
	if len(words) == 0 {
		return nil
	}

	type stat struct {
		freq  int
		first int
	}
	stats := make(map[string]*stat)
	order := make([]string, 0, len(words))
	for i, w := range words {
		key := strings.ToLower(w)
		if functionWords[key] {
			continue
		}
		s, ok := stats[key]
		if !ok {
			s = &stat{first: i}
			stats[key] = s
			order = append(order, w)
		}
		s.freq++
	}

	total := float64(len(words))
	cands := make([]candidate, 0, len(order))
	for _, w := range order {
		s := stats[strings.ToLower(w)]
		// Position term in [1,2): earlier occurrences score lower.
		pos := 1.0 + float64(s.first)/total
		cands = append(cands, candidate{
			word:  w,
			score: pos / float64(s.freq),
			first: s.first,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score < cands[j].score
		}
		return cands[i].first < cands[j].first
	})

	if len(cands) > k {
		cands = cands[:k]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.word
	}
	return out
}

// functionWords are never keyword candidates regardless of frequency.
var functionWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "so": true, "to": true, "of": true, "in": true, "on": true,
	"at": true, "by": true, "for": true, "with": true, "as": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "from": true, "into": true, "not": true, "no": true,
	"which": true, "who": true, "whom": true, "what": true, "when": true,
	"where": true, "how": true, "why": true, "all": true, "each": true,
	"can": true, "will": true, "has": true, "have": true, "had": true,
}
