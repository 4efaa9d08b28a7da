package keywords

import (
	"math"

	"github.com/spatel/markwise/internal/model"
	"github.com/spatel/markwise/internal/textnorm"
)

// Matcher computes the lexical keyword overlap score between a model
// answer and a student answer.
type Matcher struct {
	extractor Extractor
	cfg       model.KeywordConfig
	norm      textnorm.Options
}

// NewMatcher builds a matcher around the given extractor. Pass nil to
// use the default frequency/position ranker.
func NewMatcher(extractor Extractor, cfg model.KeywordConfig, norm textnorm.Options) *Matcher {
	if extractor == nil {
		extractor = NewRankExtractor()
	}
	return &Matcher{extractor: extractor, cfg: cfg, norm: norm}
}

// Score measures what fraction of the model answer's keywords appear in
// the student answer, in [0,1]. Keywords come from the raw model answer;
// both keywords and student text are normalized before matching. A hit
// is an exact token match, or a fuzzy match at or above the configured
// threshold when fuzzy matching is enabled. Returns 0 when either input
// is empty or no keywords were extracted.
func (m *Matcher) Score(modelAnswer, studentAnswer string) float64 {
	if modelAnswer == "" || studentAnswer == "" {
		return 0.0
	}

	keys := m.keywords(modelAnswer)
	if len(keys) == 0 {
		return 0.0
	}

	tokens := textnorm.Tokens(studentAnswer, m.norm)
	if len(tokens) == 0 {
		return 0.0
	}
	sTokens := map[string]bool{}
	var tokenList []string
	for _, t := range tokens {
		if !sTokens[t] {
			sTokens[t] = true
			tokenList = append(tokenList, t)
		}
	}

	hits := 0
	for _, key := range keys {
		kNorm := textnorm.Normalize(key, m.norm)
		if kNorm == "" {
			continue
		}
		if sTokens[kNorm] {
			hits++
			continue
		}
		if m.cfg.UseFuzzy {
			best := 0.0
			for _, t := range tokenList {
				if r := fuzzyRatio(kNorm, t); r > best {
					best = r
				}
			}
			if best >= m.cfg.FuzzyThreshold {
				hits++
			}
		}
	}

	score := float64(hits) / float64(len(keys))
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return round4(score)
}

// keywords over-generates twice the configured top_k, then filters to
// unique candidates meeting the minimum length and truncates to top_k.
func (m *Matcher) keywords(text string) []string {
	raw := m.extractor.TopK(text, m.cfg.TopK*2)

	seen := map[string]bool{}
	var out []string
	for _, c := range raw {
		if len(c) < m.cfg.MinLen || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) >= m.cfg.TopK {
			break
		}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
