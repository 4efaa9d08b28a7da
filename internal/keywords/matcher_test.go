package keywords

import (
	"math"
	"testing"

	"github.com/spatel/markwise/internal/model"
	"github.com/spatel/markwise/internal/textnorm"
)

func testKeywordConfig() model.KeywordConfig {
	return model.KeywordConfig{
		TopK:           15,
		MinLen:         3,
		UseFuzzy:       true,
		FuzzyThreshold: 0.88,
	}
}

func TestMatcher_Score_EmptyInputs(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{})

	if got := m.Score("", "some answer"); got != 0 {
		t.Errorf("empty model answer: got %v, want 0", got)
	}
	if got := m.Score("some answer", ""); got != 0 {
		t.Errorf("empty student answer: got %v, want 0", got)
	}
	if got := m.Score("the of and", "anything"); got != 0 {
		t.Errorf("no extractable keywords: got %v, want 0", got)
	}
}

func TestMatcher_Score_FullOverlap(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{RemoveStopwords: true})

	got := m.Score("gravity acceleration mass force", "force mass acceleration gravity")
	if got != 1.0 {
		t.Errorf("got %v, want 1.0", got)
	}
}

func TestMatcher_Score_PartialOverlap(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{RemoveStopwords: true})

	// 3 of the 4 keywords present.
	got := m.Score("gravity acceleration mass force", "gravity acceleration mass")
	if got != 0.75 {
		t.Errorf("got %v, want 0.75", got)
	}
}

func TestMatcher_Score_NoOverlap(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{RemoveStopwords: true})

	got := m.Score("gravity acceleration mass force", "banana guitar")
	if got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestMatcher_Score_FuzzyMatch(t *testing.T) {
	cfg := testKeywordConfig()
	m := NewMatcher(nil, cfg, textnorm.Options{})

	// Misspelled keyword still counts at ratio >= 0.88.
	got := m.Score("photosynthesis", "photosynthesys")
	if got != 1.0 {
		t.Errorf("fuzzy enabled: got %v, want 1.0", got)
	}

	cfg.UseFuzzy = false
	strict := NewMatcher(nil, cfg, textnorm.Options{})
	if got := strict.Score("photosynthesis", "photosynthesys"); got != 0 {
		t.Errorf("fuzzy disabled: got %v, want 0", got)
	}
}

func TestMatcher_Score_MinLenFilter(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{})

	// "pH" is below the minimum keyword length; only "acidity" and
	// "scale" count, and both are present.
	got := m.Score("pH acidity scale", "acidity scale")
	if got != 1.0 {
		t.Errorf("got %v, want 1.0", got)
	}
}

func TestMatcher_Score_Bounds(t *testing.T) {
	m := NewMatcher(nil, testKeywordConfig(), textnorm.Options{RemoveStopwords: true})

	pairs := [][2]string{
		{"gravity acceleration mass force", "gravity"},
		{"photosynthesis converts light into chemical energy", "plants use light"},
		{"one", "one one one"},
	}
	for _, p := range pairs {
		got := m.Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
		if r := math.Round(got*10000) / 10000; r != got {
			t.Errorf("Score(%q, %q) = %v, not rounded to 4 decimal places", p[0], p[1], got)
		}
	}
}
