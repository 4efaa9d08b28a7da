// Package scoring turns similarity measurements into awarded marks
// under the exam's grading policy.
package scoring

import (
	"context"
	"math"
	"strings"

	"github.com/spatel/markwise/internal/choice"
	"github.com/spatel/markwise/internal/keywords"
	"github.com/spatel/markwise/internal/model"
	"github.com/spatel/markwise/internal/semantic"
	"github.com/spatel/markwise/internal/textnorm"
)

// Result carries the scoring breakdown of a single subpart.
type Result struct {
	Marks    float64
	Semantic float64
	Keyword  float64
}

// Scorer scores one subpart at a time, branching on MCQ vs. subjective
// rules. It is stateless apart from its collaborators and safe for
// concurrent use.
type Scorer struct {
	cfg      *model.Config
	semantic *semantic.Scorer
	keywords *keywords.Matcher
	norm     textnorm.Options
}

// NewScorer wires a subpart scorer from its collaborators.
func NewScorer(cfg *model.Config, sem *semantic.Scorer, kw *keywords.Matcher, norm textnorm.Options) *Scorer {
	return &Scorer{cfg: cfg, semantic: sem, keywords: kw, norm: norm}
}

// Score awards marks for a single subpart. A missing or blank student
// answer scores zero across the board. MCQ subparts award full marks or
// nothing; subjective subparts blend semantic and keyword scores, apply
// the length penalty and the partial-credit floor, then round to the
// nearest quarter mark.
func (s *Scorer) Score(ctx context.Context, modelAnswer, studentAnswer string, maxMarks float64, isMCQ bool) (Result, error) {
	if strings.TrimSpace(studentAnswer) == "" {
		return Result{}, nil
	}

	if isMCQ {
		return s.scoreMCQ(ctx, modelAnswer, studentAnswer, maxMarks)
	}
	return s.scoreSubjective(ctx, modelAnswer, studentAnswer, maxMarks)
}

// scoreMCQ re-renders the detected choice as a canonical "(X)" token and
// compares it semantically against the model answer. No choice, or an
// ambiguous one, earns nothing.
func (s *Scorer) scoreMCQ(ctx context.Context, modelAnswer, studentAnswer string, maxMarks float64) (Result, error) {
	letter, ok := choice.PickChoice(studentAnswer)
	if !ok {
		return Result{}, nil
	}
	canonical := "(" + letter + ")"

	sem, err := s.semantic.Similarity(ctx, modelAnswer, canonical)
	if err != nil {
		return Result{}, err
	}
	kw := s.keywords.Score(modelAnswer, canonical)

	marks := 0.0
	if sem >= s.cfg.Thresholds.MCQMinCorrectScore {
		marks = maxMarks
	}

	return Result{
		Marks:    quarterRound(marks),
		Semantic: round4(sem),
		Keyword:  round4(kw),
	}, nil
}

func (s *Scorer) scoreSubjective(ctx context.Context, modelAnswer, studentAnswer string, maxMarks float64) (Result, error) {
	sem, err := s.semantic.Similarity(ctx, modelAnswer, studentAnswer)
	if err != nil {
		return Result{}, err
	}
	kw := s.keywords.Score(modelAnswer, studentAnswer)

	combined := s.cfg.Weights.Semantic*sem + s.cfg.Weights.Keyword*kw

	// Length penalty: very short answers shrink the combined score, but
	// never below 30% of it.
	ratio := s.lengthRatio(modelAnswer, studentAnswer)
	minRatio := s.cfg.Thresholds.MinLengthRatio
	if minRatio > 0 && ratio > 0 && ratio < minRatio {
		factor := math.Pow(ratio/minRatio, s.cfg.Thresholds.LengthPenaltyStrength)
		factor = math.Max(0.3, math.Min(1.0, factor))
		combined *= factor
	}

	combined = math.Max(0.0, math.Min(1.0, combined))

	marks := 0.0
	if combined >= s.cfg.Thresholds.MinPartialScore {
		// Mid-range bump: borderline answers get a small lift, capped
		// at 0.5.
		if combined < 0.5 {
			combined = math.Min(0.5, combined+0.1)
		}
		marks = combined * maxMarks
	}

	return Result{
		Marks:    quarterRound(marks),
		Semantic: round4(sem),
		Keyword:  round4(kw),
	}, nil
}

// lengthRatio approximates how long the student answer is relative to
// the model answer, by normalized token count.
func (s *Scorer) lengthRatio(modelAnswer, studentAnswer string) float64 {
	mLen := textnorm.TokenCount(modelAnswer, s.norm)
	sLen := textnorm.TokenCount(studentAnswer, s.norm)
	if mLen == 0 || sLen == 0 {
		return 0.0
	}
	return float64(sLen) / float64(mLen)
}

// quarterRound rounds marks to the nearest 0.25 increment, the way
// teachers mark by hand.
func quarterRound(v float64) float64 {
	return math.Round(v*4) / 4
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
