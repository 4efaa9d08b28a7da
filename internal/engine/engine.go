// Package engine orchestrates a full evaluation run: aligning every
// question, applying selection policy, scoring subparts, and assembling
// the auditable report.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spatel/markwise/internal/align"
	"github.com/spatel/markwise/internal/choice"
	"github.com/spatel/markwise/internal/embed"
	"github.com/spatel/markwise/internal/keywords"
	"github.com/spatel/markwise/internal/model"
	"github.com/spatel/markwise/internal/scoring"
	"github.com/spatel/markwise/internal/semantic"
	"github.com/spatel/markwise/internal/textnorm"
)

// Evaluator scores student submissions against a model paper. It holds
// no per-run state: separate Evaluate calls may run concurrently, the
// embedding provider being the only shared resource.
type Evaluator struct {
	cfg    *model.Config
	scorer *scoring.Scorer
}

// New builds an evaluator from configuration. The embedding provider is
// constructed lazily on first use and shared across all evaluations.
// Configuration problems surface here, not mid-run.
func New(cfg *model.Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider := embed.NewLazy(func() (embed.Provider, error) {
		return embed.NewProvider(embedConfig(cfg))
	})
	return NewWithProvider(cfg, provider)
}

// NewWithProvider builds an evaluator around an injected embedding
// provider, bypassing the factory. Used by tests and by callers that
// manage the provider lifecycle themselves.
func NewWithProvider(cfg *model.Config, provider embed.Provider) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	norm := textnorm.Options{
		RemoveStopwords:    cfg.TextCleaning.RemoveStopwords,
		ApplyStemming:      cfg.TextCleaning.ApplyStemming,
		ApplyLemmatization: cfg.TextCleaning.ApplyLemmatization,
		NormalizeNumbers:   cfg.TextCleaning.NormalizeNumbers,
	}

	sem := semantic.NewScorer(provider, norm, cfg.Semantic.RescaleToUnit)
	kw := keywords.NewMatcher(nil, cfg.Keywords, norm)
	scorer := scoring.NewScorer(cfg, sem, kw, norm)

	return &Evaluator{cfg: cfg, scorer: scorer}, nil
}

func embedConfig(cfg *model.Config) embed.Config {
	return embed.Config{
		Provider:          cfg.Semantic.Provider,
		Model:             cfg.Semantic.ModelName,
		APIKey:            cfg.Semantic.APIKey,
		BaseURL:           cfg.Semantic.BaseURL,
		Timeout:           cfg.Semantic.Timeout,
		CacheTTL:          cfg.Semantic.CacheTTL,
		RequestsPerSecond: cfg.Semantic.RequestsPerSecond,
		Burst:             cfg.Semantic.Burst,
	}
}

// EvaluateDocuments parses both JSON documents and evaluates them.
func (e *Evaluator) EvaluateDocuments(ctx context.Context, modelDoc, studentDoc []byte) (*model.EvaluationReport, error) {
	questions, err := ParseModelPaper(modelDoc)
	if err != nil {
		return nil, err
	}
	student, err := ParseSubmission(studentDoc)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, questions, student)
}

// Evaluate scores every question of the model paper against the student
// submission and assembles the report. Per-question anomalies (missing
// sections, blank answers, ambiguous choices) degrade to zero marks
// plus a note; only embedding failures abort the run.
func (e *Evaluator) Evaluate(ctx context.Context, questions []model.ModelQuestion, student any) (*model.EvaluationReport, error) {
	report := &model.EvaluationReport{
		ByQuestion: make(map[string]model.QuestionResult, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		qr, err := e.evaluateQuestion(ctx, q, student)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.QuestionNumber, err)
		}

		report.ByQuestion[foldQuestionNumber(q.QuestionNumber)] = qr
		report.TotalAwarded += qr.FinalScore
		report.TotalMax += qr.TotalMarks
	}

	report.TotalAwarded = round4(report.TotalAwarded)
	report.TotalMax = math.Round(report.TotalMax*10) / 10
	if report.TotalMax > 0 {
		report.Percentage = math.Round(report.TotalAwarded/report.TotalMax*100*100) / 100
	}
	return report, nil
}

func (e *Evaluator) evaluateQuestion(ctx context.Context, q *model.ModelQuestion, student any) (model.QuestionResult, error) {
	attempt := e.attemptRequired(q)
	policy := e.selectionPolicy(q)

	qr := model.QuestionResult{
		Policy: model.QuestionPolicy{
			MissingSubpartPolicy: "zero",
			ExtraAttemptPolicy:   policy,
			WeightSemantic:       e.cfg.Weights.Semantic,
			WeightKeyword:        e.cfg.Weights.Keyword,
			AttemptRequired:      attempt,
		},
		Subparts:   make(map[string]model.SubpartResult, len(q.Subparts)),
		TotalMarks: q.MaxMarks(),
		Notes:      []string{},
	}

	// Every declared subpart appears in the report, zeros included.
	byNormID := make(map[string]*model.ModelSubpart, len(q.Subparts))
	for i := range q.Subparts {
		sp := &q.Subparts[i]
		qr.Subparts[sp.ID] = model.SubpartResult{}
		byNormID[align.NormalizeID(sp.ID)] = sp
	}

	aligned := align.Align(q, student)
	selected := selectSubparts(q, aligned, attempt, policy)

	if len(aligned) == 0 {
		qr.Notes = append(qr.Notes, "No answers found for this question.")
	} else if len(selected) == 0 {
		qr.Notes = append(qr.Notes, "No subpart selected by policy (first_n).")
	}

	awarded := 0.0
	for _, sid := range selected {
		sp, ok := byNormID[sid]
		if !ok {
			continue
		}

		res, err := e.scorer.Score(ctx, sp.ModelAnswer, aligned[sid], sp.Marks, choice.IsMCQ(sp.ModelAnswer))
		if err != nil {
			return model.QuestionResult{}, fmt.Errorf("subpart %s: %w", sp.ID, err)
		}

		awarded += res.Marks
		qr.Subparts[sp.ID] = model.SubpartResult{
			SemanticScore: res.Semantic,
			KeywordScore:  res.Keyword,
			Score:         round4(e.cfg.Weights.Semantic*res.Semantic + e.cfg.Weights.Keyword*res.Keyword),
			Marks:         round4(res.Marks),
		}
	}

	qr.FinalScore = round4(awarded)

	// Awarded marks are never clamped to the declared total; an
	// overshoot is reported, not corrected.
	if qr.FinalScore > qr.TotalMarks+1e-9 {
		qr.Notes = append(qr.Notes, fmt.Sprintf(
			"Awarded %.2f exceeds declared total %.2f.", qr.FinalScore, qr.TotalMarks))
	}

	return qr, nil
}

func (e *Evaluator) attemptRequired(q *model.ModelQuestion) model.AttemptRequired {
	if q.AttemptRequired != nil {
		return *q.AttemptRequired
	}
	return e.cfg.Selection.DefaultAttemptRequired
}

func (e *Evaluator) selectionPolicy(q *model.ModelQuestion) string {
	if q.SelectionPolicy != "" {
		return q.SelectionPolicy
	}
	return e.cfg.Selection.DefaultPolicy
}

// selectSubparts decides which subpart ids actually get scored. With
// policy first_n and a numeric attempt requirement, only the first N
// subparts with non-blank aligned text count: the internal-choice rule
// "attempt any N of M". Everything else scores all declared subparts.
func selectSubparts(q *model.ModelQuestion, aligned map[string]string, attempt model.AttemptRequired, policy string) []string {
	normIDs := make([]string, 0, len(q.Subparts))
	for _, sp := range q.Subparts {
		normIDs = append(normIDs, align.NormalizeID(sp.ID))
	}

	if attempt.All || policy == model.PolicyNone {
		return normIDs
	}

	if policy == model.PolicyFirstN && attempt.N > 0 {
		var present []string
		for _, id := range normIDs {
			if strings.TrimSpace(aligned[id]) != "" {
				present = append(present, id)
			}
		}
		if len(present) > attempt.N {
			present = present[:attempt.N]
		}
		return present
	}

	return normIDs
}

// foldQuestionNumber strips the "Q" prefix convention so report keys
// line up across differently labeled model papers.
func foldQuestionNumber(qnum string) string {
	s := strings.ReplaceAll(qnum, "Q", "")
	s = strings.ReplaceAll(s, "q", "")
	return strings.TrimSpace(s)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
