package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ModelQuestion is one question from the teacher-authored answer key.
type ModelQuestion struct {
	QuestionNumber  string           `json:"question_number"`
	TotalMarks      *float64         `json:"total_marks,omitempty"` // declared total wins over the subpart sum
	AttemptRequired *AttemptRequired `json:"attempt_required,omitempty"`
	SelectionPolicy string           `json:"selection_policy,omitempty"` // "none" or "first_n"
	Subparts        []ModelSubpart   `json:"subparts"`
}

// MaxMarks returns the question's authoritative maximum: the declared
// total_marks when present, otherwise the sum of the subpart marks.
func (q *ModelQuestion) MaxMarks() float64 {
	if q.TotalMarks != nil {
		return *q.TotalMarks
	}
	sum := 0.0
	for _, sp := range q.Subparts {
		sum += sp.Marks
	}
	return sum
}

// ModelSubpart is the smallest gradable unit of a question.
type ModelSubpart struct {
	ID           string  `json:"id"`
	QuestionText string  `json:"question_text,omitempty"`
	ModelAnswer  string  `json:"model_answer"`
	Marks        float64 `json:"marks"`
}

// AttemptRequired encodes the exam rule "answer all subparts" vs.
// "answer any N". On the wire it is either the string "all" or a
// positive integer.
type AttemptRequired struct {
	All bool
	N   int
}

// AttemptAll is the "every subpart is required" value.
func AttemptAll() AttemptRequired { return AttemptRequired{All: true} }

// AttemptN requires n subparts to be attempted.
func AttemptN(n int) AttemptRequired { return AttemptRequired{N: n} }

func (a AttemptRequired) String() string {
	if a.All {
		return "all"
	}
	return fmt.Sprintf("%d", a.N)
}

// MarshalJSON writes "all" or the bare integer.
func (a AttemptRequired) MarshalJSON() ([]byte, error) {
	if a.All {
		return json.Marshal("all")
	}
	return json.Marshal(a.N)
}

// UnmarshalJSON accepts "all" (case-insensitive handled upstream by exam
// authors consistently using lowercase) or a positive integer.
func (a *AttemptRequired) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "all" {
			return fmt.Errorf("attempt_required: unknown value %q", s)
		}
		*a = AttemptRequired{All: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("attempt_required: expected \"all\" or integer, got %s", string(data))
	}
	if n < 1 {
		return fmt.Errorf("attempt_required: must be positive, got %d", n)
	}
	*a = AttemptRequired{N: n}
	return nil
}

// MarshalYAML mirrors the JSON form for config files.
func (a AttemptRequired) MarshalYAML() (interface{}, error) {
	if a.All {
		return "all", nil
	}
	return a.N, nil
}

// UnmarshalYAML accepts "all" or a positive integer.
func (a *AttemptRequired) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		if s != "all" {
			return fmt.Errorf("attempt_required: unknown value %q", s)
		}
		*a = AttemptRequired{All: true}
		return nil
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("attempt_required: expected \"all\" or integer")
	}
	if n < 1 {
		return fmt.Errorf("attempt_required: must be positive, got %d", n)
	}
	*a = AttemptRequired{N: n}
	return nil
}

// Selection policies recognized for internal-choice questions.
const (
	PolicyNone   = "none"    // score every declared subpart
	PolicyFirstN = "first_n" // score the first N answered subparts
)

// SubpartResult holds the scoring breakdown for a single subpart.
type SubpartResult struct {
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`
	Score         float64 `json:"score"` // weighted blend of the two
	Marks         float64 `json:"marks"` // awarded, quarter-mark rounded
}

// QuestionPolicy echoes the policy under which a question was scored so
// that a report is auditable without the original configuration.
type QuestionPolicy struct {
	MissingSubpartPolicy string          `json:"missing_subpart_policy"`
	ExtraAttemptPolicy   string          `json:"extra_attempt_policy"`
	WeightSemantic       float64         `json:"weight_semantic"`
	WeightKeyword        float64         `json:"weight_keyword"`
	AttemptRequired      AttemptRequired `json:"attempt_required"`
}

// QuestionResult is the per-question section of the report.
type QuestionResult struct {
	Policy     QuestionPolicy           `json:"policy"`
	Subparts   map[string]SubpartResult `json:"subparts"`
	TotalMarks float64                  `json:"total_marks"`
	FinalScore float64                  `json:"final_score"`
	Notes      []string                 `json:"notes"`
}

// EvaluationReport is the complete result of one evaluation run.
type EvaluationReport struct {
	TotalAwarded float64                   `json:"total_awarded"`
	TotalMax     float64                   `json:"total_max"`
	Percentage   float64                   `json:"percentage"`
	ByQuestion   map[string]QuestionResult `json:"by_question"`
}
