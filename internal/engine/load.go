package engine

import (
	"encoding/json"
	"fmt"

	"github.com/spatel/markwise/internal/model"
)

// InputFormatError reports a model or student document that cannot be
// parsed into the expected shape. It is fatal: evaluation never starts
// from a half-parsed document.
type InputFormatError struct {
	Doc string // "model" or "student"
	Err error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("%s document: %v", e.Doc, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// ParseModelPaper decodes the teacher's answer key. The document is
// either {"questions": [...]} or a bare question array.
func ParseModelPaper(data []byte) ([]model.ModelQuestion, error) {
	var wrapper struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Questions != nil {
		var questions []model.ModelQuestion
		if err := json.Unmarshal(wrapper.Questions, &questions); err != nil {
			return nil, &InputFormatError{Doc: "model", Err: err}
		}
		return questions, nil
	}

	var questions []model.ModelQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, &InputFormatError{Doc: "model", Err: err}
	}
	return questions, nil
}

// ParseSubmission decodes a student submission. Any valid JSON document
// is accepted; the aligner copes with the shape.
func ParseSubmission(data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InputFormatError{Doc: "student", Err: err}
	}
	return doc, nil
}
