package worker

import (
	"context"

	"github.com/spatel/markwise/internal/model"
)

// Grader evaluates one parsed submission against the model paper.
type Grader interface {
	Evaluate(ctx context.Context, questions []model.ModelQuestion, student any) (*model.EvaluationReport, error)
}

// GradeJob evaluates a single student submission.
type GradeJob struct {
	// Name identifies the submission, typically the source filename.
	Name      string
	Questions []model.ModelQuestion
	Student   any
	Grader    Grader
}

// Execute runs the evaluation.
func (j *GradeJob) Execute(ctx context.Context) Result {
	report, err := j.Grader.Evaluate(ctx, j.Questions, j.Student)
	return &GradeResult{
		Name:   j.Name,
		Report: report,
		Err:    err,
	}
}

// GradeResult pairs a submission with its report or error.
type GradeResult struct {
	Name   string
	Report *model.EvaluationReport
	Err    error
}

// GetError implements Result.
func (r *GradeResult) GetError() error { return r.Err }
