package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/spatel/markwise/internal/model"
)

// stubGrader returns a fixed report or error.
type stubGrader struct {
	report *model.EvaluationReport
	err    error
}

func (g *stubGrader) Evaluate(context.Context, []model.ModelQuestion, any) (*model.EvaluationReport, error) {
	return g.report, g.err
}

func TestGradeJob_Execute(t *testing.T) {
	want := &model.EvaluationReport{TotalAwarded: 7.5, TotalMax: 10, Percentage: 75}
	job := &GradeJob{
		Name:    "alice.json",
		Grader:  &stubGrader{report: want},
		Student: map[string]any{},
	}

	res := job.Execute(context.Background())
	gr, ok := res.(*GradeResult)
	if !ok {
		t.Fatalf("result type %T, want *GradeResult", res)
	}
	if gr.GetError() != nil {
		t.Fatalf("unexpected error: %v", gr.GetError())
	}
	if gr.Name != "alice.json" {
		t.Errorf("Name = %q, want alice.json", gr.Name)
	}
	if gr.Report != want {
		t.Errorf("Report = %+v, want the grader's report", gr.Report)
	}
}

func TestGradeJob_ExecuteError(t *testing.T) {
	gradeErr := errors.New("embedding backend down")
	job := &GradeJob{
		Name:   "bob.json",
		Grader: &stubGrader{err: gradeErr},
	}

	res := job.Execute(context.Background())
	if !errors.Is(res.GetError(), gradeErr) {
		t.Errorf("GetError = %v, want %v", res.GetError(), gradeErr)
	}
}

func TestGradeJobs_ThroughPool(t *testing.T) {
	p := NewPool(3)
	p.Start()

	names := []string{"a.json", "b.json", "c.json", "d.json"}
	for _, name := range names {
		p.Submit(&GradeJob{
			Name:   name,
			Grader: &stubGrader{report: &model.EvaluationReport{TotalMax: 10}},
		})
	}

	results := p.Wait()
	if len(results) != len(names) {
		t.Fatalf("got %d results, want %d", len(results), len(names))
	}

	seen := map[string]bool{}
	for _, r := range results {
		gr := r.(*GradeResult)
		if gr.Err != nil {
			t.Errorf("%s: unexpected error %v", gr.Name, gr.Err)
		}
		seen[gr.Name] = true
	}
	for _, name := range names {
		if !seen[name] {
			t.Errorf("no result for %s", name)
		}
	}
}
