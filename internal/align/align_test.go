package align

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/spatel/markwise/internal/model"
)

func question(qnum string, ids ...string) *model.ModelQuestion {
	q := &model.ModelQuestion{QuestionNumber: qnum}
	for _, id := range ids {
		q.Subparts = append(q.Subparts, model.ModelSubpart{ID: id, ModelAnswer: "x", Marks: 1})
	}
	return q
}

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("bad test document: %v", err)
	}
	return v
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(a)", "a"},
		{"A.", "a"},
		{" (B) ", "b"},
		{"Q1", "q1"},
		{"part (ii)", "part ii"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlign_LabeledSubparts(t *testing.T) {
	q := question("Q2", "a", "b")
	student := decode(t, `{"Q2": {"(a)": "first answer", "(b)": "second answer"}}`)

	got := Align(q, student)
	want := map[string]string{"a": "first answer", "b": "second answer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Align = %v, want %v", got, want)
	}
}

func TestAlign_LabelVariants(t *testing.T) {
	q := question("3", "a")

	docs := []string{
		`{"Q3": {"a": "answer"}}`,
		`{"question 3": {"a": "answer"}}`,
		`{"Question-3": {"a": "answer"}}`,
		`{"ques3": {"a": "answer"}}`,
		`{"3": {"a": "answer"}}`,
		`{"Question No. 3": {"a": "answer"}}`,
	}
	for _, doc := range docs {
		got := Align(q, decode(t, doc))
		if got["a"] != "answer" {
			t.Errorf("doc %s: got %v", doc, got)
		}
	}
}

func TestAlign_SectionedSubmission(t *testing.T) {
	q := question("Q4", "a")
	student := decode(t, `{"answers": {"Q4": {"a": "nested answer"}}, "name": "pat"}`)

	got := Align(q, student)
	if got["a"] != "nested answer" {
		t.Errorf("got %v, want nested answer under a", got)
	}
}

func TestAlign_SingleBlobFallback(t *testing.T) {
	q := question("2", "a")
	student := decode(t, `{"question 2": "a single blob of prose"}`)

	got := Align(q, student)
	want := map[string]string{"a": "a single blob of prose"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Align = %v, want %v", got, want)
	}
}

func TestAlign_BlobNeedsSingleSubpart(t *testing.T) {
	// A bare string section cannot be split across two subparts.
	q := question("2", "a", "b")
	student := decode(t, `{"question 2": "a single blob of prose"}`)

	got := Align(q, student)
	if len(got) != 0 {
		t.Errorf("Align = %v, want empty", got)
	}
}

func TestAlign_SectionNotFound(t *testing.T) {
	q := question("Q7", "a")
	student := decode(t, `{"Q1": {"a": "wrong question"}}`)

	got := Align(q, student)
	if len(got) != 0 {
		t.Errorf("Align = %v, want empty", got)
	}
}

func TestAlign_NonMapSubmission(t *testing.T) {
	q := question("Q1", "a")

	for _, doc := range []string{`"just a string"`, `[1, 2, 3]`, `42`} {
		got := Align(q, decode(t, doc))
		if len(got) != 0 {
			t.Errorf("doc %s: Align = %v, want empty", doc, got)
		}
	}
}

func TestAlign_FlattensNestedValues(t *testing.T) {
	q := question("Q1", "a")
	student := decode(t, `{"Q1": {"a": {"point1": "plants absorb light", "point2": "and fix carbon"}}}`)

	got := Align(q, student)
	want := "plants absorb light and fix carbon"
	if got["a"] != want {
		t.Errorf("got %q, want %q", got["a"], want)
	}
}

func TestAlign_IgnoresNonStringLeaves(t *testing.T) {
	q := question("Q1", "a")
	student := decode(t, `{"Q1": {"a": ["text part", 42, true, "more text"]}}`)

	got := Align(q, student)
	want := "text part more text"
	if got["a"] != want {
		t.Errorf("got %q, want %q", got["a"], want)
	}
}

func TestAlign_DeepMatchAccumulates(t *testing.T) {
	// A matching key flattens its subtree and still descends, so a
	// nested occurrence of the same id contributes a second time.
	q := question("Q1", "a")
	student := decode(t, `{"Q1": {"a": {"a": "inner", "note": "outer"}}}`)

	got := Align(q, student)
	want := "inner outer inner"
	if got["a"] != want {
		t.Errorf("got %q, want %q", got["a"], want)
	}
}

func TestAlign_SkipsUnrelatedKeys(t *testing.T) {
	q := question("Q1", "a")
	student := decode(t, `{"Q1": {"a": "real answer", "scratch": "ignore this", "b": "not asked"}}`)

	got := Align(q, student)
	want := map[string]string{"a": "real answer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Align = %v, want %v", got, want)
	}
}
