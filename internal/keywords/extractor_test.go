package keywords

import (
	"reflect"
	"testing"
)

func TestRankExtractor_TopK_Ordering(t *testing.T) {
	e := NewRankExtractor()

	// "energy" is frequent and early, so it outranks the later
	// single-occurrence words.
	got := e.TopK("energy energy energy light sun", 5)
	want := []string{"energy", "light", "sun"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopK = %v, want %v", got, want)
	}
}

func TestRankExtractor_TopK_Truncates(t *testing.T) {
	e := NewRankExtractor()

	got := e.TopK("alpha beta gamma delta", 2)
	if len(got) != 2 {
		t.Fatalf("TopK returned %d candidates, want 2", len(got))
	}
}

func TestRankExtractor_TopK_FunctionWords(t *testing.T) {
	e := NewRankExtractor()

	got := e.TopK("the energy of the sun", 10)
	want := []string{"energy", "sun"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopK = %v, want %v", got, want)
	}
}

func TestRankExtractor_TopK_Empty(t *testing.T) {
	e := NewRankExtractor()

	if got := e.TopK("", 5); got != nil {
		t.Errorf("TopK(\"\") = %v, want nil", got)
	}
	if got := e.TopK("some text", 0); got != nil {
		t.Errorf("TopK(k=0) = %v, want nil", got)
	}
	if got := e.TopK("the of and", 5); len(got) != 0 {
		t.Errorf("TopK(function words only) = %v, want empty", got)
	}
}

func TestFuzzyRatio(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"", "", 1.0, 1.0},
		{"word", "", 0.0, 0.0},
		{"identical", "identical", 1.0, 1.0},
		{"photosynthesis", "photosynthesys", 0.88, 1.0},
		{"force", "mass", 0.0, 0.0},
	}

	for _, tt := range tests {
		got := fuzzyRatio(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("fuzzyRatio(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
