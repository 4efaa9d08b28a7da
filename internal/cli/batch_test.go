package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReportName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice.json", "alice.report.json"},
		{"bob", "bob.report.json"},
		{"sub.mission.json", "sub.mission.report.json"},
	}
	for _, tt := range tests {
		if got := reportName(tt.in); got != tt.want {
			t.Errorf("reportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListSubmissions(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := listSubmissions(dir)
	if err != nil {
		t.Fatalf("listSubmissions failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := listSubmissions(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
