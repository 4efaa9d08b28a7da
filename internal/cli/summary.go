package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spatel/markwise/internal/model"
)

// printSummary renders the question-wise breakdown a teacher skims
// before opening the full JSON report.
func printSummary(w io.Writer, report *model.EvaluationReport) {
	line := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "EVALUATION SUMMARY")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Total Awarded: %.2f / %.1f\n", report.TotalAwarded, report.TotalMax)
	fmt.Fprintf(w, "Percentage: %.2f%%\n", report.Percentage)
	fmt.Fprintln(w, "\nQuestion-wise Breakdown:")
	fmt.Fprintln(w, thin)

	for _, qno := range sortedQuestionKeys(report.ByQuestion) {
		q := report.ByQuestion[qno]
		fmt.Fprintf(w, "\nQuestion %s:\n", qno)
		fmt.Fprintf(w, "  Score: %.2f / %.1f\n", q.FinalScore, q.TotalMarks)
		fmt.Fprintln(w, "  Subparts:")

		spIDs := make([]string, 0, len(q.Subparts))
		for id := range q.Subparts {
			spIDs = append(spIDs, id)
		}
		sort.Strings(spIDs)
		for _, id := range spIDs {
			sp := q.Subparts[id]
			if sp.Marks > 0 {
				fmt.Fprintf(w, "    %s: %.2f marks (sem: %.2f, kw: %.2f)\n",
					id, sp.Marks, sp.SemanticScore, sp.KeywordScore)
			}
		}
		for _, note := range q.Notes {
			fmt.Fprintf(w, "  Note: %s\n", note)
		}
	}

	fmt.Fprintf(w, "\n%s\n", line)
}

// sortedQuestionKeys orders question numbers numerically where
// possible, lexically otherwise.
func sortedQuestionKeys(byQuestion map[string]model.QuestionResult) []string {
	keys := make([]string, 0, len(byQuestion))
	for k := range byQuestion {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		if errI == nil && errJ == nil {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
	return keys
}
