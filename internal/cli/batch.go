package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spatel/markwise/internal/engine"
	"github.com/spatel/markwise/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <model.json> <submissions-dir>",
	Short: "Evaluate a directory of submissions in parallel",
	Long: `Batch grades every submission JSON in a directory against one
model answer key:
- Submissions are evaluated concurrently with a worker pool
- The embedding provider is shared; its cache and rate limit apply
  across the whole batch
- One report is written per submission

Example:
  markwise batch model.json ./submissions
  markwise batch model.json ./submissions --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./markwise-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Embedding flags shared with evaluate
	batchCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding provider (openai, hash; default from config)")
	batchCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name (provider-specific)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "max embedding API requests per second (0 = unlimited)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	modelFile, submissionsDir := args[0], args[1]

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ev, err := engine.New(cfg)
	if err != nil {
		return err
	}

	modelDoc, err := os.ReadFile(modelFile)
	if err != nil {
		return fmt.Errorf("read model paper: %w", err)
	}
	questions, err := engine.ParseModelPaper(modelDoc)
	if err != nil {
		return err
	}

	submissions, err := listSubmissions(submissionsDir)
	if err != nil {
		return err
	}
	if len(submissions) == 0 {
		return fmt.Errorf("no .json submissions found in %s", submissionsDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Model paper:  %s\n", modelFile)
	fmt.Fprintf(os.Stderr, "Submissions:  %d\n", len(submissions))
	fmt.Fprintf(os.Stderr, "Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir:   %s\n", outputDir)
	fmt.Fprintln(os.Stderr)

	pool := worker.NewPoolWithContext(ctx, concurrency)
	pool.Start()

	parseFailures := 0
	for _, path := range submissions {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), err)
			parseFailures++
			continue
		}
		student, err := engine.ParseSubmission(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), err)
			parseFailures++
			continue
		}
		pool.Submit(&worker.GradeJob{
			Name:      filepath.Base(path),
			Questions: questions,
			Student:   student,
			Grader:    ev,
		})
	}

	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch timed out: %w", err)
	}

	succeeded := 0
	failed := parseFailures
	for _, r := range results {
		gr := r.(*worker.GradeResult)
		if gr.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", gr.Name, gr.Err)
			failed++
			continue
		}
		outPath := filepath.Join(outputDir, reportName(gr.Name))
		if err := writeReport(gr.Report, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", gr.Name, err)
			failed++
			continue
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %.2f/%.1f (%.2f%%)\n",
				gr.Name, gr.Report.TotalAwarded, gr.Report.TotalMax, gr.Report.Percentage)
		}
	}

	fmt.Fprintf(os.Stderr, "\nGraded %d submissions, %d failed\n", succeeded, failed)
	if failed > 0 {
		return fmt.Errorf("%d submissions failed", failed)
	}
	return nil
}

// listSubmissions returns the .json files directly inside dir, sorted.
func listSubmissions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read submissions directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func reportName(submissionName string) string {
	base := strings.TrimSuffix(submissionName, ".json")
	return base + ".report.json"
}

var _ worker.Grader = (*engine.Evaluator)(nil)
