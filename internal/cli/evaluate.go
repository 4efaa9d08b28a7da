package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spatel/markwise/internal/engine"
	"github.com/spatel/markwise/internal/model"
	"github.com/spf13/cobra"
)

var (
	modelPath     string
	studentPath   string
	outJSON       string
	showSummary   bool
	evalTimeout   time.Duration
	embedProvider string
	embedModel    string
	noCache       bool
	rateLimit     float64
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one student submission against a model answer key",
	Long: `Evaluate scores a single submission:
- Locate each question's answers inside the submission JSON
- Compare them against the model answers (keyword overlap + embeddings)
- Apply MCQ / subjective scoring policy and internal-choice selection
- Write an auditable JSON report with per-subpart breakdowns

Example:
  markwise evaluate -m model.json -s student.json
  markwise evaluate -m model.json -s student.json -o report.json --summary
  markwise evaluate -m model.json -s student.json --embed-provider openai`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&modelPath, "model", "m", "", "path to model answers JSON file (required)")
	evaluateCmd.Flags().StringVarP(&studentPath, "student", "s", "", "path to student answers JSON file (required)")
	evaluateCmd.Flags().StringVarP(&outJSON, "out", "o", "evaluation_report.json", "output JSON report path")
	evaluateCmd.Flags().BoolVar(&showSummary, "summary", true, "print a question-wise summary to stdout")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 5*time.Minute, "overall evaluation timeout")

	// Embedding flags
	evaluateCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding provider (openai, hash; default from config)")
	evaluateCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name (provider-specific)")
	evaluateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	evaluateCmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "max embedding API requests per second (0 = unlimited)")

	_ = evaluateCmd.MarkFlagRequired("model")
	_ = evaluateCmd.MarkFlagRequired("student")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Model paper: %s\n", modelPath)
		fmt.Fprintf(os.Stderr, "Submission:  %s\n", studentPath)
		fmt.Fprintf(os.Stderr, "Embeddings:  %s\n", cfg.Semantic.Provider)
		fmt.Fprintln(os.Stderr)
	}

	ev, err := engine.New(cfg)
	if err != nil {
		return err
	}

	modelDoc, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("read model paper: %w", err)
	}
	studentDoc, err := os.ReadFile(studentPath)
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}

	report, err := ev.EvaluateDocuments(ctx, modelDoc, studentDoc)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if err := writeReport(report, outJSON); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", outJSON)
	}

	if showSummary {
		printSummary(os.Stdout, report)
	}
	return nil
}

// buildConfig loads configuration and applies evaluate/batch flag
// overrides shared by both commands.
func buildConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if embedProvider != "" {
		cfg.Semantic.Provider = embedProvider
	}
	if embedModel != "" {
		cfg.Semantic.ModelName = embedModel
	}
	if noCache {
		cfg.Semantic.CacheTTL = 0
	}
	if rateLimit > 0 {
		cfg.Semantic.RequestsPerSecond = rateLimit
	}

	if cfg.Semantic.Provider == "openai" && cfg.Semantic.APIKey == "" {
		cfg.Semantic.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Semantic.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeReport(report *model.EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
