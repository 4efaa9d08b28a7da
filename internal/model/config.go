package model

import (
	"fmt"
	"time"
)

// Config holds every knob the scoring engine recognizes. Each field has a
// documented default; Validate rejects configurations the engine cannot
// run with before any evaluation starts.
type Config struct {
	Weights      WeightConfig    `yaml:"weights" mapstructure:"weights"`
	Thresholds   ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`
	Semantic     SemanticConfig  `yaml:"semantic" mapstructure:"semantic"`
	TextCleaning CleaningConfig  `yaml:"text_cleaning" mapstructure:"text_cleaning"`
	Keywords     KeywordConfig   `yaml:"keywords" mapstructure:"keywords"`
	Selection    SelectionConfig `yaml:"selection" mapstructure:"selection"`
}

// WeightConfig blends the two comparison signals. The weights are not
// required to sum to 1.
type WeightConfig struct {
	Semantic float64 `yaml:"semantic" mapstructure:"semantic"`
	Keyword  float64 `yaml:"keyword" mapstructure:"keyword"`
}

// ThresholdConfig carries the scoring policy cutoffs.
type ThresholdConfig struct {
	// MinPartialScore is the hard floor: a combined score below it
	// awards zero marks.
	MinPartialScore float64 `yaml:"min_partial_score" mapstructure:"min_partial_score"`

	// MCQMinCorrectScore is the semantic similarity an MCQ choice must
	// reach to earn full marks.
	MCQMinCorrectScore float64 `yaml:"mcq_min_correct_score" mapstructure:"mcq_min_correct_score"`

	// MinLengthRatio is how short a student answer may be, relative to
	// the model answer's normalized token count, before the length
	// penalty kicks in. Zero disables the penalty.
	MinLengthRatio float64 `yaml:"min_length_ratio" mapstructure:"min_length_ratio"`

	// LengthPenaltyStrength shapes the penalty curve: 1.0 is linear,
	// larger values punish short answers harder.
	LengthPenaltyStrength float64 `yaml:"length_penalty_strength" mapstructure:"length_penalty_strength"`
}

// SemanticConfig configures the embedding-based similarity scorer.
type SemanticConfig struct {
	// Provider selects the embedding backend: "openai" or "hash".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// ModelName is the embedding model identifier (provider-specific).
	ModelName string `yaml:"model_name" mapstructure:"model_name"`

	// RescaleToUnit maps cosine similarity from [-1,1] to [0,1]
	// via (cos+1)/2 before clamping.
	RescaleToUnit bool `yaml:"rescale_to_unit" mapstructure:"rescale_to_unit"`

	// APIKey for hosted providers. Usually supplied via environment.
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers).
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout bounds a single embedding call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// CacheTTL is how long embedding vectors stay cached. Zero disables
	// the cache.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// RequestsPerSecond rate-limits embedding API calls. Zero disables
	// the limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CleaningConfig controls the text normalization pipeline. Lowercasing,
// punctuation stripping, and whitespace collapsing are listed for
// completeness but the pipeline always performs them; the remaining
// steps are genuinely optional.
type CleaningConfig struct {
	Lowercase          bool `yaml:"lowercase" mapstructure:"lowercase"`
	StripPunct         bool `yaml:"strip_punct" mapstructure:"strip_punct"`
	CollapseSpace      bool `yaml:"collapse_space" mapstructure:"collapse_space"`
	RemoveStopwords    bool `yaml:"remove_stopwords" mapstructure:"remove_stopwords"`
	ApplyStemming      bool `yaml:"apply_stemming" mapstructure:"apply_stemming"`
	ApplyLemmatization bool `yaml:"apply_lemmatization" mapstructure:"apply_lemmatization"`
	NormalizeNumbers   bool `yaml:"normalize_numbers" mapstructure:"normalize_numbers"`
}

// KeywordConfig configures keyword extraction and matching.
type KeywordConfig struct {
	TopK           int     `yaml:"top_k" mapstructure:"top_k"`
	MinLen         int     `yaml:"minlen" mapstructure:"minlen"`
	UseFuzzy       bool    `yaml:"use_fuzzy" mapstructure:"use_fuzzy"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// SelectionConfig supplies defaults for questions that do not declare
// their own attempt policy.
type SelectionConfig struct {
	DefaultPolicy          string          `yaml:"default_policy" mapstructure:"default_policy"`
	DefaultAttemptRequired AttemptRequired `yaml:"default_attempt_required" mapstructure:"default_attempt_required"`
}

// DefaultConfig returns the balanced grading profile.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightConfig{
			Semantic: 0.8,
			Keyword:  0.2,
		},
		Thresholds: ThresholdConfig{
			MinPartialScore:       0.20,
			MCQMinCorrectScore:    0.60,
			MinLengthRatio:        0.15,
			LengthPenaltyStrength: 0.4,
		},
		Semantic: SemanticConfig{
			Provider:          "hash",
			ModelName:         "text-embedding-3-small",
			RescaleToUnit:     true,
			Timeout:           30 * time.Second,
			CacheTTL:          15 * time.Minute,
			RequestsPerSecond: 0,
			Burst:             5,
		},
		TextCleaning: CleaningConfig{
			Lowercase:          true,
			StripPunct:         true,
			CollapseSpace:      true,
			RemoveStopwords:    true,
			ApplyStemming:      false,
			ApplyLemmatization: false,
			NormalizeNumbers:   false,
		},
		Keywords: KeywordConfig{
			TopK:           15,
			MinLen:         3,
			UseFuzzy:       true,
			FuzzyThreshold: 0.88,
		},
		Selection: SelectionConfig{
			DefaultPolicy:          PolicyNone,
			DefaultAttemptRequired: AttemptAll(),
		},
	}
}

// ConfigError reports a configuration value the engine refuses to start
// with. It is fatal at load time, never per evaluation call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks every recognized option eagerly so that missing or
// out-of-range values fail at startup rather than as silent zero scores.
func (c *Config) Validate() error {
	if c.Weights.Semantic < 0 || c.Weights.Keyword < 0 {
		return &ConfigError{Field: "weights", Reason: "weights must be non-negative"}
	}
	if c.Weights.Semantic == 0 && c.Weights.Keyword == 0 {
		return &ConfigError{Field: "weights", Reason: "at least one weight must be positive"}
	}
	if c.Thresholds.MinPartialScore < 0 || c.Thresholds.MinPartialScore > 1 {
		return &ConfigError{Field: "thresholds.min_partial_score", Reason: "must be in [0,1]"}
	}
	if c.Thresholds.MCQMinCorrectScore < 0 || c.Thresholds.MCQMinCorrectScore > 1 {
		return &ConfigError{Field: "thresholds.mcq_min_correct_score", Reason: "must be in [0,1]"}
	}
	if c.Thresholds.MinLengthRatio < 0 {
		return &ConfigError{Field: "thresholds.min_length_ratio", Reason: "must not be negative"}
	}
	if c.Thresholds.LengthPenaltyStrength < 0 {
		return &ConfigError{Field: "thresholds.length_penalty_strength", Reason: "must not be negative"}
	}
	switch c.Semantic.Provider {
	case "openai", "hash":
	default:
		return &ConfigError{Field: "semantic.provider", Reason: fmt.Sprintf("unknown provider %q (supported: openai, hash)", c.Semantic.Provider)}
	}
	if c.Keywords.TopK < 1 {
		return &ConfigError{Field: "keywords.top_k", Reason: "must be at least 1"}
	}
	if c.Keywords.MinLen < 1 {
		return &ConfigError{Field: "keywords.minlen", Reason: "must be at least 1"}
	}
	if c.Keywords.FuzzyThreshold < 0 || c.Keywords.FuzzyThreshold > 1 {
		return &ConfigError{Field: "keywords.fuzzy_threshold", Reason: "must be in [0,1]"}
	}
	switch c.Selection.DefaultPolicy {
	case PolicyNone, PolicyFirstN:
	default:
		return &ConfigError{Field: "selection.default_policy", Reason: fmt.Sprintf("unknown policy %q (supported: none, first_n)", c.Selection.DefaultPolicy)}
	}
	if !c.Selection.DefaultAttemptRequired.All && c.Selection.DefaultAttemptRequired.N < 1 {
		return &ConfigError{Field: "selection.default_attempt_required", Reason: "must be \"all\" or a positive integer"}
	}
	return nil
}
