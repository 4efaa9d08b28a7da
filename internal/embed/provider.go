// Package embed supplies embedding vectors for semantic similarity.
// The embedding model is an external collaborator consumed as a
// black-box function from text to a fixed-length vector.
package embed

import (
	"context"
	"time"
)

// Provider defines the interface for embedding backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Embed returns a fixed-length vector for the given (already
	// normalized) text. Implementations must be safe for concurrent use.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds embedding provider configuration.
type Config struct {
	// Provider name: "openai", "hash"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for a single embedding request
	Timeout time.Duration

	// CacheTTL caches vectors for repeated texts; zero disables
	CacheTTL time.Duration

	// RequestsPerSecond rate-limits API calls; zero disables
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults: the deterministic local
// provider, so the engine works without network access or credentials.
func DefaultConfig() Config {
	return Config{
		Provider: "hash",
		Timeout:  30 * time.Second,
		CacheTTL: 15 * time.Minute,
		Burst:    5,
	}
}
