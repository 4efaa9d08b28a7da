package embed

import (
	"fmt"
	"strings"
)

// NewProvider creates an embedding provider based on configuration and
// stacks the configured decorators around it: rate limiting innermost
// against the backend, then caching, so cache hits never spend rate
// budget.
func NewProvider(config Config) (Provider, error) {
	base, err := newBaseProvider(config)
	if err != nil {
		return nil, err
	}

	var p Provider = base
	if config.RequestsPerSecond > 0 {
		p = NewRateLimited(p, config.RequestsPerSecond, config.Burst)
	}
	if config.CacheTTL > 0 {
		p = NewCaching(p, config.CacheTTL)
	}
	return p, nil
}

func newBaseProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "hash", "":
		return NewHashProvider(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, hash)", config.Provider)
	}
}
