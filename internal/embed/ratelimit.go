package embed

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited bounds the rate of embedding calls against a hosted
// backend so batch evaluations of many submissions stay inside the
// provider's request quota.
type RateLimited struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps a provider with a token-bucket limiter.
func NewRateLimited(inner Provider, requestsPerSecond float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = 5
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the underlying provider's name.
func (r *RateLimited) Name() string { return r.inner.Name() }

// Embed waits for rate limit clearance, then delegates. Cancellation of
// the context aborts the wait.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}
