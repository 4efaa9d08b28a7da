package embed

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Caching memoizes embedding vectors by text so repeated comparisons of
// the same answer never hit the backend twice within the TTL.
type Caching struct {
	inner Provider
	cache *gocache.Cache
}

// NewCaching wraps a provider with an in-memory TTL cache.
func NewCaching(inner Provider, ttl time.Duration) *Caching {
	return &Caching{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Name returns the underlying provider's name.
func (c *Caching) Name() string { return c.inner.Name() }

// Embed returns the cached vector when present, otherwise delegates and
// stores the result. Errors are never cached.
func (c *Caching) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, found := c.cache.Get(text); found {
		return v.([]float32), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(text, vec)
	return vec, nil
}
