package embed

import (
	"context"
	"sync"
)

// Lazy defers provider construction until the first Embed call and
// guarantees it happens exactly once per process, even under concurrent
// evaluations. After construction the underlying provider is treated as
// a stateless, thread-safe function and shared by all callers.
type Lazy struct {
	build func() (Provider, error)

	mu       sync.Mutex
	provider Provider
	err      error
	done     bool
}

// NewLazy wraps a provider constructor.
func NewLazy(build func() (Provider, error)) *Lazy {
	return &Lazy{build: build}
}

// Name returns the underlying provider's name, or "lazy" before the
// first successful construction.
func (l *Lazy) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done && l.err == nil {
		return l.provider.Name()
	}
	return "lazy"
}

// Embed constructs the provider on first use, then delegates.
// A construction failure is sticky: every subsequent call returns the
// same error rather than retrying a misconfigured backend.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	p, err := l.get()
	if err != nil {
		return nil, err
	}
	return p.Embed(ctx, text)
}

func (l *Lazy) get() (Provider, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.provider, l.err = l.build()
		l.done = true
	}
	return l.provider, l.err
}
