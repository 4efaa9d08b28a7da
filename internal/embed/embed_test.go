package embed

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingProvider records how many Embed calls reach it.
type countingProvider struct {
	calls int32
	err   error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return nil, p.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestHashProvider_Deterministic(t *testing.T) {
	p := NewHashProvider()
	ctx := context.Background()

	a1, err := p.Embed(ctx, "photosynthesis converts light energy")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	a2, _ := p.Embed(ctx, "photosynthesis converts light energy")

	if len(a1) != hashDim {
		t.Fatalf("vector length %d, want %d", len(a1), hashDim)
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("vectors differ at index %d: %v vs %v", i, a1[i], a2[i])
		}
	}
}

func TestHashProvider_Normalized(t *testing.T) {
	p := NewHashProvider()

	vec, _ := p.Embed(context.Background(), "gravity bends spacetime")

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sumSq)-1.0) > 1e-5 {
		t.Errorf("magnitude = %v, want 1.0", math.Sqrt(sumSq))
	}
}

func TestHashProvider_Empty(t *testing.T) {
	p := NewHashProvider()

	vec, err := p.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != hashDim {
		t.Fatalf("vector length %d, want %d", len(vec), hashDim)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, got %v at index %d", v, i)
		}
	}
}

func TestHashProvider_DistinctTexts(t *testing.T) {
	p := NewHashProvider()
	ctx := context.Background()

	a, _ := p.Embed(ctx, "apple banana")
	b, _ := p.Embed(ctx, "quantum flux")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

func TestLazy_BuildsOnce(t *testing.T) {
	var builds int32
	lazy := NewLazy(func() (Provider, error) {
		atomic.AddInt32(&builds, 1)
		return NewHashProvider(), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lazy.Embed(context.Background(), "concurrent text"); err != nil {
				t.Errorf("Embed failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("provider built %d times, want 1", n)
	}
	if lazy.Name() != "hash" {
		t.Errorf("Name = %q, want %q", lazy.Name(), "hash")
	}
}

func TestLazy_StickyError(t *testing.T) {
	buildErr := errors.New("no credentials")
	var builds int32
	lazy := NewLazy(func() (Provider, error) {
		atomic.AddInt32(&builds, 1)
		return nil, buildErr
	})

	for i := 0; i < 3; i++ {
		if _, err := lazy.Embed(context.Background(), "text"); !errors.Is(err, buildErr) {
			t.Fatalf("call %d: err = %v, want %v", i, err, buildErr)
		}
	}
	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("failed constructor retried: built %d times, want 1", n)
	}
	if lazy.Name() != "lazy" {
		t.Errorf("Name = %q, want %q", lazy.Name(), "lazy")
	}
}

func TestCaching_HitSkipsBackend(t *testing.T) {
	inner := &countingProvider{}
	c := NewCaching(inner, time.Minute)
	ctx := context.Background()

	v1, err := c.Embed(ctx, "repeated answer")
	if err != nil {
		t.Fatalf("first Embed failed: %v", err)
	}
	v2, err := c.Embed(ctx, "repeated answer")
	if err != nil {
		t.Fatalf("second Embed failed: %v", err)
	}

	if atomic.LoadInt32(&inner.calls) != 1 {
		t.Errorf("backend called %d times, want 1", inner.calls)
	}
	if len(v1) != len(v2) || v1[0] != v2[0] {
		t.Errorf("cached vector differs: %v vs %v", v1, v2)
	}

	if _, err := c.Embed(ctx, "different answer"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if atomic.LoadInt32(&inner.calls) != 2 {
		t.Errorf("backend called %d times, want 2", inner.calls)
	}
}

func TestCaching_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("backend down")}
	c := NewCaching(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Embed(ctx, "text"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if atomic.LoadInt32(&inner.calls) != 2 {
		t.Errorf("backend called %d times, want 2 (errors must not be cached)", inner.calls)
	}
}

func TestRateLimited_ContextCancel(t *testing.T) {
	inner := &countingProvider{}
	// One request per hour: the second call must block until cancel.
	r := NewRateLimited(inner, 1.0/3600, 1)

	if _, err := r.Embed(context.Background(), "first"); err != nil {
		t.Fatalf("first Embed failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Embed(ctx, "second"); err == nil {
		t.Fatal("expected context error while rate limited")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: "hash"})
	if err != nil {
		t.Fatalf("NewProvider(hash) failed: %v", err)
	}
	if p.Name() != "hash" {
		t.Errorf("Name = %q, want %q", p.Name(), "hash")
	}

	// Empty provider name defaults to the local backend.
	if _, err := NewProvider(Config{}); err != nil {
		t.Errorf("NewProvider(default) failed: %v", err)
	}

	if _, err := NewProvider(Config{Provider: "word2vec"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProvider_Decorated(t *testing.T) {
	p, err := NewProvider(Config{
		Provider:          "hash",
		CacheTTL:          time.Minute,
		RequestsPerSecond: 100,
		Burst:             5,
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	// Decorators pass the name through and embedding still works.
	if p.Name() != "hash" {
		t.Errorf("Name = %q, want %q", p.Name(), "hash")
	}
	if _, err := p.Embed(context.Background(), "decorated call"); err != nil {
		t.Errorf("Embed failed: %v", err)
	}
}
