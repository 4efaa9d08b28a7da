// Package semantic scores the meaning-level closeness of two answers
// using an injected embedding provider.
package semantic

import (
	"context"
	"fmt"
	"math"

	"github.com/spatel/markwise/internal/embed"
	"github.com/spatel/markwise/internal/textnorm"
)

// Scorer computes embedding-based similarity in [0,1]. It owns only the
// pre/post-processing and the numeric contract; the embedding model
// itself is a black box behind embed.Provider.
type Scorer struct {
	provider embed.Provider
	norm     textnorm.Options
	rescale  bool
}

// NewScorer creates a similarity scorer. With rescale set, raw cosine
// similarity in [-1,1] is mapped to [0,1] via (cos+1)/2.
func NewScorer(provider embed.Provider, norm textnorm.Options, rescale bool) *Scorer {
	return &Scorer{provider: provider, norm: norm, rescale: rescale}
}

// Similarity normalizes both texts and returns their similarity rounded
// to 4 decimal places. Either text normalizing to empty yields 0 without
// touching the provider.
func (s *Scorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	if a == "" || b == "" {
		return 0.0, nil
	}

	na := textnorm.Normalize(a, s.norm)
	nb := textnorm.Normalize(b, s.norm)
	if na == "" || nb == "" {
		return 0.0, nil
	}

	va, err := s.provider.Embed(ctx, na)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	vb, err := s.provider.Embed(ctx, nb)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}

	sim := cosine(va, vb)
	if s.rescale {
		sim = (sim + 1.0) / 2.0
	}
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return math.Round(sim*10000) / 10000, nil
}

// cosine returns the cosine of the angle between two vectors, 0 when
// either has zero magnitude or the lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
