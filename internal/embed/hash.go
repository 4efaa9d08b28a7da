package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// hashDim is the fixed vector length of the local provider.
const hashDim = 512

// HashProvider is a deterministic, offline embedding backend: a
// hashed bag-of-words over tokens and token bigrams, L2-normalized.
// It captures lexical overlap rather than meaning, which is enough for
// air-gapped use and for reproducible tests; swap in a hosted provider
// for production-quality semantics.
type HashProvider struct{}

// NewHashProvider creates the local provider.
func NewHashProvider() *HashProvider { return &HashProvider{} }

// Name returns the provider name.
func (p *HashProvider) Name() string { return "hash" }

// Embed maps text to a fixed-length vector. Never fails and ignores the
// context; it exists to satisfy the Provider contract.
func (p *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, hashDim)
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return vec, nil
	}

	for _, t := range tokens {
		vec[bucket(t)] += 1.0
	}
	// Bigrams give a little word-order sensitivity.
	for i := 0; i+1 < len(tokens); i++ {
		vec[bucket(tokens[i]+" "+tokens[i+1])] += 0.5
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq > 0 {
		inv := float32(1.0 / math.Sqrt(sumSq))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

func bucket(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % hashDim)
}
