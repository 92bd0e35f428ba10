// Package hash provides a local, deterministic embedding service based
// on signed feature hashing.
//
// Word and word-bigram features are hashed into a fixed-dimension
// vector with a sign derived from the same hash, then L2-normalised.
// The result is not a semantic embedding in the transformer sense, but
// it is deterministic, needs no network or credentials, and gives
// overlapping texts high cosine similarity, which is what the retrieval
// tests and offline runs need.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default embedding size.
const DefaultDimensions = 256

// EmbeddingService generates embeddings by signed feature hashing.
type EmbeddingService struct {
	dim int
}

// New creates a hash embedding service. Non-positive dimensions fall
// back to DefaultDimensions.
func New(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dim: dimensions}
}

// Embed generates a unit-norm embedding for the given text. Empty or
// token-free input yields the first basis vector: a valid, fixed,
// low-information embedding rather than an error.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dim)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		vec[0] = 1
		return vec, nil
	}

	for _, tok := range tokens {
		s.addFeature(vec, tok)
	}
	// Bigrams keep word order relevant, so "acto académico" and
	// "académico acto" do not collapse onto the same vector.
	for i := 0; i+1 < len(tokens); i++ {
		s.addFeature(vec, tokens[i]+" "+tokens[i+1])
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts, preserving order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dim
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "feature-hash-v1"
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) addFeature(vec []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(s.dim))
	if sum&(1<<63) != 0 {
		vec[idx] -= 1
	} else {
		vec[idx] += 1
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
