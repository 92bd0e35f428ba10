package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Every returned vector has unit L2 norm, so the inner product of two
// embeddings equals their cosine similarity. For a fixed model
// configuration the same input always yields the same vector.
//
// Implementations may include:
//   - Local feature hashing (no network, fully deterministic)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a unit-norm embedding for the given text.
	// Empty input is valid and yields a well-defined low-information
	// vector rather than an error.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. A single-element batch is well-defined.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the dimension of the vector index being searched.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
