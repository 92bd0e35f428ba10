package driven

// VectorIndex provides similarity search over the stored embeddings.
//
// The index is immutable once built: position i corresponds exactly to
// the i-th row of the chunk metadata table, and this positional pairing
// is the only contract retrieval relies on. Rebuilding requires
// re-encoding the full chunk set.
type VectorIndex interface {
	// Search finds the k most similar stored vectors to the query.
	// Results are sorted by descending similarity, ties broken by
	// ascending position. k is clamped to [0, Len()]; asking for more
	// neighbours than exist returns everything without error.
	Search(query []float32, k int) []VectorHit

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector dimension of the index.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the row in the paired chunk metadata table.
	// Always within [0, Len()).
	Position int

	// Similarity is the inner product of the normalised vectors,
	// i.e. cosine similarity.
	Similarity float64
}
