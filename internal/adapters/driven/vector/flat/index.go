// Package flat provides an exact inner-product vector index.
//
// Vectors are normalised on insertion, so inner product equals cosine
// similarity. Search is brute force over all stored vectors; the corpus
// is institutional regulations and fits comfortably in memory.
package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// File format constants.
const (
	magic       = "NVIF" // norma vector index file
	fileVersion = uint32(1)
)

// Index is a flat inner-product search structure. It is immutable once
// built and safe for concurrent reads.
type Index struct {
	dim     int
	vectors [][]float32
}

// Build constructs an index from the given vectors. Every vector must
// have the same dimension; each is L2-normalised on insertion (a no-op
// for already normalised input).
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimension vector", domain.ErrInvalidInput)
	}

	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrInvalidInput, i, len(v), dim)
		}
		stored[i] = normalize(v)
	}

	return &Index{dim: dim, vectors: stored}, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimensions returns the vector dimension, or 0 for an empty index.
func (ix *Index) Dimensions() int {
	return ix.dim
}

// Search returns the k nearest stored vectors to the query, sorted by
// descending similarity with ties broken by ascending position. k is
// clamped to [0, Len()].
func (ix *Index) Search(query []float32, k int) []driven.VectorHit {
	if k <= 0 || len(ix.vectors) == 0 || len(query) != ix.dim {
		return nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	q := normalize(query)
	hits := make([]driven.VectorHit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = driven.VectorHit{Position: i, Similarity: dot(q, v)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].Position < hits[b].Position
	})

	return hits[:k]
}

// Save writes the index to path. The file is written to a temporary
// sibling first and renamed into place, so readers never observe a
// partially written index.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := ix.write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing index file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing index file: %w", err)
	}
	return nil
}

func (ix *Index) write(w io.Writer) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	header := []uint32{fileVersion, uint32(ix.dim), uint32(len(ix.vectors))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, vec := range ix.vectors {
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return err
		}
	}
	return nil
}

// Load reads an index from path. A missing file yields
// domain.ErrIndexNotFound; a truncated or malformed file yields
// domain.ErrCorruptIndex. Both let callers disable retrieval instead of
// crashing.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	ix, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptIndex, path, err)
	}
	return ix, nil
}

func read(r io.Reader) (*Index, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}
	if string(head) != magic {
		return nil, fmt.Errorf("bad magic %q", head)
	}

	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported version %d", version)
	}
	if count > 0 && dim == 0 {
		return nil, errors.New("zero dimension with non-zero count")
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("reading vector %d: %w", i, err)
		}
		vectors[i] = vec
	}

	return &Index{dim: int(dim), vectors: vectors}, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return append([]float32(nil), v...)
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
