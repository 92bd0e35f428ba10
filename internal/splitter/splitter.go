// Package splitter cuts raw document text into overlapping fragments
// ready for encoding and indexing.
package splitter

import (
	"strings"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// DefaultFragmentSize is the default number of characters per fragment.
const DefaultFragmentSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Splitter splits document text into fixed-size overlapping fragments.
type Splitter struct {
	fragmentSize int
	overlap      int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithFragmentSize sets the fragment size in characters.
func WithFragmentSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.fragmentSize = size
		}
	}
}

// WithOverlap sets the overlap between fragments in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		fragmentSize: DefaultFragmentSize,
		overlap:      DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed fragment size
	if s.overlap >= s.fragmentSize {
		s.overlap = s.fragmentSize / 4
	}

	return s
}

// Split cuts the document at path into fragments. Fragment boundaries
// fall on rune boundaries, never inside a multi-byte character, and the
// fragment ordinal takes the place of a page number. Empty or
// whitespace-only text produces no fragments.
func (s *Splitter) Split(path, text string) []domain.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	estimated := (total / (s.fragmentSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	ordinal := 1
	start := 0

	for start < total {
		end := start + s.fragmentSize
		if end > total {
			end = total
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			chunks = append(chunks, domain.ChunkFromFileFragment(path, ordinal, content))
			ordinal++
		}

		start += s.fragmentSize - s.overlap

		if s.fragmentSize <= s.overlap {
			break
		}
	}

	return chunks
}
