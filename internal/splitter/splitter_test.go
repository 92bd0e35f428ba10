package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyTextProducesNoFragments(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split("doc.txt", ""))
	assert.Nil(t, s.Split("doc.txt", "   \n\t  "))
}

func TestSplitShortTextIsSingleFragment(t *testing.T) {
	s := New()

	chunks := s.Split("reglamento.txt", "La matrícula habilita al estudiante.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "reglamento.txt", chunks[0].DocID)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, "La matrícula habilita al estudiante.", chunks[0].Content)
	assert.NotEmpty(t, chunks[0].ChunkID)
}

func TestSplitOverlappingWindows(t *testing.T) {
	s := New(WithFragmentSize(10), WithOverlap(4))
	text := strings.Repeat("abcdefghij", 3)

	chunks := s.Split("doc.txt", text)

	require.GreaterOrEqual(t, len(chunks), 3)
	// Consecutive fragments share their overlap region.
	first := chunks[0].Content
	second := chunks[1].Content
	assert.Equal(t, first[len(first)-4:], second[:4])
	// Ordinals are sequential from 1.
	for i, c := range chunks {
		assert.Equal(t, i+1, c.Page)
	}
}

func TestSplitRespectsRuneBoundaries(t *testing.T) {
	s := New(WithFragmentSize(5), WithOverlap(0))
	text := strings.Repeat("ñ", 12)

	chunks := s.Split("doc.txt", text)

	for _, c := range chunks {
		for _, r := range c.Content {
			assert.Equal(t, 'ñ', r)
		}
	}
}

func TestNewClampsExcessiveOverlap(t *testing.T) {
	s := New(WithFragmentSize(100), WithOverlap(150))

	chunks := s.Split("doc.txt", strings.Repeat("x", 500))

	// Must terminate and cover the whole text.
	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	assert.Equal(t, byte('x'), last.Content[len(last.Content)-1])
}

func TestSplitDeterministicIdentity(t *testing.T) {
	s := New(WithFragmentSize(10), WithOverlap(2))
	text := "contenido normativo repetible para identidad estable"

	first := s.Split("doc.txt", text)
	second := s.Split("doc.txt", text)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ChunkID, second[i].ChunkID)
	}
}
