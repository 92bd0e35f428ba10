package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{
			DocID:   "reglamento_admision.pdf",
			Title:   "Reglamento admision",
			Content: "la matrícula es el acto académico...",
			Page:    15,
			ChunkID: domain.NewChunkID("reglamento_admision.pdf", 15, "la matrícula es el acto académico..."),
		},
		{
			DocID:    "reglamento_estudios.pdf",
			Title:    "Reglamento estudios",
			Content:  "la escala de calificaciones va de 1.0 a 7.0",
			Page:     23,
			ChunkID:  domain.NewChunkID("reglamento_estudios.pdf", 23, "la escala de calificaciones va de 1.0 a 7.0"),
			URL:      "https://example.edu/estudios.pdf",
			Vigencia: "vigente",
		},
	}
}

func TestReplaceAllAndAll_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	defer store.Close()

	want := testChunks()
	require.NoError(t, store.ReplaceAll(ctx, want))

	got, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0], got[0])
	assert.Equal(t, want[1], got[1])

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplaceAll_Overwrites(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ReplaceAll(ctx, testChunks()))
	require.NoError(t, store.ReplaceAll(ctx, testChunks()[:1]))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rebuild replaces, never appends")
}

func TestAll_EmptyTable(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	defer store.Close()

	got, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenExisting_MissingFile(t *testing.T) {
	_, err := OpenExisting(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestOpenExisting_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chunks.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceAll(ctx, testChunks()))
	require.NoError(t, store.Close())

	reopened, err := OpenExisting(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
