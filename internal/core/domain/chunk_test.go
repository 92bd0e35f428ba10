package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkID_Deterministic(t *testing.T) {
	a := NewChunkID("reglamento.pdf", 15, "la matrícula es el acto académico...")
	b := NewChunkID("reglamento.pdf", 15, "la matrícula es el acto académico...")

	assert.Equal(t, a, b, "identical (doc, page, content) must hash identically")
	assert.Len(t, a, len("chunk-")+16)
	assert.Contains(t, a, "chunk-")
}

func TestNewChunkID_DistinguishesProvenance(t *testing.T) {
	base := NewChunkID("reg.pdf", 1, "texto")

	assert.NotEqual(t, base, NewChunkID("reg.pdf", 2, "texto"))
	assert.NotEqual(t, base, NewChunkID("otro.pdf", 1, "texto"))
	assert.NotEqual(t, base, NewChunkID("reg.pdf", 1, "otro texto"))
}

func TestTitleFromDocID(t *testing.T) {
	tests := []struct {
		name  string
		docID string
		want  string
	}{
		{"strips extension and separators", "reglamento_regimen-estudios.pdf", "Reglamento regimen estudios"},
		{"plain name", "calendario.pdf", "Calendario"},
		{"no extension", "manual_estudiante", "Manual estudiante"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromDocID(tt.docID))
		})
	}
}

func TestNormalizeChunk_FillsDefaults(t *testing.T) {
	chunk := NormalizeChunk(ChunkRecord{
		DocID:   "data/raw/reglamento_convivencia.pdf",
		Content: "contenido del fragmento",
		Page:    3,
	})

	assert.Equal(t, "reglamento_convivencia.pdf", chunk.DocID, "doc_id must never be a path")
	assert.Equal(t, "Reglamento convivencia", chunk.Title)
	assert.Equal(t, NewChunkID("reglamento_convivencia.pdf", 3, "contenido del fragmento"), chunk.ChunkID)
	assert.Empty(t, chunk.URL)
	assert.Empty(t, chunk.Vigencia)
	assert.Zero(t, chunk.Score)
}

func TestNormalizeChunk_IsTotal(t *testing.T) {
	// An entirely empty record still yields a usable chunk.
	chunk := NormalizeChunk(ChunkRecord{})

	assert.Empty(t, chunk.DocID)
	assert.NotEmpty(t, chunk.ChunkID)
	assert.Zero(t, chunk.Page)
}

func TestNormalizeChunk_ClampsNegativePage(t *testing.T) {
	chunk := NormalizeChunk(ChunkRecord{DocID: "a.pdf", Content: "x", Page: -2})
	assert.Zero(t, chunk.Page)
}

func TestNormalizeChunk_KeepsExplicitFields(t *testing.T) {
	chunk := NormalizeChunk(ChunkRecord{
		DocID:    "reg.pdf",
		Title:    "Reglamento 2023",
		Content:  "texto",
		Page:     7,
		ChunkID:  "chunk-abc",
		URL:      "https://example.edu/reg.pdf",
		Vigencia: "vigente",
	})

	assert.Equal(t, "Reglamento 2023", chunk.Title)
	assert.Equal(t, "chunk-abc", chunk.ChunkID)
	assert.Equal(t, "https://example.edu/reg.pdf", chunk.URL)
	assert.Equal(t, "vigente", chunk.Vigencia)
}

func TestChunkFromFileFragment(t *testing.T) {
	chunk := ChunkFromFileFragment("/data/raw/manual_estudiante.pdf", 12, "capítulo uno")

	assert.Equal(t, "manual_estudiante.pdf", chunk.DocID)
	assert.Equal(t, "Manual estudiante", chunk.Title)
	assert.Equal(t, 12, chunk.Page)
}

func TestChunkEqual_ByChunkID(t *testing.T) {
	a := Chunk{ChunkID: "chunk-1", Content: "x"}
	b := Chunk{ChunkID: "chunk-1", Content: "y", Score: 0.9}

	assert.True(t, a.Equal(b), "identity is chunk_id, not field-wise equality")
	assert.False(t, a.Equal(Chunk{ChunkID: "chunk-2"}))
	assert.False(t, Chunk{}.Equal(Chunk{}), "empty IDs never match")
}

func TestChunkDisplayName(t *testing.T) {
	assert.Equal(t, "reglamento", Chunk{DocID: "reglamento.pdf"}.DisplayName())
	assert.Equal(t, "Titulo", Chunk{Title: "Titulo"}.DisplayName())
}
