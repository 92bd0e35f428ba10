package domain

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// Chunk represents a retrievable fragment of a regulation document.
// It is the canonical representation after normalisation: downstream
// components never need fallback key lookups or missing-field checks.
type Chunk struct {
	// DocID is the stable identifier of the origin document.
	// Always a bare filename, never a filesystem path.
	DocID string

	// Title is the human-readable document title, derived from DocID
	// when the ingest collaborator does not provide one.
	Title string

	// Content is the verbatim fragment text.
	Content string

	// Page is the 1-based page the fragment was extracted from.
	// Zero means the origin has no page structure.
	Page int

	// ChunkID is the deterministic identity of this fragment.
	// See NewChunkID for the derivation rule.
	ChunkID string

	// URL is an optional link to the published document.
	URL string

	// Vigencia is an optional validity/status tag (e.g. "vigente").
	Vigencia string

	// Score is the similarity to a query, attached only on copies
	// returned by retrieval. It is never persisted.
	Score float64
}

// ChunkRecord is a raw row as produced by the ingest collaborator.
// Any field except Content may be missing; NormalizeChunk fills defaults.
type ChunkRecord struct {
	DocID    string `json:"doc_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Page     int    `json:"page"`
	ChunkID  string `json:"chunk_id"`
	URL      string `json:"url"`
	Vigencia string `json:"vigencia"`
}

// NewChunkID derives the deterministic identity of a fragment from its
// provenance and content: md5 over "docID|page|content", truncated to
// 16 hex characters. The rule is stable across runs and platforms, so
// re-ingesting an unchanged document yields the same IDs.
func NewChunkID(docID string, page int, content string) string {
	sum := md5.Sum([]byte(docID + "|" + strconv.Itoa(page) + "|" + content))
	return "chunk-" + hex.EncodeToString(sum[:])[:16]
}

// TitleFromDocID derives a display title from a document identifier:
// extension stripped, separators replaced with spaces, first rune
// capitalised.
func TitleFromDocID(docID string) string {
	name := strings.TrimSuffix(docID, filepath.Ext(docID))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// NormalizeChunk converts a raw ingest record into a canonical Chunk.
// It is total: missing optional fields are filled with defaults and the
// record is never rejected. DocID is reduced to its base name so that
// references stay stable regardless of where ingestion ran.
func NormalizeChunk(rec ChunkRecord) Chunk {
	docID := filepath.Base(strings.TrimSpace(rec.DocID))
	if docID == "." || docID == string(filepath.Separator) {
		docID = ""
	}

	page := rec.Page
	if page < 0 {
		page = 0
	}

	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = TitleFromDocID(docID)
	}

	chunkID := strings.TrimSpace(rec.ChunkID)
	if chunkID == "" {
		chunkID = NewChunkID(docID, page, rec.Content)
	}

	return Chunk{
		DocID:    docID,
		Title:    title,
		Content:  rec.Content,
		Page:     page,
		ChunkID:  chunkID,
		URL:      strings.TrimSpace(rec.URL),
		Vigencia: strings.TrimSpace(rec.Vigencia),
	}
}

// ChunkFromFileFragment builds a Chunk directly from a source file path
// and an extracted fragment. DocID and Title are derived from the base
// name of the path.
func ChunkFromFileFragment(path string, page int, content string) Chunk {
	return NormalizeChunk(ChunkRecord{
		DocID:   filepath.Base(path),
		Page:    page,
		Content: content,
	})
}

// DisplayName returns the name used when citing this chunk.
func (c Chunk) DisplayName() string {
	name := strings.TrimSuffix(c.DocID, filepath.Ext(c.DocID))
	if name == "" {
		name = c.Title
	}
	return name
}

// Equal reports whether two chunks denote the same fragment.
// Identity is defined by ChunkID, not by field-wise comparison.
func (c Chunk) Equal(other Chunk) bool {
	return c.ChunkID != "" && c.ChunkID == other.ChunkID
}
