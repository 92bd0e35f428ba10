// Package sqlite provides the persisted chunk metadata table.
//
// The table is the tabular half of the index artifact pair: row order
// (the position column) must match vector positions in the flat index
// exactly. Only the index-build step writes to it; everything else
// reads it once and shares the rows read-only.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	position INTEGER PRIMARY KEY,
	doc_id   TEXT NOT NULL,
	title    TEXT NOT NULL,
	content  TEXT NOT NULL,
	page     INTEGER NOT NULL,
	chunk_id TEXT NOT NULL,
	url      TEXT NOT NULL DEFAULT '',
	vigencia TEXT NOT NULL DEFAULT ''
);`

// ChunkStore is a SQLite-backed chunk metadata table.
type ChunkStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the chunk metadata table at path.
func Open(path string) (*ChunkStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	return &ChunkStore{db: db, path: path}, nil
}

// OpenExisting opens the chunk metadata table at path, failing with
// domain.ErrIndexNotFound when the file does not exist. Used on the
// read path, where a missing table means retrieval must be disabled.
func OpenExisting(path string) (*ChunkStore, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("checking chunk table: %w", err)
	}
	return Open(path)
}

// Close closes the database connection.
func (s *ChunkStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ChunkStore) Path() string {
	return s.path
}

// All returns every chunk ordered by position.
func (s *ChunkStore) All(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, title, content, page, chunk_id, url, vigencia
		FROM chunks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.DocID, &c.Title, &c.Content, &c.Page, &c.ChunkID, &c.URL, &c.Vigencia); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// ReplaceAll replaces the whole table with the given chunks in order,
// inside a single transaction so a failed build never leaves a
// half-written table behind.
func (s *ChunkStore) ReplaceAll(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, doc_id, title, content, page, chunk_id, url, vigencia)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.DocID, c.Title, c.Content, c.Page, c.ChunkID, c.URL, c.Vigencia); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}
