package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ufro-labs/norma-cli/internal/adapters/driven/ai"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/vector/flat"
	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/logger"
	"github.com/ufro-labs/norma-cli/internal/splitter"
)

var (
	indexDim       int
	indexFragChars int
	indexOverlap   int
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Build the vector index from document fragments",
	Long: `Builds the vector index and the fragment metadata store from a source
file. A .jsonl file is read as pre-chunked fragment records (one JSON
object per line); any other file is treated as plain document text and
split into overlapping fragments first. Both artifacts are rewritten
together so they always describe the same fragment set.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&indexDim, "dim", 0, "embedding dimension for the local encoder (0 uses the default)")
	indexCmd.Flags().IntVar(&indexFragChars, "chunk-size", splitter.DefaultFragmentSize, "fragment size in characters for plain-text input")
	indexCmd.Flags().IntVar(&indexOverlap, "overlap", splitter.DefaultOverlap, "fragment overlap in characters for plain-text input")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := openConfig()

	chunks, err := loadFragments(args[0])
	if err != nil {
		return fmt.Errorf("reading fragments: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %s contains no fragments", domain.ErrInvalidInput, args[0])
	}

	embedder, err := ai.CreateEmbeddingService(indexDim)
	if err != nil {
		return err
	}
	defer embedder.Close()

	logger.Section("Indexing")
	logger.Info("encoding %d fragments with %s", len(chunks), embedder.ModelName())

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := embedder.EmbedBatch(cmd.Context(), texts)
	if err != nil {
		return fmt.Errorf("encoding fragments: %w", err)
	}

	index, err := flat.Build(vectors)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	ixPath := resolveIndexPath(cfg)
	dbPath := resolveChunksPath(cfg)

	if err := index.Save(ixPath); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	if err := store.ReplaceAll(cmd.Context(), chunks); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	cmd.Printf("Indexed %d fragments (dim %d)\n", index.Len(), index.Dimensions())
	cmd.Printf("  index:    %s\n", ixPath)
	cmd.Printf("  metadata: %s\n", dbPath)
	return nil
}

// loadFragments dispatches on the input format: JSONL fragment records
// or raw document text to be split.
func loadFragments(path string) ([]domain.Chunk, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return loadChunkRecords(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := splitter.New(
		splitter.WithFragmentSize(indexFragChars),
		splitter.WithOverlap(indexOverlap),
	)
	return s.Split(path, string(data)), nil
}

// loadChunkRecords reads one raw fragment record per line and
// normalizes each into a canonical chunk. Blank lines are skipped; a
// malformed line is an error naming the line number.
func loadChunkRecords(path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []domain.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		var rec domain.ChunkRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		if rec.Content == "" {
			return nil, fmt.Errorf("%w: line %d: missing content", domain.ErrInvalidInput, line)
		}
		chunks = append(chunks, domain.NormalizeChunk(rec))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
