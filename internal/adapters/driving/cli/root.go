// Package cli wires the cobra command tree that drives the question
// answering pipeline: index, ask, compare, eval, settings, version.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ufro-labs/norma-cli/internal/adapters/driven/ai"
	configfile "github.com/ufro-labs/norma-cli/internal/adapters/driven/config/file"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/vector/flat"
	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/core/services"
	"github.com/ufro-labs/norma-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	indexPath  string
	chunksPath string
)

// Injection points. Production wiring is the default; tests swap these
// for stubs.
var (
	newProvider  = ai.CreateProvider
	newRetriever = buildRetriever
)

var rootCmd = &cobra.Command{
	Use:   "norma",
	Short: "Ask questions about institutional regulations",
	Long: `Norma answers natural-language questions about institutional
regulatory documents. Answers are grounded in indexed document
fragments retrieved by semantic similarity and always cite their
sources.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "path to the vector index file")
	rootCmd.PersistentFlags().StringVar(&chunksPath, "chunks", "", "path to the chunk metadata database")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openConfig loads the config store from the default location. A
// missing or unreadable configuration yields nil; every consumer has a
// flag or default to fall back on.
func openConfig() *configfile.ConfigStore {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		logger.Warn("configuration unavailable: %v", err)
		return nil
	}
	return store
}

// defaultDataDir is where index artifacts live unless overridden.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".norma"
	}
	return filepath.Join(home, ".norma")
}

// resolveIndexPath applies flag, then config, then default.
func resolveIndexPath(cfg *configfile.ConfigStore) string {
	if indexPath != "" {
		return indexPath
	}
	if cfg != nil {
		if p := cfg.GetString(configfile.KeyIndexPath); p != "" {
			return p
		}
	}
	return filepath.Join(defaultDataDir(), "index.bin")
}

// resolveChunksPath applies flag, then config, then default.
func resolveChunksPath(cfg *configfile.ConfigStore) string {
	if chunksPath != "" {
		return chunksPath
	}
	if cfg != nil {
		if p := cfg.GetString(configfile.KeyChunksPath); p != "" {
			return p
		}
	}
	return filepath.Join(defaultDataDir(), "chunks.db")
}

// resolveProviderKey applies flag, then config, then the offline stub.
func resolveProviderKey(flagValue string, cfg *configfile.ConfigStore) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil {
		if p := cfg.GetString(configfile.KeyDefaultProvider); p != "" {
			return p
		}
	}
	return ai.ProviderStub
}

// resolveK applies flag, then config; zero lets the retriever default.
func resolveK(flagValue int, cfg *configfile.ConfigStore) int {
	if flagValue > 0 {
		return flagValue
	}
	if cfg != nil {
		if k := cfg.GetInt(configfile.KeyRetrievalK); k > 0 {
			return k
		}
	}
	return 0
}

// buildRetriever loads the index artifacts and assembles the retrieval
// service. A missing or corrupt index pair degrades to a retriever
// without context, so questions are still answered, just ungrounded.
func buildRetriever(ctx context.Context, cfg *configfile.ConfigStore) (driving.RetrievalService, error) {
	rc, embedder, err := loadRetrievalContext(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return services.NewRetrieverService(embedder, rc), nil
}

func loadRetrievalContext(ctx context.Context, cfg *configfile.ConfigStore) (*services.RetrievalContext, driven.EmbeddingService, error) {
	ixPath := resolveIndexPath(cfg)
	dbPath := resolveChunksPath(cfg)

	index, err := flat.Load(ixPath)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			logger.Warn("no vector index at %s, run 'norma index' first", ixPath)
		} else {
			logger.Warn("vector index at %s is unreadable, treating as missing: %v", ixPath, err)
		}
		embedder, eErr := ai.CreateEmbeddingService(0)
		if eErr != nil {
			return nil, nil, eErr
		}
		return nil, embedder, nil
	}

	store, err := sqlite.OpenExisting(dbPath)
	if err != nil {
		logger.Warn("chunk metadata at %s is unavailable, treating index as missing: %v", dbPath, err)
		embedder, eErr := ai.CreateEmbeddingService(index.Dimensions())
		if eErr != nil {
			return nil, nil, eErr
		}
		return nil, embedder, nil
	}
	defer store.Close()

	chunks, err := store.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading chunk metadata: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(index.Dimensions())
	if err != nil {
		return nil, nil, err
	}

	rc, err := services.NewRetrievalContext(index, chunks)
	if err != nil {
		// One artifact was rebuilt without the other. Surface the
		// corruption but keep answering.
		logger.Warn("index artifacts disagree, treating index as missing: %v", err)
		return nil, embedder, nil
	}

	logger.Info("loaded %d indexed chunks (dim %d)", rc.Len(), index.Dimensions())
	return rc, embedder, nil
}
