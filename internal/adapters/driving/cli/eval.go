package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/ufro-labs/norma-cli/internal/adapters/driven/config/file"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/goldset"
	resultsfile "github.com/ufro-labs/norma-cli/internal/adapters/driven/results/file"
	"github.com/ufro-labs/norma-cli/internal/core/services"
)

var (
	evalGoldPath   string
	evalProvider   string
	evalK          int
	evalResultsDir string
	evalRate       float64
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score a provider against a gold question set",
	Long: `Runs every question of a gold JSONL file through the full pipeline
against one provider, then writes a per-question CSV and an aggregate
JSON summary. A provider failure on one question marks that row and the
batch keeps running.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalGoldPath, "gold", "g", "", "path to the gold question set (JSONL)")
	evalCmd.Flags().StringVarP(&evalProvider, "provider", "p", "", "provider to evaluate (openai, deepseek, stub)")
	evalCmd.Flags().IntVarP(&evalK, "k", "k", 0, "number of fragments to retrieve per question")
	evalCmd.Flags().StringVar(&evalResultsDir, "results-dir", "", "directory for result artifacts")
	evalCmd.Flags().Float64Var(&evalRate, "rate", 0, "max provider calls per second (0 disables pacing)")
	_ = evalCmd.MarkFlagRequired("gold")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	cfg := openConfig()

	items, err := goldset.Load(evalGoldPath)
	if err != nil {
		return fmt.Errorf("loading gold set: %w", err)
	}

	provider, err := newProvider(resolveProviderKey(evalProvider, cfg))
	if err != nil {
		return err
	}

	retriever, err := newRetriever(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("preparing retrieval: %w", err)
	}

	store, err := resultsfile.New(resolveResultsDir(cfg))
	if err != nil {
		return fmt.Errorf("preparing results directory: %w", err)
	}

	svc := services.NewEvaluatorService(retriever, provider, store, resolveK(evalK, cfg), evalRate)
	metrics, err := svc.Run(cmd.Context(), items)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	cmd.Printf("Provider:          %s\n", provider.Name())
	cmd.Printf("Questions:         %d\n", metrics.N)
	cmd.Printf("Exact match:       %.3f\n", metrics.ExactMatch)
	cmd.Printf("Citation coverage: %.3f\n", metrics.CitationCoverage)
	cmd.Printf("Avg latency:       %.3fs\n", metrics.AvgLatencySec)
	cmd.Printf("Avg est. cost:     $%.6f\n", metrics.AvgCostUSD)
	return nil
}

func resolveResultsDir(cfg *configfile.ConfigStore) string {
	if evalResultsDir != "" {
		return evalResultsDir
	}
	if cfg != nil {
		if d := cfg.GetString(configfile.KeyResultsDir); d != "" {
			return d
		}
	}
	return filepath.Join(defaultDataDir(), "results")
}
