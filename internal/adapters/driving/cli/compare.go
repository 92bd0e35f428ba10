package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ufro-labs/norma-cli/internal/adapters/driven/ai"
	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/core/services"
)

var (
	compareProviders string
	compareK         int
	compareJSON      bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [question]",
	Short: "Ask two providers the same question side by side",
	Long: `Retrieves grounding fragments once, sends the identical prompt to two
providers concurrently and reports both answers with per-provider
latency and estimated cost.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareProviders, "providers", ai.ProviderOpenAI+","+ai.ProviderDeepSeek, "comma-separated pair of providers")
	compareCmd.Flags().IntVarP(&compareK, "k", "k", 0, "number of fragments to retrieve")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output the comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	question := args[0]
	cfg := openConfig()

	keys := strings.Split(compareProviders, ",")
	if len(keys) != 2 {
		return fmt.Errorf("%w: --providers needs exactly two comma-separated names", domain.ErrInvalidInput)
	}

	primary, err := newProvider(strings.TrimSpace(keys[0]))
	if err != nil {
		return err
	}
	secondary, err := newProvider(strings.TrimSpace(keys[1]))
	if err != nil {
		return err
	}

	retriever, err := newRetriever(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("preparing retrieval: %w", err)
	}

	svc := services.NewAnswerService(retriever, primary, secondary)
	comparison, err := svc.Compare(cmd.Context(), question, resolveK(compareK, cfg))
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON {
		data, mErr := json.MarshalIndent(comparison, "", "  ")
		if mErr != nil {
			return fmt.Errorf("failed to marshal comparison: %w", mErr)
		}
		cmd.Println(string(data))
		return nil
	}

	outputComparisonText(cmd, comparison)
	return nil
}

func outputComparisonText(cmd *cobra.Command, comparison driving.Comparison) {
	for i, answer := range comparison.Answers {
		marker := ""
		if i == comparison.Fastest {
			marker = " (más rápido)"
		}
		cmd.Printf("=== %s%s ===\n", answer.Provider, marker)
		cmd.Println(answer.Text)
		cmd.Printf("\ngeneración %.2fs | ~$%.6f\n\n", answer.ChatSec, answer.EstCostUSD)
	}

	if len(comparison.Chunks) > 0 {
		cmd.Println("Fragmentos consultados:")
		for i, c := range comparison.Chunks {
			cmd.Printf("  [%d] %s, p.%d (%.3f)\n", i+1, c.DisplayName(), c.Page, c.Score)
		}
	}
}
