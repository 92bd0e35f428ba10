package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/core/services"
)

var (
	askProvider string
	askK        int
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question grounded in the indexed regulations",
	Long: `Retrieves the document fragments most relevant to the question,
assembles them into a grounded prompt and asks the selected provider.
Answers always cite their sources; when nothing relevant is indexed the
answer says so instead of inventing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "", "answer provider (openai, deepseek, stub)")
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "number of fragments to retrieve")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	cfg := openConfig()

	provider, err := newProvider(resolveProviderKey(askProvider, cfg))
	if err != nil {
		return err
	}

	retriever, err := newRetriever(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("preparing retrieval: %w", err)
	}

	svc := services.NewAnswerService(retriever, provider, nil)
	answer, err := svc.Ask(cmd.Context(), question, resolveK(askK, cfg))
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	outputAnswerText(cmd, answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer driving.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer driving.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Chunks) > 0 {
		cmd.Println("Fragmentos consultados:")
		for i, c := range answer.Chunks {
			cmd.Printf("  [%d] %s, p.%d (%.3f)\n", i+1, c.DisplayName(), c.Page, c.Score)
		}
		cmd.Println()
	}

	cmd.Printf("%s | retrieval %.2fs | generación %.2fs | ~$%.6f\n",
		answer.Provider, answer.RetrievalSec, answer.ChatSec, answer.EstCostUSD)
}
