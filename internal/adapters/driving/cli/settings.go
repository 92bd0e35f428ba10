package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/ufro-labs/norma-cli/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure defaults: answer provider, retrieval depth and
artifact paths. Settings live in ~/.norma/config.toml and are
overridden by the matching command-line flags.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key.

Available keys:
  provider.default - default answer provider (openai, deepseek, stub)
  retrieval.k      - default number of fragments to retrieve
  paths.index      - vector index file
  paths.chunks     - fragment metadata database
  paths.results    - evaluation artifact directory`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg := openConfig()
	if cfg == nil {
		return errors.New("configuration unavailable")
	}

	cmd.Println("Current settings:")
	cmd.Printf("  %-18s %s\n", configfile.KeyDefaultProvider, orUnset(cfg.GetString(configfile.KeyDefaultProvider)))
	k := "(unset)"
	if v := cfg.GetInt(configfile.KeyRetrievalK); v > 0 {
		k = strconv.Itoa(v)
	}
	cmd.Printf("  %-18s %s\n", configfile.KeyRetrievalK, k)
	cmd.Printf("  %-18s %s\n", configfile.KeyIndexPath, orUnset(cfg.GetString(configfile.KeyIndexPath)))
	cmd.Printf("  %-18s %s\n", configfile.KeyChunksPath, orUnset(cfg.GetString(configfile.KeyChunksPath)))
	cmd.Printf("  %-18s %s\n", configfile.KeyResultsDir, orUnset(cfg.GetString(configfile.KeyResultsDir)))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg := openConfig()
	if cfg == nil {
		return errors.New("configuration unavailable")
	}

	switch key {
	case configfile.KeyDefaultProvider, configfile.KeyIndexPath, configfile.KeyChunksPath, configfile.KeyResultsDir:
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("saving setting: %w", err)
		}
	case configfile.KeyRetrievalK:
		k, err := strconv.Atoi(value)
		if err != nil || k <= 0 {
			return fmt.Errorf("invalid value for %s: %q (want a positive integer)", key, value)
		}
		if err := cfg.Set(key, k); err != nil {
			return fmt.Errorf("saving setting: %w", err)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
