package cli

import (
	"bytes"
	"context"
	"testing"

	configfile "github.com/ufro-labs/norma-cli/internal/adapters/driven/config/file"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/embedding/hash"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/provider/stub"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/core/services"
)

// execute drives the root command with isolated output and a clean
// HOME so no real configuration leaks into the test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// withStubPipeline swaps the provider and retriever factories for
// offline stubs and restores them when the test ends.
func withStubPipeline(t *testing.T) {
	t.Helper()
	origProvider := newProvider
	origRetriever := newRetriever
	t.Cleanup(func() {
		newProvider = origProvider
		newRetriever = origRetriever
	})

	newProvider = func(string) (driven.Provider, error) {
		return stub.New(), nil
	}
	newRetriever = func(context.Context, *configfile.ConfigStore) (driving.RetrievalService, error) {
		return services.NewRetrieverService(hash.New(8), nil), nil
	}
}
