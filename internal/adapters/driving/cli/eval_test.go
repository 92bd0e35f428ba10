package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGoldFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gold.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestEvalCmd_RequiresGoldFlag(t *testing.T) {
	withStubPipeline(t)

	_, err := execute(t, "eval")

	assert.Error(t, err)
}

func TestEvalCmd_ScoresBatchAgainstStub(t *testing.T) {
	withStubPipeline(t)
	gold := writeGoldFile(t, `{"question": "¿Qué es la matrícula?"}
{"question": "¿Cuánto cuesta el arancel?"}
`)
	resultsDir := t.TempDir()

	out, err := execute(t, "eval", "--gold", gold, "--results-dir", resultsDir)

	require.NoError(t, err)
	assert.Contains(t, out, "Questions:         2")
	assert.Contains(t, out, "Citation coverage: 1.000")

	// Both artifacts landed in the results directory.
	entries, err := os.ReadDir(resultsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEvalCmd_FailsOnMissingGoldFile(t *testing.T) {
	withStubPipeline(t)

	_, err := execute(t, "eval", "--gold", filepath.Join(t.TempDir(), "missing.jsonl"))

	assert.Error(t, err)
}
