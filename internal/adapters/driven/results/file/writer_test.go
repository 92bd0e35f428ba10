package file

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

func sampleResults() []domain.EvalResult {
	return []domain.EvalResult{
		{
			Question:   "¿qué es la matrícula?",
			Provider:   "stub",
			Answer:     "La matrícula es el acto académico.\n\nReferencias:\n[reglamento, p.15]",
			References: "[reglamento, p.15]",
			LatencySec: 0.12,
			EstCostUSD: 0.0001,
			ExactMatch: true,
		},
		{
			Question: "¿horario de biblioteca?",
			Provider: "stub",
			Answer:   "[Error proveedor] deepseek: rate limit (429)",
		},
	}
}

func TestWriteResults_CSVShape(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := store.WriteResults("stub", sampleResults())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per question")

	assert.Equal(t, []string{"question", "provider", "answer", "references"}, rows[0])
	assert.Equal(t, "¿qué es la matrícula?", rows[1][0])
	assert.Contains(t, rows[1][2], "Referencias:", "multiline answers survive CSV quoting")
	assert.Contains(t, rows[2][2], "[Error proveedor]")
}

func TestWriteSummary_JSONShape(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := store.WriteSummary("deepseek (DeepSeek Chat)", domain.EvalMetrics{
		N: 2, ExactMatch: 0.5, CitationCoverage: 1.0, AvgLatencySec: 0.345, AvgCostUSD: 0.000123,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "deepseek (DeepSeek Chat)", got["provider"])
	assert.NotEmpty(t, got["run_id"])
	assert.EqualValues(t, 2, got["n"])
	assert.EqualValues(t, 0.5, got["exact_match"])
	assert.EqualValues(t, 1.0, got["citation_coverage"])
}

func TestFilenames_TimestampedAndSlugged(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2025, 8, 26, 13, 4, 5, 0, time.UTC) }

	path, err := store.WriteSummary("deepseek (DeepSeek Chat)", domain.EvalMetrics{})
	require.NoError(t, err)

	assert.Contains(t, path, "20250826_130405")
	assert.NotContains(t, path[strings.LastIndex(path, "/")+1:], "(", "provider label must be slugged")
}

func TestRepeatedRuns_DoNotOverwrite(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	stamp := time.Date(2025, 8, 26, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }
	first, err := store.WriteResults("stub", nil)
	require.NoError(t, err)

	store.now = func() time.Time { return stamp.Add(time.Second) }
	second, err := store.WriteResults("stub", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
