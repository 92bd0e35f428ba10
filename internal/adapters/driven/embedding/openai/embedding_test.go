package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *EmbeddingService) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return srv, svc
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_PreservesOrderAndNormalises(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"uno", "dos"}, req.Input)

		// Respond out of order; the Index field must restore ordering.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0, 3, 0}, "index": 1},
				{"embedding": []float64{4, 0, 0}, "index": 0},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	vecs, err := svc.EmbedBatch(context.Background(), []string{"uno", "dos"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	assert.InDelta(t, 1.0, float64(vecs[0][0]), 1e-6, "first input, unit-normalised")
	assert.InDelta(t, 1.0, float64(vecs[1][1]), 1e-6, "second input, unit-normalised")

	for _, v := range vecs {
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	}
}

func TestEmbed_EmptyTextSubstituted(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{" "}, req.Input, "empty input must not be sent verbatim")

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{1, 0}, "index": 0}},
		})
	})

	vec, err := svc.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, 2)
}

func TestEmbedBatch_APIError(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{1, 0}, "index": 0}},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestDefaults(t *testing.T) {
	svc, err := New(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}
