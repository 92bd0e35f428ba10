package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestEmbed_UnitNorm(t *testing.T) {
	svc := New(128)
	ctx := context.Background()

	for _, text := range []string{
		"la matrícula es el acto académico",
		"arancel",
		"",
		"   \t\n",
		"1234 5678",
	} {
		vec, err := svc.Embed(ctx, text)
		require.NoError(t, err)
		require.Len(t, vec, 128)
		assert.InDelta(t, 1.0, l2norm(vec), 1e-5, "text %q", text)
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	svc := New(0) // default dimensions
	ctx := context.Background()

	a, err := svc.Embed(ctx, "reglamento de régimen de estudios")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "reglamento de régimen de estudios")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestEmbed_EmptyTextDoesNotFail(t *testing.T) {
	svc := New(64)

	vec, err := svc.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l2norm(vec), 1e-6)
}

func TestEmbed_SimilarTextsScoreHigher(t *testing.T) {
	svc := New(256)
	ctx := context.Background()

	base, err := svc.Embed(ctx, "la matrícula es el acto académico de incorporación")
	require.NoError(t, err)
	near, err := svc.Embed(ctx, "¿qué es la matrícula?")
	require.NoError(t, err)
	far, err := svc.Embed(ctx, "horario de atención de biblioteca")
	require.NoError(t, err)

	assert.Greater(t, dot(base, near), dot(base, far))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	svc := New(64)
	ctx := context.Background()

	texts := []string{"uno", "dos", "tres"}
	batch, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := svc.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestEmbedBatch_SingleElement(t *testing.T) {
	svc := New(64)

	batch, err := svc.EmbedBatch(context.Background(), []string{"solo"})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.InDelta(t, 1.0, l2norm(batch[0]), 1e-5)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
