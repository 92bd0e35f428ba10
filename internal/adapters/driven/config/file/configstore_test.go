package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyDefaultProvider, "deepseek"))
	require.NoError(t, store.Set(KeyRetrievalK, 4))

	assert.Equal(t, "deepseek", store.GetString(KeyDefaultProvider))
	assert.Equal(t, 4, store.GetInt(KeyRetrievalK))

	// Reload from disk through a fresh store.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", reloaded.GetString(KeyDefaultProvider))
	assert.Equal(t, 4, reloaded.GetInt(KeyRetrievalK))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[provider]\ndefault = \"stub\"\n\n[retrieval]\nk = 6\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "stub", store.GetString("provider.default"))
	assert.Equal(t, 6, store.GetInt("retrieval.k"))
}

func TestConfigStore_EmptyDirStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, store.GetString(KeyDefaultProvider))
}
