package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buddy/model"
	"buddy/provider"
	"buddy/storage"
)

type storedState struct {
	AIProvider    string
	Providers     map[string]model.ProviderConfig
	ConfigVersion int
}

func readState(t *testing.T, store storage.SettingsStore) storedState {
	t.Helper()

	var st storedState
	_, err := store.Get(storage.KeyAIProvider, &st.AIProvider)
	require.NoError(t, err)
	_, err = store.Get(storage.KeyProviders, &st.Providers)
	require.NoError(t, err)
	_, err = store.Get(storage.KeyConfigVersion, &st.ConfigVersion)
	require.NoError(t, err)
	return st
}

func TestMigrateLegacyKey(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyLegacyAPIKey, "X"))

	model.MigrateConfig(store, provider.NewRegistry())

	st := readState(t, store)
	assert.Equal(t, "xai", st.AIProvider)
	assert.Equal(t, model.CurrentConfigVersion, st.ConfigVersion)
	assert.Equal(t, "X", st.Providers["xai"].APIKey)
	assert.Equal(t, "grok-3-mini", st.Providers["xai"].Model)
	assert.Equal(t, "https://api.x.ai/v1", st.Providers["xai"].BaseURL)

	// The other providers are seeded from defaults
	assert.Equal(t, "claude-sonnet-4-20250514", st.Providers["anthropic"].Model)
	assert.Empty(t, st.Providers["anthropic"].APIKey)
}

func TestMigrateIsIdempotent(t *testing.T) {
	once := storage.NewMemoryStore()
	twice := storage.NewMemoryStore()
	for _, s := range []storage.SettingsStore{once, twice} {
		require.NoError(t, s.Set(storage.KeyLegacyAPIKey, "X"))
	}

	reg := provider.NewRegistry()
	model.MigrateConfig(once, reg)
	model.MigrateConfig(twice, reg)

	// A user edit between runs must survive the second run
	require.NoError(t, twice.Set(storage.KeyAIProvider, "anthropic"))
	require.NoError(t, once.Set(storage.KeyAIProvider, "anthropic"))
	model.MigrateConfig(twice, reg)

	assert.Equal(t, readState(t, once), readState(t, twice))
}

func TestMigrateWithoutLegacyKey(t *testing.T) {
	store := storage.NewMemoryStore()

	model.MigrateConfig(store, provider.NewRegistry())

	st := readState(t, store)
	assert.Equal(t, model.CurrentConfigVersion, st.ConfigVersion)
	assert.Empty(t, st.AIProvider)
	assert.Nil(t, st.Providers)
}

func TestMigratePreservesExistingProviders(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyLegacyAPIKey, "X"))
	require.NoError(t, store.Set(storage.KeyProviders, map[string]model.ProviderConfig{
		"openai": {APIKey: "sk-openai", Model: "gpt-4o", BaseURL: "https://api.openai.com/v1"},
		"xai":    {Model: "grok-3", BaseURL: "https://proxy.example/v1"},
	}))

	model.MigrateConfig(store, provider.NewRegistry())

	st := readState(t, store)
	assert.Equal(t, "sk-openai", st.Providers["openai"].APIKey)
	assert.Equal(t, model.ProviderConfig{
		APIKey:  "X",
		Model:   "grok-3",
		BaseURL: "https://proxy.example/v1",
	}, st.Providers["xai"])
}

func TestMigrateNullProviders(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyLegacyAPIKey, "X"))
	var none map[string]model.ProviderConfig
	require.NoError(t, store.Set(storage.KeyProviders, none))

	assert.NotPanics(t, func() {
		model.MigrateConfig(store, provider.NewRegistry())
	})

	st := readState(t, store)
	assert.Equal(t, "xai", st.AIProvider)
	assert.Equal(t, model.CurrentConfigVersion, st.ConfigVersion)
	assert.Equal(t, "X", st.Providers["xai"].APIKey)
	assert.Equal(t, "grok-3-mini", st.Providers["xai"].Model)
}

func TestMigrateSkipsWhenVersioned(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyConfigVersion, 1))
	require.NoError(t, store.Set(storage.KeyLegacyAPIKey, "X"))

	model.MigrateConfig(store, provider.NewRegistry())

	st := readState(t, store)
	assert.Empty(t, st.AIProvider)
	assert.Nil(t, st.Providers)
}

func TestMigrateSwallowsErrors(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyConfigVersion, "not a number"))

	assert.NotPanics(t, func() {
		model.MigrateConfig(store, provider.NewRegistry())
	})
}
