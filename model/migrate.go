package model

import (
	"buddy/config"
	"buddy/storage"
)

// CurrentConfigVersion is written once settings are in the multi-provider shape.
const CurrentConfigVersion = 1

// LegacyProviderID receives the single API key stored by pre-provider releases.
const LegacyProviderID = "xai"

// MigrateConfig upgrades settings written by single-provider releases: a
// legacy top-level apiKey moves into providers[xai] and xai becomes the
// active provider. Running it again is a no-op. Failures are logged and
// never returned, so startup always proceeds.
func MigrateConfig(store storage.SettingsStore, registry ProviderRegistry) {
	if err := migrateConfig(store, registry); err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Migrate] migration failed: %v", err)
		}
	}
}

func migrateConfig(store storage.SettingsStore, registry ProviderRegistry) error {
	var version int
	found, err := store.Get(storage.KeyConfigVersion, &version)
	if err != nil {
		return err
	}
	if found && version != 0 {
		return nil
	}

	var legacyKey string
	if _, err := store.Get(storage.KeyLegacyAPIKey, &legacyKey); err != nil {
		return err
	}

	if legacyKey != "" {
		providers := make(map[string]ProviderConfig)
		found, err := store.Get(storage.KeyProviders, &providers)
		if err != nil {
			return err
		}
		if !found || providers == nil {
			providers = registry.AllDefaultConfigs()
		}

		// Keep any model or base URL already stored for xai; only the key moves.
		cfg, ok := providers[LegacyProviderID]
		if !ok {
			cfg, _ = registry.DefaultConfig(LegacyProviderID)
		}
		cfg.APIKey = legacyKey
		providers[LegacyProviderID] = cfg

		if err := store.Set(storage.KeyProviders, providers); err != nil {
			return err
		}
		if err := store.Set(storage.KeyAIProvider, LegacyProviderID); err != nil {
			return err
		}

		if config.Debug {
			config.DebugLog.Printf("[Migrate] moved legacy API key to provider %s", LegacyProviderID)
		}
	}

	return store.Set(storage.KeyConfigVersion, CurrentConfigVersion)
}
