package storage

import (
	"fmt"
	"os"

	"buddy/config"
)

// Well-known settings keys.
const (
	KeyAIProvider    = "aiProvider"
	KeyProviders     = "providers"
	KeyConfigVersion = "configVersion"
	KeyUserName      = "userName"
	KeyLegacyAPIKey  = "apiKey"
	KeyVoiceEnabled  = "voiceEnabled"
	KeySpeechRate    = "speechRate"
)

// SettingsStore is a persistent key/value store. Values are JSON encoded,
// so any JSON-serializable value can be stored and read back into a
// pointer of a compatible type.
type SettingsStore interface {
	// Get decodes the value stored under key into dst. It reports false
	// (and leaves dst untouched) when the key is absent.
	Get(key string, dst any) (bool, error)
	// Set replaces the value stored under key.
	Set(key string, value any) error
	// Close releases the backing resource.
	Close() error
}

// Open returns the store selected by cfg. For the file store with SSH key
// encryption the passphrase comes from BUDDY_SSH_PASSPHRASE.
func Open(cfg *config.Config) (SettingsStore, error) {
	if config.Debug {
		config.DebugLog.Printf("[Storage] Open: backend=%s encryption=%s dataDir=%s", cfg.Store, cfg.Encryption, cfg.DataDir())
	}

	switch cfg.Store {
	case config.StoreFile:
		em := config.NewEncryptionManager(cfg.Encryption, cfg.KeyPath())
		em.SetPassphrase(os.Getenv("BUDDY_SSH_PASSPHRASE"))
		return NewFileStore(cfg.DataDir(), em)

	case config.StoreSQLite:
		return NewSQLiteStore(cfg.DataDir())

	case config.StoreMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store)
	}
}
