package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"buddy/config"
)

// FileStore persists settings as a single JSON document in the data
// directory. With SSH key encryption the document is sealed with AES-GCM
// and written to settings.enc instead of settings.json.
type FileStore struct {
	mu         sync.Mutex
	dataDir    string
	encManager *config.EncryptionManager
	values     map[string]json.RawMessage
}

// NewFileStore initializes encryption (when configured) and loads any
// existing settings file. A missing file is an empty store.
func NewFileStore(dataDir string, encManager *config.EncryptionManager) (*FileStore, error) {
	if encManager == nil {
		encManager = config.NewEncryptionManager(config.EncryptionNone, "")
	}

	if err := encManager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	fs := &FileStore{
		dataDir:    dataDir,
		encManager: encManager,
		values:     make(map[string]json.RawMessage),
	}

	if err := fs.load(); err != nil {
		return nil, err
	}

	return fs, nil
}

// Path returns the settings file backing this store.
func (fs *FileStore) Path() string {
	if fs.encManager.Method() == config.EncryptionSSHKey {
		return filepath.Join(fs.dataDir, "settings.enc")
	}
	return filepath.Join(fs.dataDir, "settings.json")
}

func (fs *FileStore) load() error {
	path := fs.Path()
	if !config.FileExists(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	plaintext, err := fs.encManager.Decrypt(data)
	if err != nil {
		return fmt.Errorf("failed to decrypt settings: %w", err)
	}

	if err := json.Unmarshal(plaintext, &fs.values); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if fs.values == nil {
		fs.values = make(map[string]json.RawMessage)
	}

	if config.Debug {
		config.DebugLog.Printf("[FileStore] load: %d keys from %s", len(fs.values), path)
	}
	return nil
}

// save must be called with mu held.
func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	sealed, err := fs.encManager.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt settings: %w", err)
	}

	if err := config.EnsureDir(fs.dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated settings file
	path := fs.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

func (fs *FileStore) Get(key string, dst any) (bool, error) {
	fs.mu.Lock()
	raw, ok := fs.values[key]
	fs.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode setting %q: %w", key, err)
	}
	return true, nil
}

func (fs *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.values[key]
	fs.values[key] = raw
	if err := fs.save(); err != nil {
		if had {
			fs.values[key] = prev
		} else {
			delete(fs.values, key)
		}
		return err
	}
	return nil
}

func (fs *FileStore) Close() error {
	return nil
}
