package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// StoreBackend selects where persisted settings live.
type StoreBackend string

const (
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
	StoreMemory StoreBackend = "memory"
)

// DefaultRequestTimeout bounds every provider HTTP exchange.
const DefaultRequestTimeout = 60 * time.Second

type SystemConfig struct {
	DataDirectory         string `toml:"data_directory"`
	Store                 string `toml:"store"`
	Encryption            string `toml:"encryption"`
	SSHKeyPath            string `toml:"ssh_key_path,omitempty"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type Config struct {
	DataDirectory  string
	Store          StoreBackend
	Encryption     EncryptionMethod
	SSHKeyPath     string
	RequestTimeout time.Duration
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) KeyPath() string {
	return ExpandPath(c.SSHKeyPath)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("BUDDY_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if store := os.Getenv("BUDDY_STORE"); store != "" {
		c.Store = StoreBackend(store)
	}
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store)
	}

	switch c.Encryption {
	case EncryptionNone:
	case EncryptionSSHKey:
		if c.SSHKeyPath == "" {
			return fmt.Errorf("ssh_key_path is required when encryption is %q", EncryptionSSHKey)
		}
		if c.Store != StoreFile {
			return fmt.Errorf("encryption %q is only supported by the file store", EncryptionSSHKey)
		}
	default:
		return fmt.Errorf("unknown encryption method: %s", c.Encryption)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("BUDDY_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log may contain provider error bodies
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	Debug = true
	DebugLog.Printf("=== Debug logging started (BUDDY_DEBUG=%s) ===", os.Getenv("BUDDY_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func fromSystemConfig(systemCfg *SystemConfig) *Config {
	return &Config{
		DataDirectory:  systemCfg.DataDirectory,
		Store:          StoreBackend(systemCfg.Store),
		Encryption:     EncryptionMethod(systemCfg.Encryption),
		SSHKeyPath:     systemCfg.SSHKeyPath,
		RequestTimeout: time.Duration(systemCfg.RequestTimeoutSeconds) * time.Second,
	}
}

// Load reads settings.toml (creating it from the template on first run),
// applies BUDDY_* environment overrides and prepares the data directory.
func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := fromSystemConfig(systemCfg)
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
