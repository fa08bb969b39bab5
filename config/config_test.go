package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestLoadSystemConfigCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buddy", "settings.toml")

	cfg, err := LoadSystemConfigFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !FileExists(path) {
		t.Fatal("expected settings.toml to be created")
	}
	if cfg.Store != string(StoreFile) {
		t.Errorf("expected default store %q, got %q", StoreFile, cfg.Store)
	}

	// The generated template must itself be valid TOML with the same values
	var decoded SystemConfig
	if _, err := toml.DecodeFile(path, &decoded); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	if decoded.RequestTimeoutSeconds != 60 {
		t.Errorf("expected template timeout 60, got %d", decoded.RequestTimeoutSeconds)
	}
	if decoded.Encryption != string(EncryptionNone) {
		t.Errorf("expected template encryption none, got %q", decoded.Encryption)
	}
}

func TestLoadSystemConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `data_directory = "/tmp/buddy-data"
store = "sqlite"
request_timeout_seconds = 15
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	systemCfg, err := LoadSystemConfigFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := fromSystemConfig(systemCfg)
	if cfg.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.Store)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.RequestTimeout)
	}
	// Keys absent from the file keep their defaults
	if cfg.Encryption != EncryptionNone {
		t.Errorf("expected encryption none, got %q", cfg.Encryption)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BUDDY_DATA_DIR", "/srv/buddy")
	t.Setenv("BUDDY_STORE", "memory")

	cfg := fromSystemConfig(DefaultSystemConfig())
	cfg.applyEnvOverrides()

	if cfg.DataDirectory != "/srv/buddy" {
		t.Errorf("expected data dir override, got %q", cfg.DataDirectory)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("expected store override, got %q", cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{Store: StoreFile, Encryption: EncryptionNone},
		},
		{
			name:    "unknown store",
			cfg:     Config{Store: "postgres", Encryption: EncryptionNone},
			wantErr: true,
		},
		{
			name:    "unknown encryption",
			cfg:     Config{Store: StoreFile, Encryption: "rot13"},
			wantErr: true,
		},
		{
			name:    "ssh_key without key path",
			cfg:     Config{Store: StoreFile, Encryption: EncryptionSSHKey},
			wantErr: true,
		},
		{
			name:    "ssh_key with sqlite store",
			cfg:     Config{Store: StoreSQLite, Encryption: EncryptionSSHKey, SSHKeyPath: "~/.ssh/id_ed25519"},
			wantErr: true,
		},
		{
			name: "ssh_key with file store",
			cfg:  Config{Store: StoreFile, Encryption: EncryptionSSHKey, SSHKeyPath: "~/.ssh/id_ed25519"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateDefaultsTimeout(t *testing.T) {
	cfg := Config{Store: StoreFile, Encryption: EncryptionNone}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultRequestTimeout, cfg.RequestTimeout)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("BUDDY_TEST_DIR", "data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~/buddy", "/home/tester/buddy"},
		{"/var/$BUDDY_TEST_DIR/", "/var/data"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
