package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

func LoadSystemConfig() (*SystemConfig, error) {
	return LoadSystemConfigFromPath(GetSettingsFilePath())
}

// LoadSystemConfigFromPath decodes settings.toml at path on top of the
// defaults. A missing file is created from the commented template.
func LoadSystemConfigFromPath(settingsPath string) (*SystemConfig, error) {
	cfg := DefaultSystemConfig()

	if !FileExists(settingsPath) {
		if err := CreateDefaultSystemConfig(settingsPath); err != nil {
			return nil, fmt.Errorf("failed to create system config: %w", err)
		}
		return cfg, nil
	}

	_, err := toml.DecodeFile(settingsPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	return cfg, nil
}

func CreateDefaultSystemConfig(settingsPath string) error {
	if err := EnsureDir(dirOf(settingsPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(settingsPath) {
		return nil
	}

	content := GenerateSystemConfigTemplate()
	if err := os.WriteFile(settingsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write system config: %w", err)
	}

	return nil
}
