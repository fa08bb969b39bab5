package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory:         "~/.local/share/buddy",
		Store:                 string(StoreFile),
		Encryption:            string(EncryptionNone),
		RequestTimeoutSeconds: int(DefaultRequestTimeout.Seconds()),
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Buddy System Configuration
# Location: ~/.config/buddy/settings.toml
# This file uses TOML format: https://toml.io

# Directory where persisted settings and the debug log are stored
data_directory = "~/.local/share/buddy"

# Settings backend: "file" (settings.json / settings.enc), "sqlite" (settings.db)
# or "memory" (nothing survives a restart)
store = "file"

# At-rest encryption for the file store: "none" or "ssh_key"
# ssh_key derives an AES-256 key from a signature made with the key below
encryption = "none"
# ssh_key_path = "~/.ssh/id_ed25519"

# Upper bound for a single request to an AI provider
request_timeout_seconds = 60
`
}
