package model

import "context"

// Provider abstracts a chat-completion backend (xAI, OpenAI, Anthropic or a
// custom OpenAI-compatible server).
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations can import model, and model can use the
// Provider interface without importing the provider package.
type Provider interface {
	// Name returns the human-readable provider name, e.g. "Anthropic (Claude)".
	Name() string

	// ID returns the stable identifier used as the key in persisted settings.
	ID() string

	// AvailableModels returns a short list of suggested models. It does not
	// hit the network.
	AvailableModels() []ModelInfo

	// RequiresAPIKey reports whether requests need a non-empty API key.
	RequiresAPIKey() bool

	// ValidateAPIKey reports whether the configured key satisfies RequiresAPIKey.
	ValidateAPIKey() bool

	// SendMessage performs one non-streaming completion. The system prompt
	// is supplied separately and is never part of history.
	SendMessage(ctx context.Context, history []Message, systemPrompt string, maxTokens int) Result

	// TestConnection sends a minimal one-word request.
	TestConnection(ctx context.Context) ConnectionResult
}

// ModelLister is implemented by providers that can enumerate models from
// the backend itself.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ProviderRegistry constructs providers by id. provider.Registry is the
// production implementation.
type ProviderRegistry interface {
	Create(id string, cfg ProviderConfig) (Provider, error)
	ListAvailable() []ProviderInfo
	DefaultConfig(id string) (ProviderConfig, bool)
	AllDefaultConfigs() map[string]ProviderConfig
	IDs() []string
}

// ModelInfo describes one selectable model.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProviderInfo is the discovery record reported for each registered provider.
type ProviderInfo struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	RequiresAPIKey bool        `json:"requiresApiKey"`
	Models         []ModelInfo `json:"models"`
}

// ProviderConfig is the persisted per-provider configuration.
type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseURL string `json:"baseUrl"`
}

// Result is the outcome of SendMessage: exactly one of Response or Err is set.
type Result struct {
	Response string
	Err      error
}

// OK reports whether the result carries a response.
func (r Result) OK() bool {
	return r.Err == nil
}

// ConnectionResult is the outcome of a connection check.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
