package provider

import (
	"net/http"
	"time"

	"buddy/config"
	"buddy/model"
)

var defaultConfigs = map[string]model.ProviderConfig{
	IDXAI: {
		Model:   "grok-3-mini",
		BaseURL: "https://api.x.ai/v1",
	},
	IDAnthropic: {
		Model:   "claude-sonnet-4-20250514",
		BaseURL: "https://api.anthropic.com",
	},
	IDOpenAI: {
		Model:   "gpt-4o-mini",
		BaseURL: "https://api.openai.com/v1",
	},
	IDCustom: {
		Model:   "llama2",
		BaseURL: "http://localhost:11434/v1",
	},
}

// Creator builds a provider from its stored configuration.
type Creator func(cfg model.ProviderConfig, client *http.Client) model.Provider

// Registry maps provider ids to constructors. It implements
// model.ProviderRegistry.
type Registry struct {
	creators map[string]Creator
	order    []string
	client   *http.Client
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient makes every created provider share client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) {
		r.client = client
	}
}

// WithTimeout bounds every provider request.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		r.client = &http.Client{Timeout: timeout}
	}
}

// NewRegistry returns a registry with the four built-in providers
// registered in the order xai, anthropic, openai, custom.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		creators: make(map[string]Creator),
		client:   &http.Client{Timeout: config.DefaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(r)
	}

	r.Register(IDXAI, func(cfg model.ProviderConfig, c *http.Client) model.Provider {
		return NewXAIProvider(cfg, c)
	})
	r.Register(IDAnthropic, func(cfg model.ProviderConfig, c *http.Client) model.Provider {
		return NewAnthropicProvider(cfg, c)
	})
	r.Register(IDOpenAI, func(cfg model.ProviderConfig, c *http.Client) model.Provider {
		return NewOpenAIProvider(cfg, c)
	})
	r.Register(IDCustom, func(cfg model.ProviderConfig, c *http.Client) model.Provider {
		return NewCustomProvider(cfg, c)
	})

	return r
}

// Register adds or replaces the constructor for id.
func (r *Registry) Register(id string, creator Creator) {
	if _, exists := r.creators[id]; !exists {
		r.order = append(r.order, id)
	}
	r.creators[id] = creator
}

// Create builds the provider registered as id.
func (r *Registry) Create(id string, cfg model.ProviderConfig) (model.Provider, error) {
	creator, ok := r.creators[id]
	if !ok {
		return nil, &model.UnknownProviderError{ID: id}
	}

	if config.Debug {
		config.DebugLog.Printf("[Registry] Create: %s (model=%q baseURL=%q)", id, cfg.Model, cfg.BaseURL)
	}

	return creator(cfg, r.client), nil
}

// ListAvailable describes every registered provider. It needs no credentials.
func (r *Registry) ListAvailable() []model.ProviderInfo {
	infos := make([]model.ProviderInfo, 0, len(r.order))
	for _, id := range r.order {
		p := r.creators[id](model.ProviderConfig{}, r.client)
		infos = append(infos, model.ProviderInfo{
			ID:             id,
			Name:           p.Name(),
			RequiresAPIKey: p.RequiresAPIKey(),
			Models:         p.AvailableModels(),
		})
	}
	return infos
}

// DefaultConfig returns the first-run configuration for id.
func (r *Registry) DefaultConfig(id string) (model.ProviderConfig, bool) {
	cfg, ok := defaultConfigs[id]
	return cfg, ok
}

// AllDefaultConfigs returns a fresh copy of every default configuration.
func (r *Registry) AllDefaultConfigs() map[string]model.ProviderConfig {
	out := make(map[string]model.ProviderConfig, len(r.order))
	for _, id := range r.order {
		if cfg, ok := defaultConfigs[id]; ok {
			out[id] = cfg
		}
	}
	return out
}

// IDs returns the registered provider ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
