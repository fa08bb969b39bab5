package testutil

import (
	"context"
	"sync"

	"buddy/model"
)

// SendCall records one SendMessage invocation.
type SendCall struct {
	History      []model.Message
	SystemPrompt string
	MaxTokens    int
}

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	SendMessageFunc    func(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) model.Result
	TestConnectionFunc func(ctx context.Context) model.ConnectionResult
	ListModelsFunc     func(ctx context.Context) ([]model.ModelInfo, error)

	// State
	id       string
	needsKey bool
	apiKey   string

	mu    sync.Mutex
	calls []SendCall
}

// NewMockProvider creates a mock provider that replies "Mock response".
func NewMockProvider(id string) *MockProvider {
	mock := &MockProvider{id: id, needsKey: true, apiKey: "mock-key"}
	mock.SendMessageFunc = mock.defaultSendMessage
	mock.TestConnectionFunc = mock.defaultTestConnection
	return mock
}

// NewFailingMockProvider creates a mock provider whose every send fails with err.
func NewFailingMockProvider(id string, err error) *MockProvider {
	mock := NewMockProvider(id)
	mock.SendMessageFunc = func(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) model.Result {
		return model.Result{Err: err}
	}
	return mock
}

func (m *MockProvider) defaultSendMessage(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) model.Result {
	return model.Result{Response: "Mock response"}
}

func (m *MockProvider) defaultTestConnection(ctx context.Context) model.ConnectionResult {
	return model.ConnectionResult{Success: true}
}

// SetAPIKey changes the key used by ValidateAPIKey.
func (m *MockProvider) SetAPIKey(key string) {
	m.apiKey = key
}

func (m *MockProvider) Name() string { return "Mock (" + m.id + ")" }

func (m *MockProvider) ID() string { return m.id }

func (m *MockProvider) AvailableModels() []model.ModelInfo {
	return []model.ModelInfo{
		{ID: "mock-model-1", Name: "Mock Model 1"},
		{ID: "mock-model-2", Name: "Mock Model 2"},
	}
}

func (m *MockProvider) RequiresAPIKey() bool { return m.needsKey }

func (m *MockProvider) ValidateAPIKey() bool {
	return !m.needsKey || m.apiKey != ""
}

func (m *MockProvider) SendMessage(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) model.Result {
	m.mu.Lock()
	m.calls = append(m.calls, SendCall{
		History:      append([]model.Message(nil), history...),
		SystemPrompt: systemPrompt,
		MaxTokens:    maxTokens,
	})
	m.mu.Unlock()

	return m.SendMessageFunc(ctx, history, systemPrompt, maxTokens)
}

func (m *MockProvider) TestConnection(ctx context.Context) model.ConnectionResult {
	return m.TestConnectionFunc(ctx)
}

// Calls returns every SendMessage invocation so far.
func (m *MockProvider) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendCall(nil), m.calls...)
}

// MockListingProvider is a MockProvider that also implements model.ModelLister.
type MockListingProvider struct {
	*MockProvider
}

func NewMockListingProvider(id string, list func(ctx context.Context) ([]model.ModelInfo, error)) *MockListingProvider {
	mock := NewMockProvider(id)
	mock.ListModelsFunc = list
	return &MockListingProvider{MockProvider: mock}
}

func (m *MockListingProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

// MockRegistry implements model.ProviderRegistry over a fixed set of
// provider instances. Create returns the same instance every time and
// records the config it was asked to build from.
type MockRegistry struct {
	Providers map[string]model.Provider
	Defaults  map[string]model.ProviderConfig
	Order     []string

	mu      sync.Mutex
	created []CreateCall
}

// CreateCall records one Create invocation.
type CreateCall struct {
	ID     string
	Config model.ProviderConfig
}

func NewMockRegistry(providers ...model.Provider) *MockRegistry {
	r := &MockRegistry{
		Providers: make(map[string]model.Provider),
		Defaults:  make(map[string]model.ProviderConfig),
	}
	for _, p := range providers {
		r.Providers[p.ID()] = p
		r.Defaults[p.ID()] = model.ProviderConfig{Model: "default-" + p.ID(), BaseURL: "http://" + p.ID() + ".test"}
		r.Order = append(r.Order, p.ID())
	}
	return r
}

func (r *MockRegistry) Create(id string, cfg model.ProviderConfig) (model.Provider, error) {
	r.mu.Lock()
	r.created = append(r.created, CreateCall{ID: id, Config: cfg})
	r.mu.Unlock()

	p, ok := r.Providers[id]
	if !ok {
		return nil, &model.UnknownProviderError{ID: id}
	}
	return p, nil
}

// Created returns every Create invocation so far.
func (r *MockRegistry) Created() []CreateCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CreateCall(nil), r.created...)
}

func (r *MockRegistry) ListAvailable() []model.ProviderInfo {
	infos := make([]model.ProviderInfo, 0, len(r.Order))
	for _, id := range r.Order {
		p := r.Providers[id]
		infos = append(infos, model.ProviderInfo{
			ID:             id,
			Name:           p.Name(),
			RequiresAPIKey: p.RequiresAPIKey(),
			Models:         p.AvailableModels(),
		})
	}
	return infos
}

func (r *MockRegistry) DefaultConfig(id string) (model.ProviderConfig, bool) {
	cfg, ok := r.Defaults[id]
	return cfg, ok
}

func (r *MockRegistry) AllDefaultConfigs() map[string]model.ProviderConfig {
	out := make(map[string]model.ProviderConfig, len(r.Defaults))
	for id, cfg := range r.Defaults {
		out[id] = cfg
	}
	return out
}

func (r *MockRegistry) IDs() []string {
	return append([]string(nil), r.Order...)
}
