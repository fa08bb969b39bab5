package model

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"buddy/config"
	"buddy/storage"
)

const errInvalidProvider = "Invalid provider"

// MaskedConfig is the provider configuration with API keys redacted.
type MaskedConfig struct {
	AIProvider string                    `json:"aiProvider"`
	Providers  map[string]ProviderConfig `json:"providers"`
}

// GetActiveProvider returns the selected provider id, defaulting to xai.
func (s *Service) GetActiveProvider() string {
	var id string
	if _, err := s.store.Get(storage.KeyAIProvider, &id); err != nil && config.Debug {
		config.DebugLog.Printf("[Service] GetActiveProvider: %v", err)
	}
	if id == "" {
		return DefaultProviderID
	}
	return id
}

// SetActiveProvider switches providers; the next turn builds a fresh instance.
func (s *Service) SetActiveProvider(id string) OpResult {
	if !s.isRegistered(id) {
		return OpResult{Error: errInvalidProvider}
	}

	if err := s.store.Set(storage.KeyAIProvider, id); err != nil {
		return OpResult{Error: fmt.Sprintf("failed to save provider: %v", err)}
	}

	s.invalidateProvider()
	return OpResult{Success: true}
}

func (s *Service) SetProviderAPIKey(id, apiKey string) OpResult {
	return s.updateProvider(id, func(cfg *ProviderConfig) { cfg.APIKey = apiKey })
}

func (s *Service) SetProviderModel(id, modelID string) OpResult {
	return s.updateProvider(id, func(cfg *ProviderConfig) { cfg.Model = modelID })
}

func (s *Service) SetProviderBaseURL(id, baseURL string) OpResult {
	return s.updateProvider(id, func(cfg *ProviderConfig) { cfg.BaseURL = baseURL })
}

// updateProvider rewrites the whole providers map with one entry changed.
func (s *Service) updateProvider(id string, mutate func(*ProviderConfig)) OpResult {
	if !s.isRegistered(id) {
		return OpResult{Error: errInvalidProvider}
	}

	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	providers := s.providers()
	cfg := providers[id]
	mutate(&cfg)
	providers[id] = cfg

	if err := s.store.Set(storage.KeyProviders, providers); err != nil {
		return OpResult{Error: fmt.Sprintf("failed to save provider settings: %v", err)}
	}

	if id == s.GetActiveProvider() {
		s.invalidateProvider()
	}
	return OpResult{Success: true}
}

// ListProviders reports every registered provider and its suggested models.
func (s *Service) ListProviders() []ProviderInfo {
	return s.registry.ListAvailable()
}

// GetMaskedConfig returns the active provider and all provider settings
// with API keys masked for display.
func (s *Service) GetMaskedConfig() MaskedConfig {
	providers := s.providers()
	for id, cfg := range providers {
		cfg.APIKey = MaskAPIKey(cfg.APIKey)
		providers[id] = cfg
	}

	return MaskedConfig{
		AIProvider: s.GetActiveProvider(),
		Providers:  providers,
	}
}

// TestConnection checks provider id with its stored settings, whether or
// not it is the active provider.
func (s *Service) TestConnection(ctx context.Context, id string) ConnectionResult {
	p, err := s.registry.Create(id, s.providerConfig(id))
	if err != nil {
		var unknown *UnknownProviderError
		if errors.As(err, &unknown) {
			return ConnectionResult{Error: errInvalidProvider}
		}
		return ConnectionResult{Error: err.Error()}
	}

	return p.TestConnection(ctx)
}

// ListProviderModels asks the backend for its models and falls back to the
// provider's suggested list when discovery is unsupported or fails.
func (s *Service) ListProviderModels(ctx context.Context, id string) ([]ModelInfo, error) {
	p, err := s.registry.Create(id, s.providerConfig(id))
	if err != nil {
		return nil, err
	}

	lister, ok := p.(ModelLister)
	if !ok {
		return p.AvailableModels(), nil
	}

	models, err := lister.ListModels(ctx)
	if err != nil || len(models) == 0 {
		if config.Debug {
			config.DebugLog.Printf("[Service] ListProviderModels: %s discovery unavailable (err=%v), using suggested models", id, err)
		}
		return p.AvailableModels(), nil
	}
	return models, nil
}

// GetSetting decodes an arbitrary setting into dst.
func (s *Service) GetSetting(key string, dst any) (bool, error) {
	return s.store.Get(key, dst)
}

// SetSetting stores an arbitrary setting. Writes to provider keys drop
// the cached provider.
func (s *Service) SetSetting(key string, value any) OpResult {
	if err := s.store.Set(key, value); err != nil {
		return OpResult{Error: err.Error()}
	}

	switch key {
	case storage.KeyAIProvider, storage.KeyProviders:
		s.invalidateProvider()
	}
	return OpResult{Success: true}
}

func (s *Service) GetUserName() string {
	var name string
	if _, err := s.store.Get(storage.KeyUserName, &name); err != nil && config.Debug {
		config.DebugLog.Printf("[Service] GetUserName: %v", err)
	}
	return name
}

func (s *Service) SetUserName(name string) OpResult {
	return s.SetSetting(storage.KeyUserName, name)
}

// providers returns the stored providers map with any missing registered
// provider seeded from its defaults.
func (s *Service) providers() map[string]ProviderConfig {
	providers := make(map[string]ProviderConfig)
	if _, err := s.store.Get(storage.KeyProviders, &providers); err != nil && config.Debug {
		config.DebugLog.Printf("[Service] providers: %v", err)
	}
	if providers == nil {
		providers = make(map[string]ProviderConfig)
	}

	for id, def := range s.registry.AllDefaultConfigs() {
		if _, ok := providers[id]; !ok {
			providers[id] = def
		}
	}
	return providers
}

func (s *Service) providerConfig(id string) ProviderConfig {
	return s.providers()[id]
}

func (s *Service) isRegistered(id string) bool {
	return slices.Contains(s.registry.IDs(), id)
}
