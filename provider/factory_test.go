package provider_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"buddy/model"
	"buddy/provider"
)

func TestRegistryCreateRoundTripsID(t *testing.T) {
	reg := provider.NewRegistry()

	for _, id := range reg.IDs() {
		t.Run(id, func(t *testing.T) {
			p, err := reg.Create(id, model.ProviderConfig{APIKey: "k"})
			if err != nil {
				t.Fatalf("Create(%q) error = %v", id, err)
			}
			if p.ID() != id {
				t.Errorf("Create(%q).ID() = %q", id, p.ID())
			}
		})
	}
}

func TestRegistryCreateUnknown(t *testing.T) {
	reg := provider.NewRegistry()

	_, err := reg.Create("bonzinet", model.ProviderConfig{})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}

	var unknown *model.UnknownProviderError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *model.UnknownProviderError, got %T", err)
	}
	if err.Error() != "Unknown provider: bonzinet" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestRegistryListAvailable(t *testing.T) {
	reg := provider.NewRegistry()
	infos := reg.ListAvailable()

	wantOrder := []string{"xai", "anthropic", "openai", "custom"}
	if len(infos) != len(wantOrder) {
		t.Fatalf("expected %d providers, got %d", len(wantOrder), len(infos))
	}

	for i, info := range infos {
		if info.ID != wantOrder[i] {
			t.Errorf("infos[%d].ID = %q, want %q", i, info.ID, wantOrder[i])
		}
		if info.Name == "" {
			t.Errorf("%s: empty name", info.ID)
		}
		if len(info.Models) == 0 {
			t.Errorf("%s: no suggested models", info.ID)
		}
		wantKey := info.ID != "custom"
		if info.RequiresAPIKey != wantKey {
			t.Errorf("%s: RequiresAPIKey = %v, want %v", info.ID, info.RequiresAPIKey, wantKey)
		}
	}
}

func TestRegistryDefaultConfigs(t *testing.T) {
	reg := provider.NewRegistry()

	tests := []struct {
		id      string
		model   string
		baseURL string
	}{
		{"xai", "grok-3-mini", "https://api.x.ai/v1"},
		{"anthropic", "claude-sonnet-4-20250514", "https://api.anthropic.com"},
		{"openai", "gpt-4o-mini", "https://api.openai.com/v1"},
		{"custom", "llama2", "http://localhost:11434/v1"},
	}

	all := reg.AllDefaultConfigs()
	if len(all) != len(tests) {
		t.Errorf("AllDefaultConfigs() has %d entries, want %d", len(all), len(tests))
	}

	for _, tt := range tests {
		cfg, ok := reg.DefaultConfig(tt.id)
		if !ok {
			t.Errorf("DefaultConfig(%q) not found", tt.id)
			continue
		}
		if cfg.APIKey != "" || cfg.Model != tt.model || cfg.BaseURL != tt.baseURL {
			t.Errorf("DefaultConfig(%q) = %+v", tt.id, cfg)
		}
		if all[tt.id] != cfg {
			t.Errorf("AllDefaultConfigs()[%q] = %+v, want %+v", tt.id, all[tt.id], cfg)
		}
	}

	if _, ok := reg.DefaultConfig("nope"); ok {
		t.Error("DefaultConfig(nope) should not be found")
	}

	// Mutating the returned map must not leak into later calls
	all["xai"] = model.ProviderConfig{APIKey: "leak"}
	if reg.AllDefaultConfigs()["xai"].APIKey != "" {
		t.Error("AllDefaultConfigs() returned shared state")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := provider.NewRegistry(provider.WithTimeout(5 * time.Second))

	reg.Register("openai", func(cfg model.ProviderConfig, c *http.Client) model.Provider {
		return provider.NewCustomProvider(cfg, c)
	})

	if got := len(reg.IDs()); got != 4 {
		t.Errorf("re-registering must not add an id, got %d ids", got)
	}

	p, err := reg.Create("openai", model.ProviderConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "custom" {
		t.Errorf("expected replaced creator, got provider %q", p.ID())
	}
}

func TestProvidersFallBackToDefaults(t *testing.T) {
	p := provider.NewAnthropicProvider(model.ProviderConfig{APIKey: "k"}, nil)

	cfg := p.Config()
	if cfg.Model != "claude-sonnet-4-20250514" || cfg.BaseURL != "https://api.anthropic.com" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
