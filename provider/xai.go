package provider

import (
	"context"
	"fmt"
	"net/http"

	"buddy/model"
)

var xaiModels = []model.ModelInfo{
	{ID: "grok-3-mini", Name: "Grok 3 Mini"},
	{ID: "grok-3", Name: "Grok 3"},
	{ID: "grok-2", Name: "Grok 2"},
	{ID: "grok-2-mini", Name: "Grok 2 Mini"},
}

// XAIProvider talks to xAI's OpenAI-compatible API.
type XAIProvider struct {
	base
}

// NewXAIProvider creates an xAI provider. Empty model and base URL fall
// back to grok-3-mini and https://api.x.ai/v1.
func NewXAIProvider(cfg model.ProviderConfig, client *http.Client) *XAIProvider {
	return &XAIProvider{
		base: newBase(IDXAI, "xAI (Grok)", cfg, client, xaiModels, chatCompletionsWire{}),
	}
}

// ListModels implements model.ModelLister.
func (p *XAIProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	if !p.ValidateAPIKey() {
		return nil, fmt.Errorf("xAI API key is required")
	}
	return listOpenAICompatibleModels(ctx, p.cfg, p.client)
}
