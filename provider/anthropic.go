package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"buddy/model"
)

// anthropicVersion is sent as the anthropic-version header.
const anthropicVersion = "2023-06-01"

var anthropicModels = []model.ModelInfo{
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4"},
	{ID: "claude-opus-4-20250514", Name: "Claude Opus 4"},
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet"},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku"},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
}

// anthropicWire is the Anthropic messages format: the system prompt is a
// top-level field and the message array holds only user/assistant turns.
type anthropicWire struct{}

func (anthropicWire) headers(cfg model.ProviderConfig) http.Header {
	h := make(http.Header)
	NewHeaderAuth(cfg.APIKey, "x-api-key", "").Apply(h)
	h.Set("anthropic-version", anthropicVersion)
	return h
}

func (anthropicWire) endpoint(cfg model.ProviderConfig) string {
	return cfg.BaseURL + "/v1/messages"
}

func (anthropicWire) formatMessages(history []model.Message, systemPrompt string) formattedMessages {
	return formattedMessages{
		System:   systemPrompt,
		Messages: ConvertToWireMessages(history),
	}
}

func (anthropicWire) buildRequestBody(cfg model.ProviderConfig, msgs formattedMessages, maxTokens int) any {
	return anthropicMessagesRequest{
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		System:    msgs.System,
		Messages:  msgs.Messages,
	}
}

func (anthropicWire) extractResponse(body []byte) (string, bool) {
	return stringAt(body, "content.0.text")
}

func (anthropicWire) extractErrorMessage(body []byte, status int) string {
	if msg, ok := firstMessage(body, "error.message", "message"); ok {
		return msg
	}
	return genericErrorMessage(status)
}

// AnthropicProvider talks to the Anthropic messages API.
type AnthropicProvider struct {
	base
}

// NewAnthropicProvider creates an Anthropic provider. Empty model and base
// URL fall back to claude-sonnet-4-20250514 and https://api.anthropic.com.
func NewAnthropicProvider(cfg model.ProviderConfig, client *http.Client) *AnthropicProvider {
	return &AnthropicProvider{
		base: newBase(IDAnthropic, "Anthropic (Claude)", cfg, client, anthropicModels, anthropicWire{}),
	}
}

// ListModels implements model.ModelLister via GET /v1/models.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	if !p.ValidateAPIKey() {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	client := anthropic.NewClient(
		option.WithBaseURL(p.cfg.BaseURL),
		option.WithAPIKey(p.cfg.APIKey),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	)

	page, err := client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Anthropic models: %w", err)
	}

	result := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		name := m.DisplayName
		if name == "" {
			name = m.ID
		}
		result = append(result, model.ModelInfo{ID: m.ID, Name: name})
	}

	return result, nil
}
