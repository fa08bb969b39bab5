package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"buddy/config"
	"buddy/model"
	"buddy/ollama"
)

var customModels = []model.ModelInfo{
	{ID: "llama2", Name: "Llama 2 (default)"},
	{ID: "llama3", Name: "Llama 3"},
	{ID: "mistral", Name: "Mistral"},
	{ID: "codellama", Name: "Code Llama"},
	{ID: "phi", Name: "Phi"},
}

// customWire is chat completions as spoken by local servers (Ollama,
// LM Studio, llama.cpp): keyless by default, explicit stream:false, and
// tolerant of a bare {"message":{"content"}} reply.
type customWire struct {
	chatCompletionsWire
}

func (customWire) endpoint(cfg model.ProviderConfig) string {
	return trimTrailingSlash(cfg.BaseURL) + "/chat/completions"
}

func (customWire) buildRequestBody(cfg model.ProviderConfig, msgs formattedMessages, maxTokens int) any {
	stream := false
	return chatCompletionRequest{
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Messages:  msgs.Messages,
		Stream:    &stream,
	}
}

func (customWire) extractResponse(body []byte) (string, bool) {
	if text, ok := stringAt(body, "choices.0.message.content"); ok {
		return text, true
	}
	return stringAt(body, "message.content")
}

func (customWire) extractErrorMessage(body []byte, status int) string {
	if msg, ok := firstMessage(body, "error.message", "error", "message"); ok {
		return msg
	}
	return fmt.Sprintf("Custom endpoint request failed with status %d", status)
}

// CustomProvider talks to any OpenAI-compatible endpoint, typically a
// local server. It does not require an API key.
type CustomProvider struct {
	base
}

// NewCustomProvider creates a custom provider. Empty model and base URL
// fall back to llama2 and http://localhost:11434/v1 (Ollama).
func NewCustomProvider(cfg model.ProviderConfig, client *http.Client) *CustomProvider {
	p := &CustomProvider{
		base: newBase(IDCustom, "Custom/Local", cfg, client, customModels, customWire{}),
	}
	p.requiresKey = false
	return p
}

// ListModels implements model.ModelLister. It tries GET {base}/models and
// then Ollama's native /api/tags.
func (p *CustomProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	cfg := p.cfg
	cfg.BaseURL = trimTrailingSlash(cfg.BaseURL)

	models, err := listOpenAICompatibleModels(ctx, cfg, p.client)
	if err == nil && len(models) > 0 {
		return models, nil
	}

	if config.Debug {
		config.DebugLog.Printf("[Provider:custom] /models failed (%v), trying Ollama /api/tags", err)
	}

	client, ollamaErr := ollama.NewClient(ollamaRoot(cfg.BaseURL), p.client)
	if ollamaErr != nil {
		return nil, ollamaErr
	}

	local, ollamaErr := client.ListModels(ctx)
	if ollamaErr != nil {
		return nil, fmt.Errorf("failed to list custom models: %w", ollamaErr)
	}

	result := make([]model.ModelInfo, 0, len(local))
	for _, m := range local {
		result = append(result, model.ModelInfo{ID: m.Name, Name: m.Name})
	}
	return result, nil
}

// ollamaRoot strips the OpenAI-compatibility suffix from an Ollama base URL.
func ollamaRoot(baseURL string) string {
	return strings.TrimSuffix(trimTrailingSlash(baseURL), "/v1")
}
