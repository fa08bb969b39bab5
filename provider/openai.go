package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"buddy/model"
)

var openAIModels = []model.ModelInfo{
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
	{ID: "gpt-4o", Name: "GPT-4o"},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
	{ID: "gpt-4", Name: "GPT-4"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
}

// chatCompletionsWire is the OpenAI chat completions format, also spoken by
// xAI and most local inference servers.
type chatCompletionsWire struct{}

func (chatCompletionsWire) headers(cfg model.ProviderConfig) http.Header {
	h := make(http.Header)
	NewBearerAuth(cfg.APIKey).Apply(h)
	return h
}

func (chatCompletionsWire) endpoint(cfg model.ProviderConfig) string {
	return cfg.BaseURL + "/chat/completions"
}

func (chatCompletionsWire) formatMessages(history []model.Message, systemPrompt string) formattedMessages {
	return formattedMessages{Messages: withSystemMessage(history, systemPrompt)}
}

func (chatCompletionsWire) buildRequestBody(cfg model.ProviderConfig, msgs formattedMessages, maxTokens int) any {
	return chatCompletionRequest{
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Messages:  msgs.Messages,
	}
}

func (chatCompletionsWire) extractResponse(body []byte) (string, bool) {
	return stringAt(body, "choices.0.message.content")
}

func (chatCompletionsWire) extractErrorMessage(body []byte, status int) string {
	if msg, ok := firstMessage(body, "error.message"); ok {
		return msg
	}
	return genericErrorMessage(status)
}

// OpenAIProvider talks to the OpenAI chat completions API.
type OpenAIProvider struct {
	base
}

// NewOpenAIProvider creates an OpenAI provider. Empty model and base URL
// fall back to gpt-4o-mini and https://api.openai.com/v1.
func NewOpenAIProvider(cfg model.ProviderConfig, client *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		base: newBase(IDOpenAI, "OpenAI (ChatGPT)", cfg, client, openAIModels, chatCompletionsWire{}),
	}
}

// ListModels implements model.ModelLister.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	if !p.ValidateAPIKey() {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return listOpenAICompatibleModels(ctx, p.cfg, p.client)
}

// listOpenAICompatibleModels calls GET {base}/models through the OpenAI SDK.
func listOpenAICompatibleModels(ctx context.Context, cfg model.ProviderConfig, httpClient *http.Client) ([]model.ModelInfo, error) {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.APIKey == "" {
		// Do not forward OPENAI_API_KEY from the environment to a keyless server
		opts = append(opts, option.WithHeaderDel("Authorization"))
	}

	client := openai.NewClient(opts...)

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	result := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		result = append(result, model.ModelInfo{ID: m.ID, Name: m.ID})
	}

	return result, nil
}
