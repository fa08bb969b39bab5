// Package provider implements the chat-completion backends behind
// model.Provider.
//
// Every backend differs only in how it authenticates, how it shapes the
// request body, and where it finds the reply or error text in the response.
// Those points are captured by wireFormat; the request itself, API key
// validation and error mapping live once in base.SendMessage.
//
// # Architecture
//
//   - model.Provider defines the contract (interface)
//   - XAIProvider, OpenAIProvider, CustomProvider speak OpenAI chat completions
//   - AnthropicProvider speaks the Anthropic messages API
//   - Registry creates providers by id and reports their defaults
//
// # Usage
//
//	reg := provider.NewRegistry(provider.WithTimeout(60 * time.Second))
//	p, err := reg.Create("anthropic", model.ProviderConfig{APIKey: key})
//	if err != nil {
//	    // handle error
//	}
//	res := p.SendMessage(ctx, history, systemPrompt, 256)
package provider

import (
	"net/http"

	"buddy/model"
)

// Note: The Provider interface is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// Provider ids, in the order the registry lists them.
const (
	IDXAI       = "xai"
	IDAnthropic = "anthropic"
	IDOpenAI    = "openai"
	IDCustom    = "custom"
)

// wireFormat is the backend-specific half of a provider.
type wireFormat interface {
	headers(cfg model.ProviderConfig) http.Header
	endpoint(cfg model.ProviderConfig) string
	formatMessages(history []model.Message, systemPrompt string) formattedMessages
	buildRequestBody(cfg model.ProviderConfig, msgs formattedMessages, maxTokens int) any
	// extractResponse returns false when body does not have the expected shape.
	extractResponse(body []byte) (string, bool)
	// extractErrorMessage receives "{}" when the error body was not JSON.
	extractErrorMessage(body []byte, status int) string
}

// formattedMessages is the output of formatMessages. System is only set by
// wire formats that carry the system prompt outside the message array.
type formattedMessages struct {
	System   string
	Messages []wireMessage
}
