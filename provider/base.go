package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"buddy/config"
	"buddy/model"
)

// genericErrorMessage is the fallback when an error body has no usable message.
func genericErrorMessage(status int) string {
	return fmt.Sprintf("API request failed with status %d", status)
}

// base holds what every provider shares and implements the request
// algorithm once. Concrete providers embed it and supply a wireFormat.
type base struct {
	id          string
	name        string
	cfg         model.ProviderConfig
	requiresKey bool
	models      []model.ModelInfo
	client      *http.Client
	wire        wireFormat
}

// withDefaults fills an empty model or base URL from def.
func withDefaults(cfg, def model.ProviderConfig) model.ProviderConfig {
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	return cfg
}

func newBase(id, name string, cfg model.ProviderConfig, client *http.Client, models []model.ModelInfo, wire wireFormat) base {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultRequestTimeout}
	}

	return base{
		id:          id,
		name:        name,
		cfg:         withDefaults(cfg, defaultConfigs[id]),
		requiresKey: true,
		models:      models,
		client:      client,
		wire:        wire,
	}
}

func (b *base) Name() string { return b.name }

func (b *base) ID() string { return b.id }

// AvailableModels returns the suggested model list.
func (b *base) AvailableModels() []model.ModelInfo {
	return append([]model.ModelInfo(nil), b.models...)
}

func (b *base) RequiresAPIKey() bool { return b.requiresKey }

func (b *base) ValidateAPIKey() bool {
	return !b.requiresKey || b.cfg.APIKey != ""
}

// Config returns the effective configuration (defaults applied).
func (b *base) Config() model.ProviderConfig { return b.cfg }

// SendMessage implements model.Provider.SendMessage.
func (b *base) SendMessage(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) model.Result {
	if !b.ValidateAPIKey() {
		return model.Result{Err: &model.ConfigurationError{
			Provider: b.id,
			Message:  fmt.Sprintf("No API key configured for %s. Please set your API key in Settings.", b.name),
		}}
	}

	text, err := b.send(ctx, history, systemPrompt, maxTokens)
	if err != nil {
		return model.Result{Err: err}
	}
	return model.Result{Response: text}
}

func (b *base) send(ctx context.Context, history []model.Message, systemPrompt string, maxTokens int) (string, error) {
	msgs := b.wire.formatMessages(history, systemPrompt)
	body, err := json.Marshal(b.wire.buildRequestBody(b.cfg, msgs, maxTokens))
	if err != nil {
		return "", b.requestError(0, fmt.Sprintf("failed to marshal request: %v", err))
	}

	url := b.wire.endpoint(b.cfg)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", b.requestError(0, fmt.Sprintf("failed to create request: %v", err))
	}

	for key, values := range b.wire.headers(b.cfg) {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	if config.Debug {
		config.DebugLog.Printf("[Provider:%s] POST %s model=%s messages=%d max_tokens=%d", b.id, url, b.cfg.Model, len(msgs.Messages), maxTokens)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", b.requestError(0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", b.requestError(resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if !gjson.ValidBytes(respBody) {
			respBody = []byte("{}")
		}
		msg := b.wire.extractErrorMessage(respBody, resp.StatusCode)

		if config.Debug {
			config.DebugLog.Printf("[Provider:%s] status %d: %s", b.id, resp.StatusCode, msg)
		}
		return "", b.requestError(resp.StatusCode, msg)
	}

	if !gjson.ValidBytes(respBody) {
		return "", b.unexpectedFormat(resp.StatusCode)
	}

	text, ok := b.wire.extractResponse(respBody)
	if !ok {
		return "", b.unexpectedFormat(resp.StatusCode)
	}
	return text, nil
}

func (b *base) requestError(status int, msg string) *model.ProviderRequestError {
	return &model.ProviderRequestError{Provider: b.id, StatusCode: status, Message: msg}
}

func (b *base) unexpectedFormat(status int) *model.ProviderRequestError {
	return b.requestError(status, fmt.Sprintf("Unexpected response format from %s", b.name))
}
