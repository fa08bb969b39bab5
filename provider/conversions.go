package provider

import (
	"strings"

	"github.com/tidwall/gjson"

	"buddy/model"
)

// wireMessage is a chat message as every supported API encodes it.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the OpenAI /chat/completions request body.
type chatCompletionRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []wireMessage `json:"messages"`
	Stream    *bool         `json:"stream,omitempty"`
}

// anthropicMessagesRequest is the Anthropic /v1/messages request body.
type anthropicMessagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []wireMessage `json:"messages"`
}

// ConvertToWireMessages converts history to the wire encoding, dropping
// any system messages (the system prompt is always passed separately).
func ConvertToWireMessages(history []model.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, msg := range history {
		if msg.Role == model.RoleSystem {
			continue
		}
		out = append(out, wireMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

// withSystemMessage prepends the system prompt as a system-role message.
func withSystemMessage(history []model.Message, systemPrompt string) []wireMessage {
	msgs := make([]wireMessage, 0, len(history)+1)
	msgs = append(msgs, wireMessage{Role: string(model.RoleSystem), Content: systemPrompt})
	return append(msgs, ConvertToWireMessages(history)...)
}

// stringAt returns the string at path, or false when it is missing or not a string.
func stringAt(body []byte, path string) (string, bool) {
	r := gjson.GetBytes(body, path)
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

// firstMessage returns the first non-empty string found at paths.
func firstMessage(body []byte, paths ...string) (string, bool) {
	for _, path := range paths {
		if msg, ok := stringAt(body, path); ok && msg != "" {
			return msg, true
		}
	}
	return "", false
}

func trimTrailingSlash(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/")
}
