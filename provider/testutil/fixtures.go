package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"buddy/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		model.UserMessage("Hello"),
		model.AssistantMessage("Hi there! How can I help you?"),
		model.UserMessage("What's the weather like?"),
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{model.UserMessage(content)}
}

// EmptyMessages returns an empty message slice
func EmptyMessages() []model.Message {
	return []model.Message{}
}

// Canned response bodies.
const (
	ChatCompletionReply = `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello from chat completions!"},"finish_reason":"stop"}]}`
	AnthropicReply      = `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"Hello from Claude!"}],"stop_reason":"end_turn"}`
	OllamaNativeReply   = `{"model":"llama2","message":{"role":"assistant","content":"Hello from Ollama!"},"done":true}`
)

// RecordedRequest is one request seen by a RecordingServer.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// RecordingServer is an httptest.Server that records requests and replies
// with a fixed status and body.
type RecordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	status   int
	body     string
}

// NewRecordingServer starts a server that answers every request with
// status and body. It is closed when the test ends.
func NewRecordingServer(t *testing.T, status int, body string) *RecordingServer {
	t.Helper()

	rs := &RecordingServer{status: status, body: body}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.handle))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *RecordingServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)

	rs.mu.Lock()
	rs.requests = append(rs.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   decoded,
	})
	status, body := rs.status, rs.body
	rs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Reply changes the status and body for subsequent requests.
func (rs *RecordingServer) Reply(status int, body string) {
	rs.mu.Lock()
	rs.status, rs.body = status, body
	rs.mu.Unlock()
}

// Requests returns every request received so far.
func (rs *RecordingServer) Requests() []RecordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]RecordedRequest(nil), rs.requests...)
}

// Hits returns the number of requests received so far.
func (rs *RecordingServer) Hits() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}
