package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"buddy/model"
	"buddy/provider"
	"buddy/provider/testutil"
)

func newProvider(t *testing.T, id string, cfg model.ProviderConfig) model.Provider {
	t.Helper()
	p, err := provider.NewRegistry().Create(id, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSendMessageWithoutKeyMakesNoRequest(t *testing.T) {
	for _, id := range []string{"xai", "openai", "anthropic"} {
		t.Run(id, func(t *testing.T) {
			srv := testutil.NewRecordingServer(t, http.StatusOK, testutil.ChatCompletionReply)
			p := newProvider(t, id, model.ProviderConfig{BaseURL: srv.URL})

			if p.ValidateAPIKey() {
				t.Fatal("ValidateAPIKey() should fail with an empty key")
			}

			res := p.SendMessage(context.Background(), testutil.SingleUserMessage("hi"), "sys", 256)
			if res.Err == nil {
				t.Fatal("expected error")
			}

			var cfgErr *model.ConfigurationError
			if !errors.As(res.Err, &cfgErr) {
				t.Fatalf("expected *model.ConfigurationError, got %T", res.Err)
			}
			want := "No API key configured for " + p.Name() + ". Please set your API key in Settings."
			if res.Err.Error() != want {
				t.Errorf("got %q, want %q", res.Err.Error(), want)
			}
			if res.Response != "" {
				t.Error("Result must not carry both a response and an error")
			}

			if hits := srv.Hits(); hits != 0 {
				t.Errorf("expected 0 HTTP requests, got %d", hits)
			}
		})
	}
}

func TestSendMessageErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
		want string
	}{
		{"openai envelope", "openai", `{"error":{"message":"Incorrect API key provided"}}`, "Incorrect API key provided"},
		{"openai non-json", "openai", `<html>bad gateway</html>`, "API request failed with status 502"},
		{"xai empty object", "xai", `{}`, "API request failed with status 502"},
		{"anthropic envelope", "anthropic", `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, "invalid x-api-key"},
		{"anthropic top-level message", "anthropic", `{"message":"overloaded"}`, "overloaded"},
		{"anthropic fallback", "anthropic", `not json`, "API request failed with status 502"},
		{"custom error string", "custom", `{"error":"model 'llama9' not found"}`, "model 'llama9' not found"},
		{"custom message", "custom", `{"message":"busy"}`, "busy"},
		{"custom fallback", "custom", ``, "Custom endpoint request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewRecordingServer(t, http.StatusBadGateway, tt.body)
			p := newProvider(t, tt.id, model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})

			res := p.SendMessage(context.Background(), testutil.SingleUserMessage("hi"), "sys", 256)

			var reqErr *model.ProviderRequestError
			if !errors.As(res.Err, &reqErr) {
				t.Fatalf("expected *model.ProviderRequestError, got %T (%v)", res.Err, res.Err)
			}
			if reqErr.StatusCode != http.StatusBadGateway {
				t.Errorf("StatusCode = %d", reqErr.StatusCode)
			}
			if reqErr.Provider != tt.id {
				t.Errorf("Provider = %q", reqErr.Provider)
			}
			if res.Err.Error() != tt.want {
				t.Errorf("got %q, want %q", res.Err.Error(), tt.want)
			}
			if srv.Hits() != 1 {
				t.Errorf("expected exactly one request, got %d", srv.Hits())
			}
		})
	}
}

func TestSendMessageUnexpectedFormat(t *testing.T) {
	tests := []struct {
		id   string
		body string
	}{
		{"openai", `{"choices":[]}`},
		{"openai", `not json at all`},
		{"xai", `{"choices":[{"message":{"content":null}}]}`},
		{"anthropic", `{"content":[]}`},
		{"anthropic", testutil.ChatCompletionReply},
		{"custom", `{"result":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			srv := testutil.NewRecordingServer(t, http.StatusOK, tt.body)
			p := newProvider(t, tt.id, model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})

			res := p.SendMessage(context.Background(), testutil.SingleUserMessage("hi"), "sys", 256)
			if res.Err == nil {
				t.Fatalf("expected error, got response %q", res.Response)
			}

			want := "Unexpected response format from " + p.Name()
			if res.Err.Error() != want {
				t.Errorf("got %q, want %q", res.Err.Error(), want)
			}
		})
	}
}

func TestSendMessageTransportError(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, testutil.ChatCompletionReply)
	url := srv.URL
	srv.Close()

	p := newProvider(t, "openai", model.ProviderConfig{APIKey: "k", BaseURL: url})
	res := p.SendMessage(context.Background(), testutil.SingleUserMessage("hi"), "sys", 256)

	var reqErr *model.ProviderRequestError
	if !errors.As(res.Err, &reqErr) {
		t.Fatalf("expected *model.ProviderRequestError, got %T", res.Err)
	}
	if reqErr.StatusCode != 0 {
		t.Errorf("transport errors carry status 0, got %d", reqErr.StatusCode)
	}
}

func TestSendMessageHonorsContext(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, testutil.ChatCompletionReply)
	p := newProvider(t, "xai", model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.SendMessage(ctx, testutil.SingleUserMessage("hi"), "sys", 256)
	if res.Err == nil || !strings.Contains(res.Err.Error(), "context canceled") {
		t.Errorf("expected context canceled error, got %v", res.Err)
	}
}

func TestSendMessageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	reg := provider.NewRegistry(provider.WithTimeout(50 * time.Millisecond))
	p, err := reg.Create("openai", model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	res := p.SendMessage(context.Background(), testutil.SingleUserMessage("hi"), "sys", 256)
	if res.Err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("request was not bounded by the client timeout (took %v)", elapsed)
	}
}

func TestTestConnectionRequestShape(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, testutil.ChatCompletionReply)
	p := newProvider(t, "xai", model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	res := p.TestConnection(context.Background())
	if !res.Success || res.Error != "" {
		t.Fatalf("expected success, got %+v", res)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}

	body := reqs[0].Body
	if body["max_tokens"] != float64(10) {
		t.Errorf("connection check max_tokens = %v", body["max_tokens"])
	}
	msgs := body["messages"].([]any)
	last := msgs[len(msgs)-1].(map[string]any)
	if last["content"] != `Say "connected" and nothing else.` {
		t.Errorf("unexpected connection check content %v", last["content"])
	}
}

func TestTestConnectionFailure(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	p := newProvider(t, "openai", model.ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	res := p.TestConnection(context.Background())
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "bad key" {
		t.Errorf("Error = %q", res.Error)
	}
}
