package model

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"buddy/config"
	"buddy/storage"
)

// ChatMaxTokens bounds the length of every chat and entertainment reply.
const ChatMaxTokens = 256

// DefaultProviderID is active until the user picks another provider.
const DefaultProviderID = "xai"

// ErrProviderNotInitialized is reported when no provider can be built from
// the stored settings.
const ErrProviderNotInitialized = "AI provider not initialized. Please check your settings."

// ChatReply is the outcome of a chat turn: exactly one field is set.
type ChatReply struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// OpResult is the outcome of a settings or management call.
type OpResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service owns the conversation history and the active provider instance,
// and exposes every operation the front end needs.
type Service struct {
	store    storage.SettingsStore
	registry ProviderRegistry

	// turns serializes chat turns; a waiting turn gives up when its
	// context is cancelled.
	turns *semaphore.Weighted

	mu       sync.Mutex
	history  History
	clearGen uint64
	active   Provider

	// settingsMu serializes read-modify-write of the providers map
	settingsMu sync.Mutex
}

// NewService migrates legacy settings and returns a Service with an empty
// history. The provider is built lazily on the first turn.
func NewService(store storage.SettingsStore, registry ProviderRegistry) *Service {
	MigrateConfig(store, registry)

	return &Service{
		store:    store,
		registry: registry,
		turns:    semaphore.NewWeighted(1),
	}
}

// Close releases the settings store.
func (s *Service) Close() error {
	return s.store.Close()
}

// SendChatMessage runs one chat turn. The user message is appended to the
// history before the request; if the request fails the history is
// restored to exactly what it was before the turn.
func (s *Service) SendChatMessage(ctx context.Context, text string) ChatReply {
	turnID := uuid.NewString()

	if err := s.turns.Acquire(ctx, 1); err != nil {
		return ChatReply{Error: err.Error()}
	}
	defer s.turns.Release(1)

	p := s.resolveProvider()
	if p == nil {
		if config.Debug {
			config.DebugLog.Printf("[Service] turn %s: no provider", turnID)
		}
		return ChatReply{Error: ErrProviderNotInitialized}
	}

	s.mu.Lock()
	gen := s.clearGen
	snapshot := s.history.Snapshot()
	s.history.Append(UserMessage(text))
	messages := s.history.Messages()
	s.mu.Unlock()

	if config.Debug {
		config.DebugLog.Printf("[Service] turn %s: provider=%s history=%d", turnID, p.ID(), len(messages))
	}

	result := p.SendMessage(ctx, messages, s.systemPrompt(), ChatMaxTokens)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A ClearHistory during the request wins over both rollback and append
	cleared := gen != s.clearGen

	if result.Err != nil {
		if !cleared {
			s.history.Restore(snapshot)
		}
		if config.Debug {
			config.DebugLog.Printf("[Service] turn %s: failed: %v", turnID, result.Err)
		}
		return ChatReply{Error: result.Err.Error()}
	}

	if !cleared {
		s.history.Append(AssistantMessage(result.Response))
	}

	if config.Debug {
		config.DebugLog.Printf("[Service] turn %s: ok (%d chars)", turnID, len(result.Response))
	}
	return ChatReply{Response: result.Response}
}

// ClearHistory empties the conversation.
func (s *Service) ClearHistory() OpResult {
	s.mu.Lock()
	s.history.Clear()
	s.clearGen++
	s.mu.Unlock()

	return OpResult{Success: true}
}

// History returns a copy of the conversation, oldest first.
func (s *Service) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Messages()
}

// resolveProvider returns the cached provider or builds one from the
// stored settings. It returns nil when the active id is not registered.
func (s *Service) resolveProvider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return s.active
	}

	id := s.GetActiveProvider()
	p, err := s.registry.Create(id, s.providerConfig(id))
	if err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Service] resolveProvider: %v", err)
		}
		return nil
	}

	s.active = p
	return p
}

// invalidateProvider drops the cached instance so the next turn rebuilds it.
func (s *Service) invalidateProvider() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

func (s *Service) systemPrompt() string {
	return BuildSystemPrompt(s.GetUserName())
}
