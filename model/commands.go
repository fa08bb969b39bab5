package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// SendChatMessageCmd runs a chat turn off the UI goroutine.
func (s *Service) SendChatMessageCmd(ctx context.Context, text string) tea.Cmd {
	return func() tea.Msg {
		return ChatReplyMsg{
			Prompt: text,
			Reply:  s.SendChatMessage(ctx, text),
		}
	}
}

func (s *Service) GetEntertainmentCmd(ctx context.Context, category string) tea.Cmd {
	return func() tea.Msg {
		return EntertainmentMsg{
			Category: category,
			Reply:    s.GetEntertainment(ctx, category),
		}
	}
}

func (s *Service) TestConnectionCmd(ctx context.Context, id string) tea.Cmd {
	return func() tea.Msg {
		return ConnectionTestedMsg{
			ProviderID: id,
			Result:     s.TestConnection(ctx, id),
		}
	}
}

func (s *Service) ListProviderModelsCmd(ctx context.Context, id string) tea.Cmd {
	return func() tea.Msg {
		models, err := s.ListProviderModels(ctx, id)
		return ModelsListMsg{
			ProviderID: id,
			Models:     models,
			Err:        err,
		}
	}
}
