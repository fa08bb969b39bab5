package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"buddy/config"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), blank (1 line), input (1 line), footer (1 line)
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-4, 1)
		a.input.Width = max(a.width-4, 10)

		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		if !a.inFlight {
			return a, nil
		}
		a.spinner, cmd = a.spinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case chatReplyMsg:
		return a, a.handleReply(msg.Reply.Response, msg.Reply.Error)

	case entertainmentMsg:
		return a, a.handleReply(msg.Reply.Response, msg.Reply.Error)

	case connectionTestedMsg:
		if msg.Result.Success {
			a.systemLine("Connection to %s OK.", msg.ProviderID)
		} else {
			a.errorLine("Connection to %s failed: %s", msg.ProviderID, msg.Result.Error)
		}
		return a, a.finish()

	case modelsListMsg:
		if msg.Err != nil {
			a.invalidProvider(msg.ProviderID)
			return a, a.finish()
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Models for %s:", msg.ProviderID)
		for _, m := range msg.Models {
			if m.Name != "" && m.Name != m.ID {
				fmt.Fprintf(&b, "\n  %s (%s)", m.ID, m.Name)
			} else {
				fmt.Fprintf(&b, "\n  %s", m.ID)
			}
		}
		a.systemLine("%s", b.String())
		return a, a.finish()

	case markdownRenderedMsg:
		if msg.Index < len(a.lines) && a.lines[msg.Index].Content == msg.Content {
			a.lines[msg.Index].Rendered = msg.Rendered
			a.updateViewportContent(true)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "alt+q", "ctrl+c":
			if config.Debug {
				config.DebugLog.Printf("[UI] quit requested")
			}
			return a, tea.Quit

		case "esc":
			if a.showHelp {
				a.showHelp = false
			}
			return a, nil

		case "alt+y":
			a.copyLastReply()
			return a, nil

		case "pgup", "alt+k", "alt+up":
			a.viewport.HalfPageUp()
			return a, nil

		case "pgdown", "alt+j", "alt+down":
			a.viewport.HalfPageDown()
			return a, nil

		case "home":
			a.viewport.GotoTop()
			return a, nil

		case "end":
			a.viewport.GotoBottom()
			return a, nil

		case "enter":
			text := a.input.Value()
			a.input.SetValue("")
			return a, a.submit(text)
		}

		if a.showHelp {
			return a, nil
		}
	}

	if !a.inFlight {
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// submit handles one line of input: a slash command or a chat message.
// Input is ignored while a call is in flight.
func (a *AppView) submit(text string) tea.Cmd {
	if a.inFlight {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if name, arg, ok := parseCommand(text); ok {
		return a.runCommand(name, arg)
	}

	a.addLine(lineUser, text)
	return a.begin("", a.service.SendChatMessageCmd(a.ctx, text))
}

// handleReply shows a chat or entertainment result and unlocks the input.
func (a *AppView) handleReply(response, errMsg string) tea.Cmd {
	focus := a.finish()

	if errMsg != "" {
		a.errorLine("%s", errMsg)
		return focus
	}

	a.lastReply = response
	idx := a.addLine(lineBuddy, response)
	return tea.Batch(focus, a.renderMarkdownAsync(idx, response))
}
