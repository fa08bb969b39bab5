package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"buddy/model"
)

const greeting = "Hey there! I'm Bonzi, your buddy. Type a message, or /help to see what I can do."

type AppView struct {
	service *model.Service
	ctx     context.Context
	version string

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// inFlight is set while a service call runs; input is ignored until
	// its result message arrives.
	inFlight    bool
	pendingNote string
	showHelp    bool

	lines     []chatLine
	lastReply string

	// Cached for the title bar, refreshed after settings changes
	providerName string
	providerID   string
	modelID      string
}

func NewAppView(ctx context.Context, service *model.Service, version string) AppView {
	ti := textinput.New()
	ti.Placeholder = "Say something to Bonzi, or /help..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = BuddyStyle

	a := AppView{
		service:  service,
		ctx:      ctx,
		version:  version,
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
	}
	a.refreshProvider()
	a.addLine(lineBuddy, greeting)
	return a
}

func (a AppView) Init() tea.Cmd {
	return textinput.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading buddy..."
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	title := BuddyStyle.Render("Bonzi") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.providerName)) +
		DimStyle.Render(fmt.Sprintf(" (%s)", a.modelID))
	title = truncateStatus(title, a.width)

	var footer string
	if a.inFlight {
		footer = FormatFooter("Alt+Q", "Quit", "PgUp/PgDn", "Scroll")
	} else {
		footer = FormatFooter("Enter", "Send", "Alt+Y", "Copy", "PgUp/PgDn", "Scroll", "/help", "Commands", "Alt+Q", "Quit")
	}
	footer = StatusStyle.Render(truncateStatus(footer, a.width))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.input.View(),
		footer,
	)
}

// refreshProvider re-reads the active provider for the title bar.
func (a *AppView) refreshProvider() {
	cfg := a.service.GetMaskedConfig()
	a.providerID = cfg.AIProvider
	a.providerName = cfg.AIProvider
	a.modelID = cfg.Providers[cfg.AIProvider].Model

	for _, info := range a.service.ListProviders() {
		if info.ID == a.providerID {
			a.providerName = info.Name
			break
		}
	}
}

// addLine appends to the transcript and returns the new line's index.
func (a *AppView) addLine(kind lineKind, content string) int {
	a.lines = append(a.lines, chatLine{
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
	})
	a.updateViewportContent(true)
	return len(a.lines) - 1
}

func (a *AppView) systemLine(format string, args ...any) {
	a.addLine(lineSystem, fmt.Sprintf(format, args...))
}

func (a *AppView) errorLine(format string, args ...any) {
	a.addLine(lineError, fmt.Sprintf(format, args...))
}

// begin marks a service call as running and blurs the input.
func (a *AppView) begin(note string, cmd tea.Cmd) tea.Cmd {
	a.inFlight = true
	a.pendingNote = note
	a.input.Blur()
	a.updateViewportContent(true)
	return tea.Batch(a.spinner.Tick, cmd)
}

func (a *AppView) finish() tea.Cmd {
	a.inFlight = false
	a.pendingNote = ""
	return a.input.Focus()
}

// truncateStatus clips a single status line to the terminal width.
func truncateStatus(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(stripANSI(s)) <= width {
		return s
	}
	return runewidth.Truncate(stripANSI(s), width, "…")
}
