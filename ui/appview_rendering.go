package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"buddy/config"
)

const defaultRenderWidth = 80

// Pre-compiled regex patterns
var (
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	var content strings.Builder

	for _, line := range a.lines {
		timestamp := DimStyle.Render(line.Timestamp.Format("[15:04]"))

		body := line.Rendered
		if body == "" {
			body = line.Content
		}

		switch line.Kind {
		case lineUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), body))
		case lineBuddy:
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, BuddyStyle.Render("Bonzi"), body))
		case lineError:
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, ErrorStyle.Render("✗ "+body)))
		default:
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, NoticeStyle.Render(body)))
		}
	}

	if a.inFlight {
		note := a.pendingNote
		if note == "" {
			note = "Bonzi is thinking..."
		}
		content.WriteString(fmt.Sprintf("%s %s\n", a.spinner.View(), DimStyle.Render(note)))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderMarkdownAsync renders a reply off the UI goroutine. The result is
// dropped if the transcript changed underneath it.
func (a AppView) renderMarkdownAsync(index int, content string) tea.Cmd {
	width := a.width - 4
	if width <= 0 {
		width = defaultRenderWidth
	}

	return func() tea.Msg {
		start := time.Now()

		// Keep links as plain URLs; the terminal makes them clickable
		source := mdLinkRegex.ReplaceAllString(content, "$2")

		ext := markdown.Extensions() &^ parser.Autolink
		p := parser.NewWithExtensions(ext)
		r := markdown.NewRenderer(width, 0)
		rendered := gomarkdown.Render(p.Parse([]byte(source)), r)

		processed := fixInlineCode(strings.TrimRight(string(rendered), "\n"))

		if config.Debug {
			config.DebugLog.Printf("[UI] markdown for line %d rendered in %v", index, time.Since(start))
		}

		return markdownRenderedMsg{
			Index:    index,
			Content:  content,
			Rendered: processed,
		}
	}
}

// fixInlineCode swaps the renderer's blue-background inline code for red
// text, which reads better on transparent terminals.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

// stripANSI removes ANSI escape codes for accurate width calculation
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
