package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	title := BuddyStyle.Render("Bonzi - Commands")
	blue := lipgloss.NewStyle().Foreground(accentColor)

	commands := []string{blue.Render("## Slash Commands")}
	for _, c := range slashCommands {
		usage := "/" + c.Name
		if c.Usage != "" {
			usage += " " + c.Usage
		}
		commands = append(commands, fmt.Sprintf("• %-22s %s", usage, c.Desc))
	}

	keys := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Keys"),
		"• Enter                  Send message",
		"• Alt+Y                  Copy last reply",
		"• PgUp/PgDn              Scroll",
		"• Alt+Q / Ctrl+C         Quit",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		lipgloss.JoinVertical(lipgloss.Left, commands...),
		"",
		keys,
		"",
		HelpStyle.Render("Press Esc to close this help"),
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
