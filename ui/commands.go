package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"buddy/config"
	"buddy/model"
)

// slashCommand describes one entry of the /help listing.
type slashCommand struct {
	Name  string
	Usage string
	Desc  string
}

var slashCommands = []slashCommand{
	{"clear", "", "Forget the conversation"},
	{"provider", "[id]", "Show or switch the active provider"},
	{"providers", "", "List providers"},
	{"key", "[id] <key>", "Set an API key"},
	{"model", "[id] <model>", "Set the model"},
	{"url", "[id] <url>", "Set the base URL"},
	{"test", "[id]", "Test a provider connection"},
	{"models", "[id]", "List models the provider offers"},
	{"config", "", "Show settings (keys masked)"},
	{"name", "[name]", "Show or set your name"},
	{"joke", "", "Tell a joke"},
	{"fact", "", "Share a fun fact"},
	{"story", "", "Tell a short story"},
	{"sing", "", "Sing a song"},
	{"copy", "", "Copy Bonzi's last reply"},
	{"help", "", "Toggle this help"},
	{"quit", "", "Exit"},
}

// parseCommand splits "/name args" into its parts. ok is false for
// ordinary chat text.
func parseCommand(input string) (name, arg string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || len(input) == 1 {
		return "", "", false
	}

	name, arg, _ = strings.Cut(input[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

// suggest returns the best fuzzy match for term, or "" if nothing matches.
func suggest(term string, candidates []string) string {
	if term == "" {
		return ""
	}
	matches := fuzzy.Find(strings.ToLower(term), candidates)
	if len(matches) == 0 {
		return ""
	}
	return candidates[matches[0].Index]
}

func commandNames() []string {
	names := make([]string, len(slashCommands))
	for i, c := range slashCommands {
		names[i] = c.Name
	}
	return names
}

func (a *AppView) providerIDs() []string {
	infos := a.service.ListProviders()
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	return ids
}

// splitTarget reads "[id] value": a leading registered provider id picks
// the target, otherwise the active provider is used.
func (a *AppView) splitTarget(arg string) (id, value string) {
	first, rest, found := strings.Cut(arg, " ")
	if found && slices.Contains(a.providerIDs(), first) {
		return first, strings.TrimSpace(rest)
	}
	return a.providerID, arg
}

func (a *AppView) invalidProvider(id string) {
	if hint := suggest(id, a.providerIDs()); hint != "" {
		a.errorLine("Invalid provider %q. Did you mean %q?", id, hint)
		return
	}
	a.errorLine("Invalid provider %q. Try /providers.", id)
}

// runCommand executes a slash command. Commands that call a provider run
// asynchronously and lock the input until their result arrives.
func (a *AppView) runCommand(name, arg string) tea.Cmd {
	if config.Debug {
		config.DebugLog.Printf("[UI] command /%s", name)
	}

	switch name {
	case "clear":
		a.service.ClearHistory()
		a.lines = nil
		a.lastReply = ""
		a.systemLine("Conversation cleared.")

	case "provider":
		if arg == "" {
			a.systemLine("Active provider: %s (%s)", a.providerName, a.providerID)
			return nil
		}
		res := a.service.SetActiveProvider(arg)
		if !res.Success {
			a.invalidProvider(arg)
			return nil
		}
		a.refreshProvider()
		a.systemLine("Switched to %s.", a.providerName)

	case "providers":
		var b strings.Builder
		b.WriteString("Providers:")
		for _, info := range a.service.ListProviders() {
			marker := "  "
			if info.ID == a.providerID {
				marker = "* "
			}
			key := ""
			if !info.RequiresAPIKey {
				key = " (no key needed)"
			}
			fmt.Fprintf(&b, "\n%s%-10s %s%s", marker, info.ID, info.Name, key)
		}
		a.systemLine("%s", b.String())

	case "key":
		id, value := a.splitTarget(arg)
		if value == "" {
			a.errorLine("Usage: /key [id] <key>")
			return nil
		}
		return a.applyResult(a.service.SetProviderAPIKey(id, value), id,
			fmt.Sprintf("API key for %s set to %s.", id, model.MaskAPIKey(value)))

	case "model":
		id, value := a.splitTarget(arg)
		if value == "" {
			a.systemLine("Model for %s: %s", id, a.service.GetMaskedConfig().Providers[id].Model)
			return nil
		}
		return a.applyResult(a.service.SetProviderModel(id, value), id,
			fmt.Sprintf("Model for %s set to %s.", id, value))

	case "url":
		id, value := a.splitTarget(arg)
		if value == "" {
			a.systemLine("Base URL for %s: %s", id, a.service.GetMaskedConfig().Providers[id].BaseURL)
			return nil
		}
		return a.applyResult(a.service.SetProviderBaseURL(id, value), id,
			fmt.Sprintf("Base URL for %s set to %s.", id, value))

	case "test":
		id := arg
		if id == "" {
			id = a.providerID
		}
		return a.begin(fmt.Sprintf("Testing %s...", id), a.service.TestConnectionCmd(a.ctx, id))

	case "models":
		id := arg
		if id == "" {
			id = a.providerID
		}
		return a.begin(fmt.Sprintf("Fetching models for %s...", id), a.service.ListProviderModelsCmd(a.ctx, id))

	case "config":
		a.systemLine("%s", formatMaskedConfig(a.service.GetMaskedConfig(), a.providerIDs()))

	case "name":
		if arg == "" {
			if name := a.service.GetUserName(); name != "" {
				a.systemLine("Bonzi knows you as %s.", name)
			} else {
				a.systemLine("Bonzi doesn't know your name yet. Use /name <name>.")
			}
			return nil
		}
		res := a.service.SetUserName(arg)
		if !res.Success {
			a.errorLine("%s", res.Error)
			return nil
		}
		a.systemLine("Nice to meet you, %s!", arg)

	case model.EntertainmentJoke, model.EntertainmentFact, model.EntertainmentStory, model.EntertainmentSing:
		a.addLine(lineUser, "/"+name)
		return a.begin("", a.service.GetEntertainmentCmd(a.ctx, name))

	case "copy":
		a.copyLastReply()

	case "help":
		a.showHelp = !a.showHelp

	case "quit", "exit":
		return tea.Quit

	default:
		if hint := suggest(name, commandNames()); hint != "" {
			a.errorLine("Unknown command: /%s. Did you mean /%s?", name, hint)
		} else {
			a.errorLine("Unknown command: /%s. Type /help for commands.", name)
		}
	}

	return nil
}

// applyResult reports a settings write and refreshes the title bar when
// the active provider changed.
func (a *AppView) applyResult(res model.OpResult, id, success string) tea.Cmd {
	if !res.Success {
		if res.Error == "Invalid provider" {
			a.invalidProvider(id)
		} else {
			a.errorLine("%s", res.Error)
		}
		return nil
	}
	if id == a.providerID {
		a.refreshProvider()
	}
	a.systemLine("%s", success)
	return nil
}

func (a *AppView) copyLastReply() {
	if a.lastReply == "" {
		a.errorLine("Nothing to copy yet.")
		return
	}
	if err := clipboard.WriteAll(a.lastReply); err != nil {
		a.errorLine("Copy failed: %v", err)
		return
	}
	a.systemLine("Copied Bonzi's last reply.")
}

func formatMaskedConfig(cfg model.MaskedConfig, order []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active provider: %s", cfg.AIProvider)
	for _, id := range order {
		p, ok := cfg.Providers[id]
		if !ok {
			continue
		}
		key := p.APIKey
		if key == "" {
			key = "(not set)"
		}
		fmt.Fprintf(&b, "\n%s\n  key:   %s\n  model: %s\n  url:   %s", id, key, p.Model, p.BaseURL)
	}
	return b.String()
}
