package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"buddy/config"
	"buddy/model"
	"buddy/provider"
	"buddy/storage"
	"buddy/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())
	if config.Debug {
		config.DebugLog.Printf("buddy %s starting (store=%s encryption=%s timeout=%v)",
			Version, cfg.Store, cfg.Encryption, cfg.RequestTimeout)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		fmt.Printf("Failed to open settings store: %v\n", err)
		os.Exit(1)
	}

	registry := provider.NewRegistry(provider.WithTimeout(cfg.RequestTimeout))

	// Migrates legacy single-provider settings before anything reads them
	service := model.NewService(store, registry)
	defer func() {
		if err := service.Close(); err != nil && config.Debug {
			config.DebugLog.Printf("Warning: failed to close settings store: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(
		ui.NewAppView(ctx, service, Version),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running buddy: %v\n", err)
		// os.Exit skips defers
		cancel()
		service.Close()
		os.Exit(1)
	}
}
