// Package main provides the entry point for the Tamarind TUI application.
//
// Tamarind is a terminal kanban board over the hosted Tamarind task
// service, with notes, notifications and AI-assisted subtask generation.
// It uses The Elm Architecture (TEA) for state management.
//
// Usage:
//
//	tamarind
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/app"
	"github.com/tamarindhq/tamarind/internal/config"
	"github.com/tamarindhq/tamarind/internal/logging"
	"github.com/tamarindhq/tamarind/internal/services/ai"
	"github.com/tamarindhq/tamarind/internal/services/api"
	"github.com/tamarindhq/tamarind/internal/services/auth"
	"github.com/tamarindhq/tamarind/internal/services/notify"
	"github.com/tamarindhq/tamarind/internal/services/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	sessionPath, err := auth.SessionPath()
	if err != nil {
		return fmt.Errorf("resolving session path: %w", err)
	}
	session, err := auth.Load(sessionPath)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if !session.Authenticated() {
		logger.Warn("no session token, requests go out unauthenticated")
	} else if session.ExpiringSoon(24 * time.Hour) {
		logger.Warn("session token expires soon", "expires", session.ExpiresAt())
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.API.TimeoutMs) * time.Millisecond}
	transport := api.NewTransport(cfg.API.BaseURL, httpClient, session, logger)
	client := api.NewClient(transport, logger)

	deps := app.Deps{
		Notes:         client,
		Notifications: client,
		Online:        client.Online,
		Logger:        logger,
	}

	var gen sync.Generator
	if cfg.AI.IsEnabled() {
		aiClient := ai.NewClient(transport, logger)
		gen = aiClient
		deps.AI = aiClient
	}

	manager := sync.NewManager(client, gen, logger)
	deps.Manager = manager

	model := app.New(cfg, deps)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := notify.NewPoller(client, logger)
	go func() {
		poller.Prime(ctx)
		poller.StartMonitoring(ctx, program, time.Duration(cfg.UI.NotifyIntervalSec)*time.Second)
	}()

	logger.Info("starting tamarind", "api", cfg.API.BaseURL, "ai", cfg.AI.IsEnabled())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
