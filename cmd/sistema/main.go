package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/mateuscelis/sistema/internal/api"
	"github.com/mateuscelis/sistema/internal/config"
	"github.com/mateuscelis/sistema/internal/log"
	"github.com/mateuscelis/sistema/internal/ui"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuração inválida: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout, so logs go to a file when requested and are
	// discarded otherwise.
	logger := log.New(log.Config{
		Level:   slog.LevelError,
		Handler: clientLogHandler(),
	})

	client := api.NewClient(cfg.APIBaseURL, logger)

	program := tea.NewProgram(ui.NewModel(client, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

func clientLogHandler() slog.Handler {
	path := os.Getenv("SISTEMA_LOG_FILE")
	if path == "" {
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	}
	return slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
}
