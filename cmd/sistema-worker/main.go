package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mateuscelis/sistema/internal/amqp"
	"github.com/mateuscelis/sistema/internal/config"
	"github.com/mateuscelis/sistema/internal/export"
	"github.com/mateuscelis/sistema/internal/export/google"
	"github.com/mateuscelis/sistema/internal/export/memory"
	"github.com/mateuscelis/sistema/internal/log"
	"github.com/mateuscelis/sistema/internal/storage"
	"github.com/mateuscelis/sistema/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentWorker})
	slog.SetDefault(logger.Logger)

	logger.Info("starting sistema-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a spreadsheet the worker still drains the queue into an
	// in-memory store, which keeps local development honest.
	var (
		writer  export.FaturamentoWriter
		remover export.FaturamentoRemover
	)
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer, remover = sheets, sheets
		logger.Info("exporting to Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		store := memory.New()
		writer, remover = store, store
		logger.Warn("no GOOGLE_SPREADSHEET_ID provided, exporting to in-memory store")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, writer, remover)

	// Startup resync catches mutations made while the worker was down.
	if err := exportWorker.ResyncAll(ctx); err != nil {
		logger.Error("startup resync incomplete", log.FieldError, err)
		// Keep going, the queue will converge the rest.
	}

	err = amqpClient.ConsumeFaturamentoSync(ctx, func(msg *amqp.FaturamentoSyncMessage) error {
		return exportWorker.HandleSyncMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("sistema-worker stopped")
}
