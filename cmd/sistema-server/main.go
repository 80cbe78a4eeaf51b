package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mateuscelis/sistema/internal/amqp"
	"github.com/mateuscelis/sistema/internal/config"
	apphttp "github.com/mateuscelis/sistema/internal/http"
	"github.com/mateuscelis/sistema/internal/log"
	"github.com/mateuscelis/sistema/internal/services"
	"github.com/mateuscelis/sistema/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})
	slog.SetDefault(logger.Logger)

	logger.Info("starting sistema-server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional. Without it faturamento mutations are not exported.
	var publisher services.ExportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP export publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP export publishing disabled, no AMQP_URL provided")
	}

	svc := services.NewFaturamentoService(repo, publisher)
	processor := services.NewProcessor(repo, svc)
	srv := apphttp.NewServer(":"+cfg.Port, repo, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		// One run at startup catches overdue rows and missed recurrences
		// from downtime, then the ticker keeps up.
		if err := processor.Run(ctx, time.Now()); err != nil {
			logger.Error("processing run failed", log.FieldError, err)
		}
		ticker := time.NewTicker(cfg.ProcessInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := processor.Run(ctx, time.Now()); err != nil {
					logger.Error("processing run failed", log.FieldError, err)
				}
			}
		}
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("sistema-server stopped")
}
