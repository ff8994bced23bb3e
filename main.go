package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/bootstrap"
	"github.com/omriShneor/calendrix/internal/config"
	"github.com/omriShneor/calendrix/internal/database"
	"github.com/omriShneor/calendrix/internal/logging"
	"github.com/omriShneor/calendrix/internal/server"
	"github.com/omriShneor/calendrix/internal/telegram"
)

func main() {
	cfg := config.LoadFromEnv()

	logger, err := logging.New(cfg.DevMode)
	if err != nil {
		fatal("creating logger", err)
	}
	defer logger.Sync()

	// Phase 1: Core infrastructure
	db, err := database.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer db.Close()
	logger.Info("database ready", zap.String("path", db.Path()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Phase 2: Backends and dialogue
	clients := bootstrap.Initialize(ctx, db, cfg, logger)
	defer clients.Close()

	assistant := bootstrap.NewAssistant(db, cfg, clients, logger)

	// Phase 3: Surfaces
	srv := server.New(server.Config{
		DB:         db,
		Assistant:  assistant,
		CalendarID: cfg.GoogleCalendarID,
		Port:       cfg.HTTPPort,
		Logger:     logger,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	startTelegram(ctx, cfg, assistant, logger)

	<-ctx.Done()
	shutdown(srv, logger)
}

func startTelegram(ctx context.Context, cfg *config.Config, dialogue telegram.Dialogue, logger *zap.Logger) {
	if cfg.TelegramBotToken == "" {
		logger.Info("telegram not configured (TELEGRAM_BOT_TOKEN not set)")
		return
	}

	tgClient, err := telegram.NewClient(cfg.TelegramBotToken, dialogue, logger)
	if err != nil {
		logger.Warn("failed to start telegram bot", zap.Error(err))
		return
	}

	go tgClient.Run(ctx)
}

func shutdown(srv *server.Server, logger *zap.Logger) {
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown failed", zap.Error(err))
	}
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}
