package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rewired-gh/alertrelay/internal/config"
	"github.com/rewired-gh/alertrelay/internal/dispatch"
	"github.com/rewired-gh/alertrelay/internal/logger"
	"github.com/rewired-gh/alertrelay/internal/queue"
	"github.com/rewired-gh/alertrelay/internal/server"
	"github.com/rewired-gh/alertrelay/internal/storage"
	"github.com/rewired-gh/alertrelay/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	ledger, err := storage.New(cfg.Storage.MaxHistory, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize history ledger: %v", err)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close history ledger: %v", err)
		}
	}()

	sink, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.RequestTimeout)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client: %v", err)
	}
	logger.Info("Telegram client initialized (chat %d)", sink.ChatID())

	q := queue.New()
	dispatcher := dispatch.New(q, ledger, sink, dispatch.SystemClock(), dispatch.Config{
		MaxAttempts: cfg.Dispatch.MaxAttempts,
		BackoffBase: cfg.Dispatch.BackoffBase,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server.New(q, dispatcher, cfg.Telegram.ChatID).Handler(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown: %v", err)
		}

		// Stop the worker: pending alerts are dropped, the in-flight
		// delivery attempt finishes.
		q.Close()
		cancel()
	}()

	logger.Info("Listening on %s", cfg.ListenAddr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server failed: %v", err)
	}

	wg.Wait()
	logger.Info("Service stopped")
}
