// Package main serves the DhoniDev-Ai site pages.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dhonidev-ai/site/pkg/config"
	"github.com/dhonidev-ai/site/pkg/httpserver"
	"github.com/dhonidev-ai/site/pkg/logging"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	if from := cfg.LoadedFrom(); from != "" {
		logger.WithField("file", from).Info("loaded environment")
	}

	server, err := httpserver.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := server.Close(); err != nil {
			logger.WithError(err).Error("shutdown failed")
		}
	}
}
