package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/dhonidev-ai/site/pkg/config"
	"github.com/dhonidev-ai/site/pkg/httpserver"
	"github.com/dhonidev-ai/site/pkg/logging"
)

var (
	handlerOnce sync.Once
	handler     http.Handler
)

// getHandler builds the router once and reuses it across serverless
// invocations. Rate limiting is left to the platform.
func getHandler() http.Handler {
	handlerOnce.Do(func() {
		cfg, err := config.NewFromEnv()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		server, err := httpserver.NewWithoutRateLimiting(cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to create server")
		}
		handler = server.Router()
		logger.Info("server initialized for Vercel")
	})
	return handler
}

// Handler is the entry point for Vercel serverless functions.
// Vercel will call this function for all requests.
func Handler(w http.ResponseWriter, r *http.Request) {
	getHandler().ServeHTTP(w, r)
}
