package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/dhonidev-ai/site/pkg/config"
	"github.com/dhonidev-ai/site/pkg/layout"
	"github.com/dhonidev-ai/site/pkg/session"
	"github.com/dhonidev-ai/site/web"
)

type Server struct {
	config         *config.Config
	logger         *logrus.Logger
	router         chi.Router
	httpServer     *http.Server
	rateLimitStore *rateLimitStore
	shell          *layout.Shell
	verifier       *session.Verifier
}

// New builds a server with per-IP rate limiting enabled (unless the
// configured limit is zero).
func New(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	return newServer(cfg, logger, cfg.RateLimitPerMinute > 0)
}

// NewWithoutRateLimiting builds a server without the per-IP limiter, for
// serverless deployments where each instance only sees a slice of traffic.
func NewWithoutRateLimiting(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	return newServer(cfg, logger, false)
}

func newServer(cfg *config.Config, logger *logrus.Logger, rateLimit bool) (*Server, error) {
	site, err := layout.LoadSiteConfig(cfg.SiteConfigPath)
	if err != nil {
		return nil, err
	}
	shell, err := layout.NewShell(site, web.Templates())
	if err != nil {
		return nil, err
	}

	var verifier *session.Verifier
	if cfg.SessionKey != "" {
		verifier, err = session.NewVerifier(cfg.SessionKey, cfg.SessionIssuer)
		if err != nil {
			return nil, fmt.Errorf("session verifier: %w", err)
		}
	} else {
		logger.Warn("SESSION_KEY is not set; every visitor is treated as signed out")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   r,
		shell:    shell,
		verifier: verifier,
	}

	if rateLimit {
		s.rateLimitStore = newRateLimitStore(time.Minute, 10*time.Minute)
		r.Use(rateLimitMiddleware(s.rateLimitStore, cfg.RateLimitPerMinute))
	}

	s.registerRoutes()

	return s, nil
}

// Router returns the fully wired handler, for hosts that serve it themselves.
func (s *Server) Router() http.Handler {
	return s.router
}

// IsListening checks if the server is listening on the configured address.
func (s *Server) IsListening() bool {
	if s.httpServer == nil {
		return false
	}
	conn, err := net.DialTimeout("tcp", s.config.HTTPAddress, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()
	return true
}

func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.HTTPAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.WithField("addr", s.config.HTTPAddress).Info("listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Close() error {
	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
		}
	}
	if s.rateLimitStore != nil {
		s.rateLimitStore.Stop()
	}
	return err
}

// ResetRateLimits clears all per-IP limiters.
func (s *Server) ResetRateLimits() {
	if s.rateLimitStore != nil {
		s.rateLimitStore.Reset()
	}
}
