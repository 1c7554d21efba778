package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/dhonidev-ai/site/pkg/layout"
	"github.com/dhonidev-ai/site/pkg/providers"
	"github.com/dhonidev-ai/site/web"
)

// healthCORS allows any origin; the health check exposes nothing sensitive.
var healthCORS = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	AllowedHeaders: []string{"Content-Type"},
	MaxAge:         3600,
})

// boundary wraps every rendered page in the ambient providers.
func (s *Server) boundary() func(http.Handler) http.Handler {
	return providers.Chain(
		providers.ThemeProvider,
		providers.SessionProvider(s.verifier, s.config.SessionCookie, s.logger),
	)
}

// registerRoutes registers all routes on the server's router.
func (s *Server) registerRoutes() {
	boundary := s.boundary()

	// Static files (global stylesheet)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	s.router.Group(func(r chi.Router) {
		r.Use(healthCORS.Handler)
		r.Get("/health", s.HandleHealthCheck)
		r.Options("/health", func(w http.ResponseWriter, r *http.Request) {})
	})

	s.router.Group(func(r chi.Router) {
		r.Use(boundary)

		r.Get("/", s.HandleRoot)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/error", s.HandleAuthError)
			r.Get("/login", s.HandleLoginGet)
		})
	})

	s.router.NotFound(boundary(http.HandlerFunc(s.HandleNotFound)).ServeHTTP)
}

// HandleHealthCheck reports that the process is up.
func (s *Server) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleNotFound renders the 404 page inside the layout.
func (s *Server) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, layout.Page{
		Name:    "not-found",
		Title:   "Page not found",
		Status:  http.StatusNotFound,
		Content: NotFoundPageData{Path: r.URL.Path},
	})
}

// render renders a page and falls back to plain text if the template fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, p layout.Page) {
	if err := s.shell.Render(w, r, p); err != nil {
		s.logger.WithError(err).WithField("page", p.Name).Error("failed to render page")
		http.Error(w, "An error occurred while rendering the page", http.StatusInternalServerError)
	}
}
