// Package providers supplies the ambient request context every page is
// rendered inside: the visitor's theme preference and their session.
//
// Providers never inspect or alter page content. They only enrich the request
// context before the page handler runs.
package providers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/dhonidev-ai/site/pkg/session"
)

// Theme is the visitor's colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ThemeCookie holds the visitor's theme choice.
const ThemeCookie = "theme"

type contextKey int

const (
	themeKey contextKey = iota
	sessionKey
)

// ParseTheme maps a cookie value to a Theme, defaulting to ThemeSystem.
func ParseTheme(v string) Theme {
	switch Theme(v) {
	case ThemeLight, ThemeDark:
		return Theme(v)
	default:
		return ThemeSystem
	}
}

// ThemeFromContext returns the theme stored by ThemeProvider, or ThemeSystem.
func ThemeFromContext(ctx context.Context) Theme {
	if t, ok := ctx.Value(themeKey).(Theme); ok {
		return t
	}
	return ThemeSystem
}

// SessionFromContext returns the verified session claims, or nil when the
// visitor is signed out.
func SessionFromContext(ctx context.Context) *session.Claims {
	c, _ := ctx.Value(sessionKey).(*session.Claims)
	return c
}

// WithSession returns a copy of ctx carrying claims.
func WithSession(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// ThemeProvider stores the theme from the theme cookie in the request context.
func ThemeProvider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := ThemeSystem
		if c, err := r.Cookie(ThemeCookie); err == nil {
			theme = ParseTheme(c.Value)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), themeKey, theme)))
	})
}

// SessionProvider verifies the session cookie and stores its claims in the
// request context. A missing, expired, or forged cookie leaves the visitor
// signed out; it never fails the request. A nil verifier disables sessions.
func SessionProvider(verifier *session.Verifier, cookieName string, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := verifier.Verify(c.Value)
			if err != nil {
				logger.WithError(err).Debug("ignoring invalid session cookie")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
		})
	}
}

// Chain composes providers so the first one listed is outermost.
func Chain(providers ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(providers) - 1; i >= 0; i-- {
			next = providers[i](next)
		}
		return next
	}
}
