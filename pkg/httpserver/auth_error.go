package httpserver

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dhonidev-ai/site/pkg/autherror"
	"github.com/dhonidev-ai/site/pkg/layout"
)

const (
	authErrorTitle = "Authentication Error"
	loginPath      = "/auth/login"
)

// errorPageData resolves the error query parameter into page content.
func errorPageData(r *http.Request) ErrorPageData {
	code := autherror.FromQuery(r.URL.Query())
	return ErrorPageData{
		Code:     code.String(),
		Title:    authErrorTitle,
		Message:  code.Message(),
		RetryURL: loginPath,
	}
}

// HandleAuthError shows why sign-in failed. The authentication framework
// redirects here with ?error=<code>; unknown or missing codes get the
// generic message. The page streams a loading card first and swaps in the
// resolved card once the query has been read.
func (s *Server) HandleAuthError(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		data := errorPageData(r)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode auth error")
		}
		return
	}

	err := s.shell.Stream(w, r, layout.Deferred{
		Name:  "auth-error",
		Title: authErrorTitle,
		Resolve: func(ctx context.Context) (any, error) {
			data := errorPageData(r)
			s.logger.WithFields(logrus.Fields{
				"code": data.Code,
				"raw":  r.URL.Query().Get(autherror.QueryParam),
			}).Info("showing auth error page")
			return data, nil
		},
	})
	if err != nil {
		// Headers are already sent; all that is left is to record it.
		s.logger.WithError(err).Warn("auth error page stream ended early")
	}
}

// wantsJSON reports whether the client asked for JSON over HTML.
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json":
			return true
		case "text/html":
			return false
		}
	}
	return false
}
