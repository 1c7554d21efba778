package httpserver

import (
	"net/http"

	"github.com/dhonidev-ai/site/pkg/layout"
	"github.com/dhonidev-ai/site/pkg/providers"
)

// HandleRoot sends signed-out visitors to the sign-in page and greets the
// signed-in ones.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if providers.SessionFromContext(r.Context()) == nil {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}
	s.render(w, r, layout.Page{Name: "home"})
}

// HandleLoginGet renders the sign-in page, which hands off to the external
// authentication framework's sign-in URL.
func (s *Server) HandleLoginGet(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, layout.Page{
		Name:    "login",
		Title:   "Sign in",
		Content: LoginPageData{SignInURL: s.config.SignInURL},
	})
}
