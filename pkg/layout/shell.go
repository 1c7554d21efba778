// Package layout renders every page inside the same HTML document: fonts,
// global stylesheet, metadata, viewport, and the provider boundary.
package layout

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dhonidev-ai/site/pkg/providers"
	"github.com/dhonidev-ai/site/pkg/session"
)

const layoutFile = "layout.html"

// Page describes one page rendered through the shell.
type Page struct {
	// Name is the page template under pages/, without extension.
	Name string
	// Title overrides the document title. Empty means the site title.
	Title string
	// Status defaults to 200.
	Status  int
	Content any
}

// document is the data every template executes against.
type document struct {
	Lang      string
	Title     string
	Meta      Metadata
	Viewport  string
	FontsHref string
	FontVars  template.CSS
	Nonce     string
	Theme     providers.Theme
	Session   *session.Claims
	Content   any
}

// Shell holds the parsed templates and the site's static configuration.
type Shell struct {
	site  *SiteConfig
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// NewShell parses layout.html and every pages/*.html template from fsys.
func NewShell(site *SiteConfig, fsys fs.FS) (*Shell, error) {
	base, err := template.New(layoutFile).Funcs(funcs).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("layout: parse %s: %w", layoutFile, err)
	}

	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("layout: list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("layout: clone for %s: %w", file, err)
		}
		if _, err := t.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("layout: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Shell{site: site, pages: pages}, nil
}

func (s *Shell) page(name string) (*template.Template, error) {
	t, ok := s.pages[name]
	if !ok {
		return nil, fmt.Errorf("layout: unknown page %q", name)
	}
	return t, nil
}

func (s *Shell) document(r *http.Request, title string, content any) *document {
	if title == "" {
		title = s.site.Metadata.Title
	}
	return &document{
		Lang:      s.site.Lang,
		Title:     title,
		Meta:      s.site.Metadata,
		Viewport:  s.site.Viewport.Content(),
		FontsHref: s.site.fontsHref(),
		FontVars:  template.CSS(s.site.fontVars()),
		Nonce:     uuid.NewString(),
		Theme:     providers.ThemeFromContext(r.Context()),
		Session:   providers.SessionFromContext(r.Context()),
		Content:   content,
	}
}

func setDocumentHeaders(w http.ResponseWriter, nonce string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", fmt.Sprintf(
		"default-src 'self'; style-src 'self' 'nonce-%s' https://fonts.googleapis.com; font-src https://fonts.gstatic.com; img-src 'self' data: https:; frame-ancestors 'none'",
		nonce,
	))
	h.Set("X-Content-Type-Options", "nosniff")
}

// Render executes the page inside the layout. The page is rendered to a
// buffer first, so a template error leaves the response untouched.
func (s *Shell) Render(w http.ResponseWriter, r *http.Request, p Page) error {
	t, err := s.page(p.Name)
	if err != nil {
		return err
	}

	doc := s.document(r, p.Title, p.Content)
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", doc); err != nil {
		return fmt.Errorf("layout: render %s: %w", p.Name, err)
	}

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	setDocumentHeaders(w, doc.Nonce)
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
