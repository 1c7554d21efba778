package layout

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/dhonidev-ai/site/web"
)

var ErrMissingTitle = errors.New("site config: metadata.title is required")

// SiteConfig is the static, build-time description of the site: document
// metadata, viewport and fonts. It is loaded once and never mutated.
type SiteConfig struct {
	Lang     string   `yaml:"lang"`
	Metadata Metadata `yaml:"metadata"`
	Viewport Viewport `yaml:"viewport"`
	Fonts    []Font   `yaml:"fonts"`
}

type Metadata struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Keywords    []string  `yaml:"keywords"`
	Authors     []Author  `yaml:"authors"`
	OpenGraph   OpenGraph `yaml:"openGraph"`
}

type Author struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type OpenGraph struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
}

type Viewport struct {
	Width        string  `yaml:"width"`
	InitialScale float64 `yaml:"initialScale"`
}

// Content renders the viewport as a meta tag content value.
func (v Viewport) Content() string {
	parts := []string{"width=" + v.Width}
	if v.InitialScale > 0 {
		parts = append(parts, "initial-scale="+strconv.FormatFloat(v.InitialScale, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

// Font is a web font exposed to stylesheets through a CSS custom property.
type Font struct {
	Family   string `yaml:"family"`
	Variable string `yaml:"variable"`
	Fallback string `yaml:"fallback"`
}

// ParseSiteConfig parses site.yaml content and fills in defaults.
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("site config: %w", err)
	}

	if site.Metadata.Title == "" {
		return nil, ErrMissingTitle
	}
	if site.Lang == "" {
		site.Lang = "en"
	}
	if site.Viewport.Width == "" {
		site.Viewport.Width = "device-width"
	}
	if site.Viewport.InitialScale == 0 {
		site.Viewport.InitialScale = 1
	}
	og := &site.Metadata.OpenGraph
	if og.Title == "" {
		og.Title = site.Metadata.Title
	}
	if og.Description == "" {
		og.Description = site.Metadata.Description
	}
	if og.Type == "" {
		og.Type = "website"
	}
	for i, f := range site.Fonts {
		if f.Family == "" || !strings.HasPrefix(f.Variable, "--") {
			return nil, fmt.Errorf("site config: font %d needs a family and a --variable", i)
		}
	}

	return &site, nil
}

// LoadSiteConfig reads the site config from path, or the embedded default
// when path is empty.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	if path == "" {
		return ParseSiteConfig(web.SiteConfig)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site config: %w", err)
	}
	return ParseSiteConfig(data)
}

// fontsHref returns the Google Fonts stylesheet URL for all configured fonts.
func (s *SiteConfig) fontsHref() string {
	if len(s.Fonts) == 0 {
		return ""
	}
	q := make([]string, 0, len(s.Fonts)+1)
	for _, f := range s.Fonts {
		q = append(q, "family="+url.QueryEscape(f.Family))
	}
	q = append(q, "display=swap")
	return "https://fonts.googleapis.com/css2?" + strings.Join(q, "&")
}

// fontVars returns the CSS rule binding each font's custom property.
func (s *SiteConfig) fontVars() string {
	var b strings.Builder
	b.WriteString(".font-vars{")
	for _, f := range s.Fonts {
		fallback := f.Fallback
		if fallback == "" {
			fallback = "sans-serif"
		}
		fmt.Fprintf(&b, "%s:%q,%s;", f.Variable, f.Family, fallback)
	}
	b.WriteString("}")
	return b.String()
}
