// Package web holds the site's embedded assets: page templates, the global
// stylesheet, and the default site configuration.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templates embed.FS

//go:embed static
var static embed.FS

// SiteConfig is the default site.yaml used when SITE_CONFIG is not set.
//
//go:embed site.yaml
var SiteConfig []byte

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
