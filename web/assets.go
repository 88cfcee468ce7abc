package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static
var assets embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(assets, "templates/*.html")
}

// Static returns the embedded static files rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// Unreachable: the directory is embedded at build time.
		panic(err)
	}
	return sub
}
