// Package web holds the embedded browser UI.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate is the template name rendered for GET /.
const IndexTemplate = "index.html"

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for use during router setup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
