// Package assets embeds the files the server ships with: the single-page
// template and the SQLite migrations.
package assets

import (
	"embed"
	"html/template"
)

//go:embed sql/*.sql web/index.html
var FS embed.FS

// PageTemplate parses the quiz page.
func PageTemplate() (*template.Template, error) {
	return template.ParseFS(FS, "web/index.html")
}
