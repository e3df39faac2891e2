// Package templates embeds the server rendered pages: client signing and
// satisfaction survey.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
