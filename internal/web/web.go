// Package web embeds the HTML pages rendered by the handlers.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TimeLayout formats roster timestamps (UTC) on the dashboard and in the CSV export.
const TimeLayout = "2006-01-02 15:04:05"

var funcs = template.FuncMap{
	"utc": func(t time.Time) string { return t.UTC().Format(TimeLayout) },
}

// Templates parses every embedded page. Pages are addressed by their
// {{define}} name, e.g. "register" or "admin_dashboard".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// MustTemplates is Templates for process start-up and tests.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
