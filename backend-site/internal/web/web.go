// Package web holds the server-rendered pages and their template helpers.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/handoff"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	PageLanding   = "landing.html"
	PageLogin     = "login.html"
	PageRegister  = "register.html"
	PageForgot    = "forgot.html"
	PageDashboard = "dashboard.html"
	PageSection   = "section.html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown renders tenant-authored copy. Raw HTML in the source is dropped.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// FuncMap returns the helpers available to every page
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"whatsapp":       handoff.URL,
		"serviceMessage": handoff.ServiceMessage,
		"markdown":       Markdown,
		"roleLabel":      func(r domain.Role) string { return r.Label() },
		"stars": func(n int) string {
			if n < 0 {
				n = 0
			}
			if n > 5 {
				n = 5
			}
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"css": func(s string) template.CSS { return template.CSS(s) },
	}
}

// Templates parses every embedded page
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
