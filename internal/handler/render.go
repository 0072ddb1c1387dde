package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/sakif/yatube/internal/storage"
)

// Renderer turns a page name ("index.html") and its view data into HTML.
// Handlers depend on this interface so tests can capture the data instead
// of parsing markup.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// TemplateRenderer renders pages from html/template files.
//
// Every page is parsed together with templates/base.html and the partials
// in templates/includes/, then executed through the "base" template:
//
//	base.html     {{define "base"}} ... {{template "content" .}} ... {{end}}
//	index.html    {{define "content"}} ... {{end}}
//
// Each page gets its own template set so the "content" blocks do not
// overwrite one another.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses every page under templates/ in fsys. Parsing
// happens once at startup; a broken template fails the server start rather
// than the first request.
func NewTemplateRenderer(fsys fs.FS, funcs template.FuncMap) (*TemplateRenderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	includes, err := fs.Glob(fsys, "templates/includes/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing template includes: %w", err)
	}

	r := &TemplateRenderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := path.Base(file)
		if name == "base.html" {
			continue
		}

		patterns := append([]string{"templates/base.html"}, includes...)
		patterns = append(patterns, file)

		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	if len(r.pages) == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	return r, nil
}

func (r *TemplateRenderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// Funcs returns the template helpers. images resolves stored image keys to
// URLs and may be nil when uploads are disabled.
func Funcs(images storage.ImageStore) template.FuncMap {
	return template.FuncMap{
		"mediaURL": func(key string) string {
			if images == nil || key == "" {
				return ""
			}
			return images.URL(key)
		},
		"linebreaksbr": linebreaksbr,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"profileURL": profileURL,
		"postURL":    postURL,
		"groupURL":   groupURL,
		"pageURL": func(n int) string {
			return fmt.Sprintf("?page=%d", n)
		},
	}
}

// linebreaksbr escapes s and turns newlines into <br>.
func linebreaksbr(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
