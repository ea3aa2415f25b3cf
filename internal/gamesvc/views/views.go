package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006.01.02.")
	},
	"rfc3339": func(t time.Time) string { return t.Format(time.RFC3339) },
}

// Renderer executes the page templates, each wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render writes page with status. The page is rendered into a buffer first so
// a template error still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Errorf("unknown page %s", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("render %s: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("write %s: %v", page, err)
	}
}
