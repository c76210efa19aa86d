package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

const layoutName = "layout.html"

// Renderer executes an app's templates. Files starting with an underscore
// are fragments rendered on their own (htmx swaps); every other file is a
// page wrapped in layout.html. Fragments are parsed into every set so pages
// can embed them with {{template "_name.html" .}}.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	var pages, fragments []string
	hasLayout := false
	for _, name := range names {
		switch {
		case name == layoutName:
			hasLayout = true
		case strings.HasPrefix(path.Base(name), "_"):
			fragments = append(fragments, name)
		default:
			pages = append(pages, name)
		}
	}
	if len(pages) > 0 && !hasLayout {
		return nil, fmt.Errorf("pages found but %s is missing", layoutName)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(names))}

	for _, name := range fragments {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, fragments...)
		if err != nil {
			return nil, fmt.Errorf("parse fragment %s: %w", name, err)
		}
		r.templates[name] = t
	}

	for _, name := range pages {
		patterns := append([]string{layoutName}, fragments...)
		patterns = append(patterns, name)
		t, err := template.New(layoutName).Funcs(funcs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.templates[name] = t
	}

	return r, nil
}

// Render writes the named template with status. The output is buffered so a
// failing template produces a clean 500 instead of a half written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	buf, err := r.Execute(name, data)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Execute renders the named template into a buffer.
func (r *Renderer) Execute(name string, data any) (*bytes.Buffer, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	entry := layoutName
	if strings.HasPrefix(name, "_") {
		entry = name
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return &buf, nil
}

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"signed": func(v float64) string {
		if v >= 0 {
			return fmt.Sprintf("+%.2f", v)
		}
		return fmt.Sprintf("%.2f", v)
	},
	// safeURL lets data: URLs through html/template's URL filter.
	"safeURL": func(s string) template.URL {
		return template.URL(s)
	},
}
