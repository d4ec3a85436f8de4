package httpx

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
)

// Renderer executes embedded HTML page templates. Each page template is
// parsed together with the shared partials so it can reference "header" and
// "footer" by name. Pages render into a buffer first so a template error
// never produces a half-written response.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from the filesystem. Expects
// templates/partials/*.tmpl for shared fragments and templates/pages/*.tmpl
// for pages.
func NewRenderer(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	pageFiles, err := fs.Glob(fsys, "templates/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := path.Base(file)
		files := append(append([]string{}, partials...), file)
		tmpl, err := template.New(name).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes the named page template with the given status code.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown template", slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.Error("template render failed",
			slog.String("template", name),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
