package providers

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"olga/web"
)

const (
	layoutTemplate = "templates/layout.html"
	pagesDir       = "templates/charts"
	DatetimeLayout = "2006-01-02 15:04:05"
)

type RendererInterface interface {
	Render(w io.Writer, name string, data any) error
}

// TemplateRenderer keeps one compiled template per page: the layout cloned and
// overlaid with the page's "title" and "content" blocks. Pages are addressed
// as "charts/<file>".
type TemplateRenderer struct {
	pages map[string]*template.Template
}

func NewTemplateRenderer() (RendererInterface, error) {
	funcMap := template.FuncMap{
		"formatDatetime": func(t time.Time) string {
			return t.UTC().Format(DatetimeLayout)
		},
	}

	layout, err := template.New(path.Base(layoutTemplate)).Funcs(funcMap).ParseFS(web.TemplateFS, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.ReadDir(web.TemplateFS, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", e.Name(), err)
		}
		if _, err := clone.ParseFS(web.TemplateFS, path.Join(pagesDir, e.Name())); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", e.Name(), err)
		}
		pages[path.Join("charts", e.Name())] = clone
	}

	return &TemplateRenderer{pages: pages}, nil
}

func (tr *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := tr.pages[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
