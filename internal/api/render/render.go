// Package render turns page models into HTML using the embedded templates.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/web"
)

// Page names, one template file each.
const (
	PageHome      = "home"
	PageEvents    = "events"
	PageDashboard = "dashboard"
	PageLogin     = "login"
	PageError     = "error"
)

// Flash is a one-shot banner. Kind is "success" or "error".
type Flash struct {
	Kind    string
	Message string
}

// Page is the data every page template receives. Data carries the
// page-specific model.
type Page struct {
	Title         string
	Nav           string
	Authenticated bool
	UserName      string
	CSRFField     template.HTML
	Flash         *Flash
	// Refresh is the content of a meta refresh, e.g. "1; url=/".
	Refresh string
	Data    any
}

// RefreshTo builds a meta refresh directive.
func RefreshTo(delay, url string) string {
	return delay + "; url=" + url
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	return NewFromFS(web.Templates)
}

// NewFromFS parses templates/layout.html together with each page template
// found in fsys.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), now: time.Now}
	funcs := template.FuncMap{
		"formatDate": catalog.FormatDate,
		"lower":      strings.ToLower,
		"year":       func() int { return r.now().Year() },
	}

	for _, name := range []string{PageHome, PageEvents, PageDashboard, PageLogin, PageError} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer and writes it with status. Nothing is
// written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
