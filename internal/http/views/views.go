// Package views renders the server-side HTML pages.
//
// Every page is its own template set: the shared layout plus the page's
// "content" block. Parsing happens once, in New; Render only executes.
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/web"
)

// Page names accepted by Render.
const (
	Index         = "index"
	Register      = "register"
	Students      = "students"
	StudentDetail = "student-detail"
	NotFound      = "404"
)

var pageNames = []string{Index, Register, Students, StudentDetail, NotFound}

// Data is what every page template receives.
type Data struct {
	Title    string
	Student  *types.Student
	Students []types.Student
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": formatDate,
}

// New parses the embedded templates. It fails if any page is missing or
// does not parse, so a broken template is caught at startup.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}

	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(web.Templates,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("views.New: parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render writes page with the given status.
//
// The page is executed into a buffer first: if the template fails, the
// client gets a plain 500 rather than half a page with a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) {
	tmpl, ok := r.pages[page]
	if !ok {
		slog.Error("unknown page", slog.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formatDate turns a stored RegisteredAt into "Oct 18, 2026 09:30 UTC".
// Anything unparsable is shown verbatim.
func formatDate(ts string) string {
	t, err := time.Parse(types.TimestampLayout, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("Jan 2, 2006 15:04 MST")
}
