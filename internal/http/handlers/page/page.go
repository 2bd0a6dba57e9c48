// Package page serves the static pages that never touch the store.
package page

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/http/views"
)

// Home handles GET /.
func Home(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, http.StatusOK, views.Index, views.Data{Title: "Student Registration Portal"})
	}
}

// RegisterForm handles GET /register.
func RegisterForm(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, http.StatusOK, views.Register, views.Data{Title: "Register New Student"})
	}
}

// NotFound answers every request no other route matched, whatever the
// method, with the 404 page.
func NotFound(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("no route",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
		renderer.Render(w, http.StatusNotFound, views.NotFound, views.Data{Title: "Page Not Found"})
	}
}
