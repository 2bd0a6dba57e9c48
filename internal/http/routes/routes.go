// Package routes assembles the route table.
//
// Route table:
//
//	GET    /                 → landing page
//	GET    /register         → registration form
//	POST   /register         → register a student (JSON envelope)
//	GET    /students         → table of all students
//	GET    /student/{id}     → student detail page (404 page if unknown)
//	DELETE /student/{id}     → delete a student (JSON envelope)
//	GET    /api/students     → all students as JSON
//	GET    /api/stats        → totals per course as JSON
//	GET    /css/*, /js/*     → embedded static assets
//	*      anything else     → 404 page
package routes

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/aanand-mishra/student-portal/internal/http/handlers/page"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/student"
	"github.com/aanand-mishra/student-portal/internal/http/views"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/web"
)

// New returns the router for the given store and renderer.
func New(store storage.Storage, renderer *views.Renderer) *http.ServeMux {
	router := http.NewServeMux()

	// "/{$}" matches only the root; plain "/" is the catch-all below.
	router.HandleFunc("GET /{$}", page.Home(renderer))
	router.HandleFunc("GET /register", page.RegisterForm(renderer))

	router.HandleFunc("POST /register", student.New(store))
	router.HandleFunc("GET /students", student.List(store, renderer))
	router.HandleFunc("GET /student/{id}", student.Detail(store, renderer))
	router.HandleFunc("DELETE /student/{id}", student.Delete(store))

	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/stats", student.Stats(store))

	notFound := page.NotFound(renderer)

	assets := staticFiles(web.Static(), notFound)
	router.Handle("GET /css/", assets)
	router.Handle("GET /js/", assets)

	// Matches every method and path nothing above claimed, so a wrong
	// method on a known path also gets the 404 page rather than a 405.
	router.HandleFunc("/", notFound)

	return router
}

// staticFiles serves regular files from fsys. Directories and missing
// files get notFound, so no directory listing is ever generated.
func staticFiles(fsys fs.FS, notFound http.Handler) http.Handler {
	files := http.FileServerFS(fsys)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")

		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
