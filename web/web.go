// Package web embeds the HTML templates and the static assets (CSS and
// the browser script) into the binary, so the server has no runtime
// dependency on the working directory.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the static asset tree rooted at static/, so it can be
// served as-is: /css/style.css, /js/main.js.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
