// Package web serves the HTML site: pages, feeds and crawler files.
package web

import (
	"net/http"

	"github.com/a-h/templ"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, code int, cmp templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	return cmp.Render(r.Context(), w)
}
