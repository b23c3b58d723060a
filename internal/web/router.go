package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mocinformacji/internal/articles"
)

const (
	pageMaxAge = 5 * time.Minute
	feedMaxAge = time.Hour
)

// CacheControl sets a public Cache-Control header with the given max age.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}

// Register mounts the site routes on r. Fixed paths are registered before
// the /{category}/{slug} catch-all so chi prefers them.
func Register(r chi.Router, svc *articles.Service, site Site, logger *slog.Logger) {
	h := NewHandler(svc, site, logger)

	r.Group(func(r chi.Router) {
		r.Use(CacheControl(feedMaxAge))
		r.Get("/rss.xml", h.RSS)
		r.Get("/sitemap.xml", h.Sitemap)
		r.Get("/robots.txt", h.Robots)
	})

	r.Group(func(r chi.Router) {
		r.Use(CacheControl(pageMaxAge))
		r.Get("/", h.Home)
		r.Get("/search", h.Search)
		r.Get("/category/{category}", h.Category)
		r.Get("/{category}/{slug}", h.Article)
	})

	r.NotFound(h.NotFound)
}
