package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/views"
)

// Options configures the parts of the API that are optional or protected.
type Options struct {
	// AuthEnabled and Token guard the admin routes.
	AuthEnabled bool
	Token       string
	// Limiter throttles POST /views per client address; nil disables it.
	Limiter *Limiter
	// Reload is called by POST /admin/reload.
	Reload func()
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *articles.Service, counter views.Counter, opts Options) chi.Router {
	h := NewHandler(svc, counter, opts.Reload)

	r := chi.NewRouter()

	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{category}/{slug}", h.GetArticle)
	r.Get("/search", h.Search)
	r.Get("/categories", h.ListCategories)

	r.Get("/views", h.GetViews)
	r.With(RateLimit(opts.Limiter)).Post("/views", h.IncrementViews)

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.AuthEnabled, opts.Token))
		r.Post("/admin/reload", h.Reload)
	})

	return r
}
