package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/articles"
)

// Handler serves the HTML pages and feeds.
type Handler struct {
	svc    *articles.Service
	site   Site
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *articles.Service, site Site, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, site: site, logger: logger.With(slog.String("component", "web"))}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, cmp templ.Component) {
	if err := RenderStatus(w, r, code, cmp); err != nil {
		h.logger.Error("render failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	h.logger.Error("page failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, HomePage(h.site, h.svc.Home(r.Context())))
}

// Article handles GET /{category}/{slug}.
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Article(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, ArticlePage(h.site, page))
}

// Category handles GET /category/{category}.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Category(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, CategoryPage(h.site, page))
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, SearchPage(h.site, h.svc.Search(r.Context(), r.URL.Query().Get("q"))))
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, NotFoundPage(h.site))
}

// RSS handles GET /rss.xml.
func (h *Handler) RSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := WriteRSS(w, h.site, h.svc.Recent(r.Context())); err != nil {
		h.logger.Error("rss failed", slog.String("error", err.Error()))
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := WriteSitemap(w, h.site, h.svc.Recent(r.Context())); err != nil {
		h.logger.Error("sitemap failed", slog.String("error", err.Error()))
	}
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := WriteRobots(w, h.site); err != nil {
		h.logger.Error("robots failed", slog.String("error", err.Error()))
	}
}
