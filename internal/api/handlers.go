package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/checksum"
	"github.com/starford/mocinformacji/internal/views"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *articles.Service
	counter views.Counter
	reload  func()
}

// NewHandler creates a new Handler. reload may be nil.
func NewHandler(svc *articles.Service, counter views.Counter, reload func()) *Handler {
	return &Handler{svc: svc, counter: counter, reload: reload}
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List every article, newest first
//	@Tags			articles
//	@Produce		json
//	@Success		200	{array}	ArticleSummary
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Summaries(r.Context()))
}

// GetArticle handles GET /api/articles/{category}/{slug}.
//
//	@Summary		Get one article with derived fields
//	@Tags			articles
//	@Produce		json
//	@Param			category	path		string	true	"Category"
//	@Param			slug		path		string	true	"Slug"
//	@Success		200			{object}	ArticleDetail
//	@Success		304
//	@Failure		404			{object}	errResponse
//	@Router			/articles/{category}/{slug} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Article(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ArticleDetail{
		Article:     *page.Article,
		ReadingTime: page.ReadingTime,
		Related:     page.Related,
		TOC:         page.Body.TOC,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	tag := checksum.ETag(buf.Bytes())
	w.Header().Set("ETag", tag)
	if checksum.Match(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Search handles GET /api/search.
//
//	@Summary		Case-insensitive search over title, description and H1
//	@Tags			articles
//	@Produce		json
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	results := make([]ArticleSummary, len(page.Results))
	for i := range page.Results {
		results[i] = page.Results[i].Summary()
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListCategories handles GET /api/categories.
//
//	@Summary		List categories with article counts
//	@Tags			articles
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: h.svc.Categories(r.Context())})
}

// GetViews handles GET /api/views.
//
//	@Summary		Current unique-visitor total
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	ViewsResponse
//	@Failure		500	{object}	ViewsResponse
//	@Router			/views [get]
func (h *Handler) GetViews(w http.ResponseWriter, r *http.Request) {
	n, err := h.counter.Views(r.Context())
	if err != nil {
		slog.Error("read views failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ViewsResponse{Views: 0})
		return
	}
	writeJSON(w, http.StatusOK, ViewsResponse{Views: n})
}

// IncrementViews handles POST /api/views.
//
//	@Summary		Record the caller as a visitor and return the total
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	ViewsResponse
//	@Failure		429	{object}	errResponse
//	@Failure		500	{object}	ViewsResponse
//	@Router			/views [post]
func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	ip := ClientIP(r)
	n, err := h.counter.Increment(r.Context(), ip)
	if err != nil {
		slog.Error("increment views failed", slog.String("ip", ip), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ViewsResponse{Views: 0})
		return
	}
	writeJSON(w, http.StatusOK, ViewsResponse{Views: n})
}

// Reload handles POST /api/admin/reload.
//
//	@Summary		Drop cached content so the next request re-reads the tree
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/admin/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.reload != nil {
		h.reload()
	}
	slog.Info("content cache reloaded", slog.String("ip", ClientIP(r)))
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
