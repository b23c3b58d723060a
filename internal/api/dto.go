package api

import (
	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/models"
)

// ArticleSummary is one entry of the list and search responses.
type ArticleSummary = models.ArticleSummary

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []ArticleSummary `json:"results" validate:"required"`
}

// ArticleDetail is the full article with derived fields.
type ArticleDetail struct {
	models.Article
	ReadingTime int                     `json:"ReadingTime" example:"4"`
	Related     []models.RelatedArticle `json:"Related"`
	TOC         []models.TocItem        `json:"TOC"`
}

// ViewsResponse carries the unique-visitor total.
type ViewsResponse struct {
	Views int `json:"views" example:"1024" validate:"required"`
}

// CategoryListResponse wraps category metadata with counts.
type CategoryListResponse struct {
	Categories []articles.CategorySummary `json:"categories" validate:"required"`
}

// StatusResponse is returned by admin actions.
type StatusResponse struct {
	Status string `json:"status" example:"ok" validate:"required"`
}
