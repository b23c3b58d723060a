// Package articles composes repository reads, aggregation and rendering into
// the page and API models shared by the web pages, the JSON API and MCP tools.
package articles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/catalog"
	"github.com/starford/mocinformacji/internal/content"
	"github.com/starford/mocinformacji/internal/models"
	"github.com/starford/mocinformacji/internal/render"
)

const (
	// RelatedCount is how many same-category links an article page shows.
	RelatedCount = 6
	// HomeLatest caps the "latest" list on the home page.
	HomeLatest = 60
)

// CategoryGroup is one category section of the home page.
type CategoryGroup struct {
	Meta     catalog.CategoryMeta
	Articles []models.Article
}

// HomePage is everything the home page shows.
type HomePage struct {
	Latest []models.Article
	Groups []CategoryGroup
	Total  int
}

// ArticlePage is one fully rendered article.
type ArticlePage struct {
	Article     *models.Article
	Category    catalog.CategoryMeta
	Body        render.Document
	Layout      []render.Part
	ShowFAQ     bool
	ReadingTime int
	Image       string
	Related     []models.RelatedArticle
}

// CategoryPage lists one category.
type CategoryPage struct {
	Meta     catalog.CategoryMeta
	Articles []models.Article
}

// SearchPage holds search results.
type SearchPage struct {
	Query   string
	Results []models.Article
}

// CategorySummary is one category with its article count.
type CategorySummary struct {
	catalog.CategoryMeta
	Count int `json:"count"`
}

// Service builds page models on top of a content repository.
type Service struct {
	repo   content.Repository
	logger *slog.Logger
}

// NewService creates a new article service.
func NewService(repo content.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With(slog.String("component", "articles"))}
}

// Home returns the latest articles and the per-category groups.
func (s *Service) Home(ctx context.Context) HomePage {
	all := s.repo.All(ctx)
	groups := catalog.GroupByCategory(all)
	page := HomePage{
		Latest: catalog.Latest(all, HomeLatest),
		Groups: make([]CategoryGroup, len(groups)),
		Total:  len(all),
	}
	for i, g := range groups {
		page.Groups[i] = CategoryGroup{Meta: catalog.CategoryInfo(g.Category), Articles: g.Articles}
	}
	return page
}

// Get returns one article. Errors wrap apperr.ErrNotFound when it is absent.
func (s *Service) Get(ctx context.Context, category, slug string) (*models.Article, error) {
	return s.repo.Get(ctx, category, slug)
}

// Article renders one article with its related links.
func (s *Service) Article(ctx context.Context, category, slug string) (*ArticlePage, error) {
	a, err := s.repo.Get(ctx, category, slug)
	if err != nil {
		return nil, err
	}
	body, err := render.Build(a)
	if err != nil {
		return nil, fmt.Errorf("articles: render %s/%s: %w", a.Category, a.Slug, err)
	}
	showFAQ := render.ShowFAQ(a)
	return &ArticlePage{
		Article:     a,
		Category:    catalog.CategoryInfo(a.Category),
		Body:        body,
		Layout:      render.Layout(len(body.Sections), showFAQ),
		ShowFAQ:     showFAQ,
		ReadingTime: catalog.ReadingTime(a.WordCount),
		Image:       catalog.FeaturedImage(a.FeaturedImage, a.Category),
		Related:     catalog.RelatedLinks(s.repo.Related(ctx, a.Category, a.Slug, RelatedCount)),
	}, nil
}

// Category lists the articles of one category, newest first. A category
// without readable articles is not found.
func (s *Service) Category(ctx context.Context, category string) (*CategoryPage, error) {
	list := catalog.InCategory(s.repo.All(ctx), category)
	if len(list) == 0 {
		return nil, fmt.Errorf("articles: category %s: %w", category, apperr.ErrNotFound)
	}
	// Display the directory's own spelling, not the request's.
	return &CategoryPage{Meta: catalog.CategoryInfo(list[0].Category), Articles: list}, nil
}

// Search runs a substring search over all articles. The query is kept
// verbatim; only a blank one skips the lookup.
func (s *Service) Search(ctx context.Context, q string) SearchPage {
	page := SearchPage{Query: q}
	if strings.TrimSpace(q) == "" {
		return page
	}
	page.Results = catalog.Search(s.repo.All(ctx), q)
	s.logger.Debug("search", slog.String("query", q), slog.Int("results", len(page.Results)))
	return page
}

// Recent returns every article newest first.
func (s *Service) Recent(ctx context.Context) []models.Article {
	return catalog.SortByRecency(s.repo.All(ctx))
}

// Summaries returns the API summary of every article, newest first.
func (s *Service) Summaries(ctx context.Context) []models.ArticleSummary {
	return catalog.Summaries(s.Recent(ctx))
}

// Categories returns every category with its article count, in the order
// categories first appear among the newest articles.
func (s *Service) Categories(ctx context.Context) []CategorySummary {
	groups := catalog.GroupByCategory(s.repo.All(ctx))
	out := make([]CategorySummary, len(groups))
	for i, g := range groups {
		out[i] = CategorySummary{CategoryMeta: catalog.CategoryInfo(g.Category), Count: len(g.Articles)}
	}
	return out
}
