// Package content loads article records from the content store.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/catalog"
	"github.com/starford/mocinformacji/internal/models"
	"github.com/starford/mocinformacji/internal/parser"
	"github.com/starford/mocinformacji/internal/storage"
)

// Repository is the read contract shared by the page renderer and the JSON API.
type Repository interface {
	// Get returns one article; category and slug match case-insensitively.
	Get(ctx context.Context, category, slug string) (*models.Article, error)
	// All returns every readable article, unordered.
	All(ctx context.Context) []models.Article
	// Related returns up to count articles of the same category, excluding slug.
	Related(ctx context.Context, category, slug string, count int) []models.Article
}

// FileRepository reads the content store on every call.
type FileRepository struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewFileRepository creates a repository over store.
func NewFileRepository(store storage.Provider, logger *slog.Logger) *FileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRepository{
		store:  store,
		logger: logger.With(slog.String("component", "content")),
	}
}

// Get resolves, reads and parses a single record. Missing, unreadable and
// malformed records all surface as apperr.ErrNotFound.
func (r *FileRepository) Get(_ context.Context, category, slug string) (*models.Article, error) {
	rel, err := r.store.Resolve(category, slug)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			r.logger.Error("resolve failed",
				slog.String("category", category),
				slog.String("slug", slug),
				slog.String("error", err.Error()))
		} else {
			r.logger.Warn("article not found",
				slog.String("category", category),
				slog.String("slug", slug))
		}
		return nil, fmt.Errorf("content: get %s/%s: %w", category, slug, apperr.ErrNotFound)
	}

	article, err := r.load(rel)
	if err != nil {
		return nil, fmt.Errorf("content: get %s/%s: %w: %w", category, slug, apperr.ErrNotFound, err)
	}
	return article, nil
}

// All walks the whole tree. A bad file is logged and skipped; a failing walk
// yields an empty collection.
func (r *FileRepository) All(ctx context.Context) []models.Article {
	metas, err := r.store.List("")
	if err != nil {
		r.logger.Error("list content failed", slog.String("error", err.Error()))
		return nil
	}

	out := make([]models.Article, 0, len(metas))
	for _, m := range metas {
		if ctx.Err() != nil {
			return nil
		}
		article, err := r.load(m.Path)
		if err != nil {
			continue
		}
		out = append(out, *article)
	}
	return out
}

// Related filters All down to the article's category.
func (r *FileRepository) Related(ctx context.Context, category, slug string, count int) []models.Article {
	return related(r.All(ctx), category, slug, count)
}

func (r *FileRepository) load(rel string) (*models.Article, error) {
	category, slug, ok := storage.SplitEntry(rel)
	if !ok {
		return nil, fmt.Errorf("content: not a record path: %s", rel)
	}
	data, err := r.store.Read(rel)
	if err != nil {
		r.logger.Error("read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return nil, err
	}
	article, err := parser.Parse(data, category, slug)
	if err != nil {
		r.logger.Warn("skipping malformed record", slog.String("path", rel), slog.String("error", err.Error()))
		return nil, err
	}
	return article, nil
}

// related picks same-category articles other than slug, newest first.
func related(all []models.Article, category, slug string, count int) []models.Article {
	if count <= 0 {
		return nil
	}
	var out []models.Article
	for _, a := range all {
		if !strings.EqualFold(a.Category, category) || strings.EqualFold(a.Slug, slug) {
			continue
		}
		out = append(out, a)
	}
	out = catalog.SortByRecency(out)
	if len(out) > count {
		out = out[:count]
	}
	return out
}
