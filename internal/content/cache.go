package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/models"
)

// Cache keeps the full article set in memory for ttl. A zero ttl disables
// caching and every call goes to the wrapped repository.
type Cache struct {
	next Repository
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	articles []models.Article
	byKey    map[string]int
	fetched  time.Time
}

// NewCache wraps next with a TTL cache.
func NewCache(next Repository, ttl time.Duration) *Cache {
	return &Cache{next: next, ttl: ttl, now: time.Now}
}

func (c *Cache) valid() bool {
	return c.articles != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate drops the cached set so the next read reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.byKey = nil
	c.mu.Unlock()
}

func key(category, slug string) string {
	return strings.ToLower(category) + "/" + strings.ToLower(slug)
}

// ensureLoaded returns the cached set, reloading under the write lock when stale.
func (c *Cache) ensureLoaded(ctx context.Context) ([]models.Article, map[string]int) {
	c.mu.RLock()
	if c.valid() {
		articles, byKey := c.articles, c.byKey
		c.mu.RUnlock()
		return articles, byKey
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.articles, c.byKey
	}
	articles := c.next.All(ctx)
	if ctx.Err() != nil {
		return articles, index(articles)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	c.articles = articles
	c.byKey = index(articles)
	c.fetched = c.now()
	return c.articles, c.byKey
}

func index(articles []models.Article) map[string]int {
	m := make(map[string]int, len(articles))
	for i, a := range articles {
		m[key(a.Category, a.Slug)] = i
	}
	return m
}

// Get looks the article up in the cached set.
func (c *Cache) Get(ctx context.Context, category, slug string) (*models.Article, error) {
	if c.ttl <= 0 {
		return c.next.Get(ctx, category, slug)
	}
	articles, byKey := c.ensureLoaded(ctx)
	i, ok := byKey[key(category, slug)]
	if !ok {
		return nil, fmt.Errorf("content: get %s/%s: %w", category, slug, apperr.ErrNotFound)
	}
	a := articles[i]
	return &a, nil
}

// All returns a copy of the cached set.
func (c *Cache) All(ctx context.Context) []models.Article {
	if c.ttl <= 0 {
		return c.next.All(ctx)
	}
	articles, _ := c.ensureLoaded(ctx)
	return slices.Clone(articles)
}

// Related filters the cached set.
func (c *Cache) Related(ctx context.Context, category, slug string, count int) []models.Article {
	if c.ttl <= 0 {
		return c.next.Related(ctx, category, slug, count)
	}
	articles, _ := c.ensureLoaded(ctx)
	return related(articles, category, slug, count)
}
