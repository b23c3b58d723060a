// Package catalog sorts, groups and searches article collections.
//
// Every function is pure: inputs are never modified and results are fresh slices.
package catalog

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/starford/mocinformacji/internal/models"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 225

// DefaultReadingTime is reported when an article has no word count.
const DefaultReadingTime = 5

// DefaultModified stands in for an absent LastModified when ordering.
var DefaultModified = models.DefaultModified

// EffectiveModified returns the timestamp used for ordering a.
func EffectiveModified(a *models.Article) time.Time {
	return a.Modified()
}

// SortByRecency returns articles ordered newest first. Equal timestamps keep
// their input order.
func SortByRecency(articles []models.Article) []models.Article {
	out := slices.Clone(articles)
	slices.SortStableFunc(out, func(a, b models.Article) int {
		return EffectiveModified(&b).Compare(EffectiveModified(&a))
	})
	return out
}

// Group is one category partition.
type Group struct {
	Category string
	Articles []models.Article
}

// GroupByCategory partitions articles by Category. Groups appear in the order
// their category first occurs in the recency-sorted input, and each group is
// itself recency sorted.
func GroupByCategory(articles []models.Article) []Group {
	sorted := SortByRecency(articles)
	pos := make(map[string]int)
	var groups []Group
	for _, a := range sorted {
		i, ok := pos[a.Category]
		if !ok {
			i = len(groups)
			pos[a.Category] = i
			groups = append(groups, Group{Category: a.Category})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	return groups
}

// Search returns the articles whose Title, MetaDescription or H1 contains q,
// ignoring case, newest first. The query is matched as given, spaces
// included; a blank query matches nothing.
func Search(articles []models.Article, q string) []models.Article {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	needle := strings.ToLower(q)
	var out []models.Article
	for _, a := range articles {
		if containsFold(a.Title, needle) || containsFold(a.MetaDescription, needle) || containsFold(a.H1, needle) {
			out = append(out, a)
		}
	}
	return SortByRecency(out)
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// InCategory returns the articles of category (case-insensitive), newest first.
func InCategory(articles []models.Article, category string) []models.Article {
	var out []models.Article
	for _, a := range articles {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return SortByRecency(out)
}

// Latest returns the n newest articles.
func Latest(articles []models.Article, n int) []models.Article {
	sorted := SortByRecency(articles)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ReadingTime estimates minutes of reading for wordCount words.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return DefaultReadingTime
	}
	return int(math.Ceil(float64(wordCount) / WordsPerMinute))
}

// Summaries projects articles onto the API summary shape.
func Summaries(articles []models.Article) []models.ArticleSummary {
	out := make([]models.ArticleSummary, len(articles))
	for i := range articles {
		out[i] = articles[i].Summary()
	}
	return out
}

// RelatedLinks projects articles onto related-article links.
func RelatedLinks(articles []models.Article) []models.RelatedArticle {
	out := make([]models.RelatedArticle, len(articles))
	for i, a := range articles {
		out[i] = models.RelatedArticle{Title: a.Title, URL: a.URL(), Category: a.Category}
	}
	return out
}
