// Package models defines the domain types for the content site.
package models

import (
	"strings"
	"time"
)

// ComparisonVS marks a head-to-head comparison article.
const ComparisonVS = "vs"

// Article is one content record loaded from contentRoot/{category}/{slug}.json.
// Category and Slug always reflect the file location.
type Article struct {
	Title           string    `json:"Title"`
	H1              string    `json:"H1"`
	MetaDescription string    `json:"MetaDescription"`
	Category        string    `json:"Category"`
	Slug            string    `json:"Slug"`
	LastModified    time.Time `json:"LastModified"`
	Article         string    `json:"Article,omitempty"`
	Content         []string  `json:"Content,omitempty"`
	Sections        []string  `json:"Sections,omitempty"`
	FAQ             []FAQItem `json:"FAQ,omitempty"`
	WordCount       int       `json:"WordCount,omitempty"`
	FeaturedImage   string    `json:"FeaturedImage,omitempty"`
	ComparisonType  string    `json:"ComparisonType,omitempty"`
}

// FAQItem is a canonical question/answer pair.
type FAQItem struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

// URL returns the site path of the article.
func (a *Article) URL() string {
	return "/" + a.Category + "/" + a.Slug
}

// IsComparison reports whether the article is a "vs" comparison.
func (a *Article) IsComparison() bool {
	return a.ComparisonType == ComparisonVS
}

// HasLegacyBody reports whether the article uses the Content/Sections shape.
// A whitespace-only Article blob counts as absent.
func (a *Article) HasLegacyBody() bool {
	return strings.TrimSpace(a.Article) == "" && (len(a.Content) > 0 || len(a.Sections) > 0)
}

// DefaultModified stands in for an absent LastModified.
var DefaultModified = time.Unix(0, 0).UTC()

// Modified returns LastModified, or DefaultModified for an undated record.
func (a *Article) Modified() time.Time {
	if a.LastModified.IsZero() {
		return DefaultModified
	}
	return a.LastModified
}

// ArticleSummary is the lightweight shape returned by the list and search APIs.
type ArticleSummary struct {
	Title           string    `json:"Title"`
	MetaDescription string    `json:"MetaDescription"`
	Category        string    `json:"Category"`
	Slug            string    `json:"Slug"`
	LastModified    time.Time `json:"LastModified"`
}

// Summary projects an article onto its API summary.
func (a *Article) Summary() ArticleSummary {
	return ArticleSummary{
		Title:           a.Title,
		MetaDescription: a.MetaDescription,
		Category:        a.Category,
		Slug:            a.Slug,
		LastModified:    a.Modified(),
	}
}

// RelatedArticle is a link to another article in the same category.
type RelatedArticle struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// TocItem is one table-of-contents entry computed at render time.
type TocItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// EntryMetadata describes one article file in the content store.
type EntryMetadata struct {
	Path      string    `json:"path"`
	Category  string    `json:"category"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}
