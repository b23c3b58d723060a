// Package parser decodes article JSON records into canonical models.Article values.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/models"
)

// rawArticle mirrors every key shape found in published records. Key
// matching is case-insensitive (encoding/json semantics).
type rawArticle struct {
	Title              string   `json:"Title"`
	H1                 string   `json:"H1"`
	MetaDescription    string   `json:"MetaDescription"`
	MetaDescriptionAlt string   `json:"meta_description"`
	LastModified       any      `json:"LastModified"`
	Article            string   `json:"Article"`
	Content            []string `json:"Content"`
	Sections           []string `json:"Sections"`
	FAQ                []rawFAQ `json:"FAQ"`
	WordCount          any      `json:"WordCount"`
	FeaturedImage      string   `json:"FeaturedImage"`
	ComparisonType     string   `json:"ComparisonType"`
}

type rawFAQ struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
	Q        string `json:"q"`
	A        string `json:"a"`
}

// Parse decodes one record. category and slug come from the file location and
// always overwrite whatever the record itself says.
func Parse(data []byte, category, slug string) (*models.Article, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raw rawArticle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", apperr.ErrMalformed, category, slug, err)
	}

	title, h1 := raw.Title, raw.H1
	if title == "" {
		title = h1
	}
	if h1 == "" {
		h1 = title
	}
	if title == "" {
		return nil, fmt.Errorf("%w: %s/%s: missing Title and H1", apperr.ErrMalformed, category, slug)
	}

	meta := raw.MetaDescription
	if meta == "" {
		meta = raw.MetaDescriptionAlt
	}

	return &models.Article{
		Title:           title,
		H1:              h1,
		MetaDescription: meta,
		Category:        category,
		Slug:            slug,
		LastModified:    parseTime(raw.LastModified),
		Article:         raw.Article,
		Content:         raw.Content,
		Sections:        raw.Sections,
		FAQ:             normalizeFAQ(raw.FAQ),
		WordCount:       parseWordCount(raw.WordCount),
		FeaturedImage:   strings.TrimSpace(raw.FeaturedImage),
		ComparisonType:  strings.ToLower(strings.TrimSpace(raw.ComparisonType)),
	}, nil
}

// parseTime accepts ISO-8601 strings, plain dates and unix seconds. Anything
// unreadable counts as absent.
func parseTime(v any) time.Time {
	if v == nil {
		return time.Time{}
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// parseWordCount reads a count that may arrive as a number or a decimal
// string. Leading zeros are dropped so "0450" is not taken as octal.
func parseWordCount(v any) int {
	if v == nil {
		return 0
	}
	if s, ok := v.(string); ok {
		s = strings.TrimLeft(strings.TrimSpace(s), "0")
		if s == "" {
			return 0
		}
		v = s
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// normalizeFAQ folds the Question/Answer and q/a spellings into one pair.
func normalizeFAQ(in []rawFAQ) []models.FAQItem {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.FAQItem, 0, len(in))
	for _, f := range in {
		item := models.FAQItem{
			Question: firstNonEmpty(f.Question, f.Q),
			Answer:   firstNonEmpty(f.Answer, f.A),
		}
		if item.Question == "" && item.Answer == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
