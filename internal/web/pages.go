package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/sse"
)

const faqHeadingID = "faq-heading"

func faqID(i int) string {
	return "faq-" + strconv.Itoa(i)
}

func fragment(id string) templ.SafeURL {
	return templ.SafeURL("#" + url.PathEscape(id))
}

func categoryURL(slug string) templ.SafeURL {
	return templ.SafeURL("/category/" + url.PathEscape(slug))
}

func background(color string) templ.KeyValue[string, string] {
	return templ.KV("background-color", color)
}

func textColor(color string) templ.KeyValue[string, string] {
	return templ.KV("color", color)
}

// blank reports a query with nothing to search for. The query itself is
// matched verbatim, surrounding spaces included.
func blank(q string) bool {
	return strings.TrimSpace(q) == ""
}

func homeMeta() PageMeta {
	return PageMeta{Path: "/", Live: &sse.Topic{}}
}

func articleMeta(page *articles.ArticlePage) PageMeta {
	a := page.Article
	return PageMeta{
		Title:       a.Title,
		Description: a.MetaDescription,
		Path:        a.URL(),
		Image:       page.Image,
		Live:        &sse.Topic{Category: a.Category, Slug: a.Slug},
	}
}

func categoryMeta(page *articles.CategoryPage) PageMeta {
	m := page.Meta
	return PageMeta{
		Title:       m.Name,
		Description: m.Description,
		Path:        "/category/" + m.Slug,
		Image:       m.Image,
		Live:        &sse.Topic{Category: m.Slug},
	}
}

func searchMeta() PageMeta {
	return PageMeta{Title: "Wyszukiwanie", Live: &sse.Topic{}}
}
