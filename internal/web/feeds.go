package web

import (
	"encoding/xml"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/starford/mocinformacji/internal/catalog"
	"github.com/starford/mocinformacji/internal/models"
)

// FeedSize caps the number of RSS items.
const FeedSize = 50

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// absURL joins p onto the site base URL. An empty base leaves p relative.
func absURL(base, p string) string {
	if base == "" {
		return p
	}
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimSuffix(base, "/") + p
	}
	u.Path = path.Join("/", u.Path, p)
	return u.String()
}

// WriteRSS writes an RSS 2.0 feed of the newest articles. articles must be
// sorted newest first.
func WriteRSS(w io.Writer, site Site, articles []models.Article) error {
	if len(articles) > FeedSize {
		articles = articles[:FeedSize]
	}
	items := make([]rssItem, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		link := absURL(site.URL, a.URL())
		item := rssItem{
			Title:       a.Title,
			Link:        link,
			Description: a.MetaDescription,
			Category:    catalog.CategoryInfo(a.Category).Name,
			GUID:        link,
		}
		if !a.LastModified.IsZero() {
			item.PubDate = a.LastModified.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Name,
			Link:        absURL(site.URL, "/"),
			Description: site.Description,
			Language:    "pl",
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}

// WriteSitemap writes a sitemap with the home page, every category and every
// article.
func WriteSitemap(w io.Writer, site Site, articles []models.Article) error {
	urls := []sitemapURL{{Loc: absURL(site.URL, "/")}}
	for _, g := range catalog.GroupByCategory(articles) {
		urls = append(urls, sitemapURL{
			Loc:     absURL(site.URL, "/category/"+g.Category),
			LastMod: lastMod(g.Articles[0].LastModified),
		})
	}
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:     absURL(site.URL, a.URL()),
			LastMod: lastMod(a.LastModified),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// WriteRobots writes robots.txt pointing crawlers at the sitemap.
func WriteRobots(w io.Writer, site Site) error {
	_, err := io.WriteString(w, "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: "+absURL(site.URL, "/sitemap.xml")+"\n")
	return err
}
