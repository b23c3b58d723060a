package web

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/content"
	"github.com/starford/mocinformacji/internal/render"
	"github.com/starford/mocinformacji/internal/testutil"
)

func testSite(ads bool) Site {
	return Site{
		Name:        "Moc Informacji",
		URL:         "https://example.pl",
		Description: "Eksperckie odpowiedzi",
		Ads:         Ads{Enabled: ads, Slots: map[render.Slot]string{render.SlotHeader: "123"}},
	}
}

func liveSite() Site {
	site := testSite(false)
	site.LiveUpdates = true
	return site
}

func testRouter(t *testing.T, site Site) http.Handler {
	t.Helper()
	root, store := testutil.TestContent(t)
	testutil.WriteArticle(t, root, "finanse", "kredyt", map[string]any{
		"Title": "Kredyt <hipoteczny>", "H1": "Kredyt hipoteczny", "MetaDescription": "Jak działa kredyt",
		"LastModified": "2024-03-01",
		"Article":      "<p>wstęp</p><h2>Raty</h2><p>r</p><h2>Koszty</h2><p>k</p>",
		"FAQ":          []map[string]string{{"Question": "Czy warto?", "Answer": "To zależy"}},
	})
	testutil.WriteArticle(t, root, "finanse", "lokata", map[string]any{
		"Title": "Lokata", "MetaDescription": "Oszczędzanie", "LastModified": "2024-04-01",
		"Content": []string{"## Wstęp", "- a\n- b"},
	})
	testutil.WriteArticle(t, root, "prawo", "najem", map[string]any{
		"Title": "Najem", "MetaDescription": "Umowa najmu",
	})
	svc := articles.NewService(content.NewFileRepository(store, testutil.Logger()), testutil.Logger())

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	Register(r, svc, site, testutil.Logger())
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHomePage(t *testing.T) {
	h := testRouter(t, testSite(false))
	w := get(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Moc Informacji", "Kredyt &lt;hipoteczny&gt;", `href="/category/prawo"`, "<strong>3</strong> artykułów"} {
		if !strings.Contains(body, want) {
			t.Errorf("home missing %q", want)
		}
	}
	if strings.Index(body, "/finanse/lokata") > strings.Index(body, "/finanse/kredyt\"") {
		t.Error("latest list not newest first")
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", got)
	}
	if strings.Contains(body, "data-ad-position") {
		t.Error("ads rendered while disabled")
	}
}

func TestArticlePage(t *testing.T) {
	h := testRouter(t, testSite(true))
	w := get(t, h, "/Finanse/KREDYT")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<h1 class=\"article-title\">Kredyt hipoteczny</h1>",
		`<h2 id="section-0">Raty</h2>`,
		`href="#section-1">Koszty</a>`,
		`href="#faq-heading"`,
		"Czy warto?",
		`href="/finanse/lokata"`,
		`data-ad-position="header" data-ad-slot="123"`,
		`<link rel="canonical" href="https://example.pl/finanse/kredyt">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("article missing %q", want)
		}
	}
	if n := strings.Count(body, "data-ad-position="); n != len(render.Slots) {
		t.Errorf("ad units = %d, want %d", n, len(render.Slots))
	}
	if !strings.Contains(body, "var offset=150;") {
		t.Error("scroll script missing")
	}
}

func TestArticlePage_Legacy(t *testing.T) {
	h := testRouter(t, testSite(false))
	body := get(t, h, "/finanse/lokata").Body.String()
	if !strings.Contains(body, "<ul><li>a</li><li>b</li></ul>") {
		t.Error("legacy list not rendered")
	}
	if strings.Contains(body, "faq-heading") {
		t.Error("faq rendered without items")
	}
}

func TestArticlePage_NotFound(t *testing.T) {
	h := testRouter(t, testSite(false))
	w := get(t, h, "/finanse/brak")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Nie znaleziono") {
		t.Error("not found page missing")
	}
	if w := get(t, h, "/a/b/c"); w.Code != http.StatusNotFound {
		t.Errorf("deep path = %d", w.Code)
	}
}

func TestCategoryPage(t *testing.T) {
	h := testRouter(t, testSite(false))
	w := get(t, h, "/category/finanse/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Finanse") || !strings.Contains(body, "2 artykułów") {
		t.Error("category header missing")
	}
	if strings.Contains(body, "/prawo/najem") {
		t.Error("other category leaked into list")
	}
	if w := get(t, h, "/category/brak"); w.Code != http.StatusNotFound {
		t.Errorf("unknown category = %d", w.Code)
	}
}

func TestSearchPage(t *testing.T) {
	h := testRouter(t, testSite(false))
	body := get(t, h, "/search?q=najmu").Body.String()
	if !strings.Contains(body, "Znaleziono 1 wyników") || !strings.Contains(body, "/prawo/najem") {
		t.Error("result missing")
	}
	body = get(t, h, "/search?q=%3Cscript%3E").Body.String()
	if strings.Contains(body, "<script>alert") || !strings.Contains(body, "&lt;script&gt;") {
		t.Error("query not escaped")
	}
	if !strings.Contains(get(t, h, "/search").Body.String(), "Wpisz frazę") {
		t.Error("empty query prompt missing")
	}
}

func TestSearchPage_QueryNotTrimmed(t *testing.T) {
	h := testRouter(t, testSite(false))
	if !strings.Contains(get(t, h, "/search?q=najem").Body.String(), "/prawo/najem") {
		t.Fatal("exact query found nothing")
	}
	for _, q := range []string{"najem+", "+najem"} {
		body := get(t, h, "/search?q="+q).Body.String()
		if !strings.Contains(body, "Brak wyników") || strings.Contains(body, "/prawo/najem") {
			t.Errorf("q=%q matched despite surrounding space", q)
		}
	}
	if !strings.Contains(get(t, h, "/search?q=+++").Body.String(), "Wpisz frazę") {
		t.Error("blank query should show the prompt")
	}
}

func TestLiveBanner(t *testing.T) {
	h := testRouter(t, liveSite())
	cases := []struct {
		path, category, slug string
	}{
		{"/", "", ""},
		{"/search?q=kredyt", "", ""},
		{"/category/finanse", "finanse", ""},
		{"/finanse/kredyt", "finanse", "kredyt"},
	}
	for _, c := range cases {
		body := get(t, h, c.path).Body.String()
		want := `id="live-update"`
		if !strings.Contains(body, want) {
			t.Errorf("%s: banner missing", c.path)
			continue
		}
		attrs := `data-category="` + c.category + `" data-slug="` + c.slug + `"`
		if !strings.Contains(body, attrs) {
			t.Errorf("%s: banner topic missing %q", c.path, attrs)
		}
		if !strings.Contains(body, "new EventSource('/api/events'") {
			t.Errorf("%s: stream script missing", c.path)
		}
	}
	if strings.Contains(get(t, h, "/finanse/brak").Body.String(), "live-update") {
		t.Error("not found page subscribed to changes")
	}
}

func TestLiveBanner_Disabled(t *testing.T) {
	h := testRouter(t, testSite(false))
	for _, path := range []string{"/", "/finanse/kredyt", "/category/prawo"} {
		if body := get(t, h, path).Body.String(); strings.Contains(body, "live-update") || strings.Contains(body, "EventSource") {
			t.Errorf("%s: banner rendered without live updates", path)
		}
	}
}

func TestRSS(t *testing.T) {
	h := testRouter(t, testSite(false))
	w := get(t, h, "/rss.xml")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("content type = %q", ct)
	}
	var feed rssXML
	if err := xml.Unmarshal(w.Body.Bytes(), &feed); err != nil {
		t.Fatal(err)
	}
	if len(feed.Channel.Items) != 3 {
		t.Fatalf("items = %d", len(feed.Channel.Items))
	}
	if feed.Channel.Items[0].Link != "https://example.pl/finanse/lokata" {
		t.Errorf("first item = %s", feed.Channel.Items[0].Link)
	}
	if feed.Channel.Items[2].PubDate != "" {
		t.Errorf("undated item pubDate = %q", feed.Channel.Items[2].PubDate)
	}
}

func TestSitemap(t *testing.T) {
	h := testRouter(t, testSite(false))
	var set sitemapURLSet
	if err := xml.Unmarshal(get(t, h, "/sitemap.xml").Body.Bytes(), &set); err != nil {
		t.Fatal(err)
	}
	locs := make(map[string]string)
	for _, u := range set.URLs {
		locs[u.Loc] = u.LastMod
	}
	if len(set.URLs) != 6 {
		t.Errorf("urls = %d, want 6", len(set.URLs))
	}
	if locs["https://example.pl/finanse/kredyt"] != "2024-03-01" {
		t.Errorf("lastmod = %q", locs["https://example.pl/finanse/kredyt"])
	}
	if _, ok := locs["https://example.pl/category/prawo"]; !ok {
		t.Error("category url missing")
	}
}

func TestRobots(t *testing.T) {
	h := testRouter(t, testSite(false))
	w := get(t, h, "/robots.txt")
	if !strings.Contains(w.Body.String(), "Sitemap: https://example.pl/sitemap.xml") {
		t.Errorf("robots = %q", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestAdUnit_Placeholder(t *testing.T) {
	var sb strings.Builder
	err := AdUnit(Ads{Placeholder: true}, render.SlotAfterFAQ).Render(t.Context(), &sb)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "Slot: 8888888885") || strings.Contains(sb.String(), "<script") {
		t.Errorf("placeholder = %q", sb.String())
	}
}

func TestAbsURL(t *testing.T) {
	cases := map[[2]string]string{
		{"https://example.pl", "/"}:       "https://example.pl/",
		{"https://example.pl/", "/a/b"}:   "https://example.pl/a/b",
		{"https://example.pl/blog", "/a"}: "https://example.pl/blog/a",
		{"", "/a"}:                        "/a",
	}
	for in, want := range cases {
		if got := absURL(in[0], in[1]); got != want {
			t.Errorf("absURL(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
