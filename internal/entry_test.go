package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/mocinformacji/internal/api"
	"github.com/starford/mocinformacji/internal/sse"
	"github.com/starford/mocinformacji/internal/testutil"
)

type testApp struct {
	handler http.Handler
	content string
}

func newTestApp(t *testing.T, mutate func(*Config)) testApp {
	t.Helper()
	return newTestAppWithBroker(t, mutate, nil)
}

func newTestAppWithBroker(t *testing.T, mutate func(*Config), broker *sse.Broker) testApp {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Content.Path = filepath.Join(dir, "content")
	cfg.Views.Path = filepath.Join(dir, "data", "views.json")
	cfg.SQLite.Path = filepath.Join(dir, "data", "views.db")
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	s, err := openServices(cfg, testutil.Logger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	testutil.WriteArticle(t, cfg.Content.Path, "finanse", "kredyt", map[string]any{
		"Title": "Kredyt", "MetaDescription": "Raty", "LastModified": "2024-03-01",
		"Article": "<h2>Raty</h2><p>r</p>",
	})

	var limiter *api.Limiter
	if cfg.Limits.ViewsPerMinute > 0 {
		limiter = api.NewLimiter(t.Context(), cfg.Limits.ViewsPerMinute, time.Minute)
	}
	return testApp{
		handler: newRouter(cfg, s, broker, limiter, testutil.Logger()),
		content: cfg.Content.Path,
	}
}

func (a testApp) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, nil)
	for _, p := range []string{"/health/live", "/health/ready"} {
		w := app.do(t, http.MethodGet, p, nil)
		if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
			t.Errorf("%s = %d %q", p, w.Code, w.Body.String())
		}
	}
}

func TestRouter_PagesAndAPI(t *testing.T) {
	app := newTestApp(t, nil)

	if w := app.do(t, http.MethodGet, "/finanse/kredyt/", nil); w.Code != http.StatusOK {
		t.Errorf("article page = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/", nil); !strings.Contains(w.Body.String(), "Moc Informacji") {
		t.Error("home page missing site name")
	}

	w := app.do(t, http.MethodGet, "/api/articles", nil)
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0]["Slug"] != "kredyt" {
		t.Errorf("articles = %v", list)
	}

	w = app.do(t, http.MethodPost, "/api/views", http.Header{"X-Forwarded-For": {"198.51.100.7"}})
	if w.Body.String() != "{\"views\":1}\n" {
		t.Errorf("views = %q", w.Body.String())
	}

	if w := app.do(t, http.MethodGet, "/api/events", nil); w.Code != http.StatusNotFound {
		t.Errorf("events without broker = %d", w.Code)
	}
}

func TestRouter_ReloadInvalidatesCache(t *testing.T) {
	app := newTestApp(t, func(c *Config) {
		c.Auth = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	})

	count := func() int {
		var list []any
		if err := json.Unmarshal(app.do(t, http.MethodGet, "/api/articles", nil).Body.Bytes(), &list); err != nil {
			t.Fatal(err)
		}
		return len(list)
	}

	if n := count(); n != 1 {
		t.Fatalf("initial count = %d", n)
	}
	testutil.WriteArticle(t, app.content, "prawo", "najem", map[string]any{"Title": "Najem"})
	if n := count(); n != 1 {
		t.Fatalf("cached count = %d, want 1", n)
	}

	if w := app.do(t, http.MethodPost, "/api/admin/reload", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("reload without token = %d", w.Code)
	}
	w := app.do(t, http.MethodPost, "/api/admin/reload", http.Header{"Authorization": {"Bearer secret"}})
	if w.Code != http.StatusOK {
		t.Fatalf("reload = %d", w.Code)
	}
	if n := count(); n != 2 {
		t.Errorf("count after reload = %d, want 2", n)
	}
}

func TestRouter_ViewsRateLimited(t *testing.T) {
	app := newTestApp(t, func(c *Config) { c.Limits.ViewsPerMinute = 1 })
	h := http.Header{"X-Forwarded-For": {"198.51.100.8"}}
	if w := app.do(t, http.MethodPost, "/api/views", h); w.Code != http.StatusOK {
		t.Fatalf("first = %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/views", h); w.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d, want 429", w.Code)
	}
}

func TestOpenServices_SQLiteBackend(t *testing.T) {
	app := newTestApp(t, func(c *Config) { c.Views.Backend = "sqlite" })
	w := app.do(t, http.MethodPost, "/api/views", http.Header{"X-Forwarded-For": {"198.51.100.9"}})
	if w.Body.String() != "{\"views\":1}\n" {
		t.Errorf("views = %q", w.Body.String())
	}
}

func TestRouter_LiveUpdatesFollowWatch(t *testing.T) {
	broker := sse.NewBroker(time.Second)
	t.Cleanup(broker.Close)

	app := newTestAppWithBroker(t, func(c *Config) { c.Content.Watch = true }, broker)
	body := app.do(t, http.MethodGet, "/finanse/kredyt", nil).Body.String()
	if !strings.Contains(body, `data-category="finanse" data-slug="kredyt"`) {
		t.Error("article page not subscribed to its own changes")
	}

	app = newTestAppWithBroker(t, func(c *Config) { c.Content.Watch = false }, broker)
	if strings.Contains(app.do(t, http.MethodGet, "/", nil).Body.String(), "live-update") {
		t.Error("banner rendered without a watcher")
	}

	app = newTestApp(t, func(c *Config) { c.Content.Watch = true })
	if strings.Contains(app.do(t, http.MethodGet, "/", nil).Body.String(), "live-update") {
		t.Error("banner rendered without a broker")
	}
}
