package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/models"
	"github.com/starford/mocinformacji/internal/testutil"
)

func seed(t *testing.T) (string, *FileRepository) {
	t.Helper()
	root, store := testutil.TestContent(t)
	testutil.WriteArticle(t, root, "finanse", "kredyt", map[string]any{
		"Title": "Kredyt", "H1": "Kredyt hipoteczny", "MetaDescription": "Opis kredytu",
		"Category": "lies", "Slug": "also-lies", "LastModified": "2024-03-01",
	})
	testutil.WriteArticle(t, root, "finanse", "lokata", map[string]any{
		"Title": "Lokata", "H1": "Lokata", "MetaDescription": "Opis lokaty", "LastModified": "2024-04-01",
	})
	testutil.WriteArticle(t, root, "finanse", "konto", map[string]any{
		"Title": "Konto", "H1": "Konto", "MetaDescription": "Opis konta",
	})
	testutil.WriteArticle(t, root, "prawo", "najem", map[string]any{
		"Title": "Najem", "H1": "Najem", "MetaDescription": "Opis najmu", "LastModified": "2024-05-01",
	})
	testutil.WriteRaw(t, root, "prawo", "zepsuty", `{"Title": "broken",`)
	return root, NewFileRepository(store, testutil.Logger())
}

func TestGet_PathDerivedIdentity(t *testing.T) {
	_, repo := seed(t)
	a, err := repo.Get(context.Background(), "finanse", "kredyt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Category != "finanse" || a.Slug != "kredyt" {
		t.Errorf("identity = %s/%s", a.Category, a.Slug)
	}
	if a.H1 != "Kredyt hipoteczny" {
		t.Errorf("H1 = %q", a.H1)
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	_, repo := seed(t)
	a, err := repo.Get(context.Background(), "FINANSE", "Kredyt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Category != "finanse" || a.Slug != "kredyt" {
		t.Errorf("identity = %s/%s, want on-disk names", a.Category, a.Slug)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, repo := seed(t)
	for _, c := range [][2]string{{"finanse", "brak"}, {"brak", "kredyt"}, {"prawo", "zepsuty"}} {
		_, err := repo.Get(context.Background(), c[0], c[1])
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get(%s/%s) err = %v, want ErrNotFound", c[0], c[1], err)
		}
	}
}

func TestGet_MalformedAlsoReportsCause(t *testing.T) {
	_, repo := seed(t)
	_, err := repo.Get(context.Background(), "prawo", "zepsuty")
	if !errors.Is(err, apperr.ErrMalformed) {
		t.Errorf("err = %v, want wrapped ErrMalformed", err)
	}
}

func TestAll_SkipsMalformed(t *testing.T) {
	_, repo := seed(t)
	all := repo.All(context.Background())
	var keys []string
	for _, a := range all {
		keys = append(keys, a.Category+"/"+a.Slug)
	}
	sort.Strings(keys)
	want := []string{"finanse/konto", "finanse/kredyt", "finanse/lokata", "prawo/najem"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestAll_EveryRecordRoundTripsThroughGet(t *testing.T) {
	_, repo := seed(t)
	for _, a := range repo.All(context.Background()) {
		got, err := repo.Get(context.Background(), a.Category, a.Slug)
		if err != nil {
			t.Errorf("Get(%s/%s): %v", a.Category, a.Slug, err)
			continue
		}
		if got.Category != a.Category || got.Slug != a.Slug {
			t.Errorf("identity drift: %s/%s vs %s/%s", got.Category, got.Slug, a.Category, a.Slug)
		}
	}
}

func TestAll_MissingRootIsEmpty(t *testing.T) {
	root, store := testutil.TestContent(t)
	repo := NewFileRepository(store, testutil.Logger())
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if got := repo.All(context.Background()); len(got) != 0 {
		t.Errorf("All on missing root = %d articles", len(got))
	}
}

func TestRelated(t *testing.T) {
	_, repo := seed(t)
	got := repo.Related(context.Background(), "finanse", "KREDYT", 6)
	var slugs []string
	for _, a := range got {
		slugs = append(slugs, a.Slug)
	}
	if len(slugs) != 2 || slugs[0] != "lokata" || slugs[1] != "konto" {
		t.Errorf("related = %v, want [lokata konto]", slugs)
	}

	if got := repo.Related(context.Background(), "finanse", "kredyt", 1); len(got) != 1 {
		t.Errorf("count=1 returned %d", len(got))
	}
	if got := repo.Related(context.Background(), "finanse", "kredyt", 0); len(got) != 0 {
		t.Errorf("count=0 returned %d", len(got))
	}
}

type countingRepo struct {
	Repository
	calls int
}

func (c *countingRepo) All(ctx context.Context) []models.Article {
	c.calls++
	return c.Repository.All(ctx)
}

func TestCache_ServesFromMemoryUntilInvalidated(t *testing.T) {
	root, repo := seed(t)
	counter := &countingRepo{Repository: repo}
	cache := NewCache(counter, time.Hour)
	ctx := context.Background()

	if n := len(cache.All(ctx)); n != 4 {
		t.Fatalf("All = %d", n)
	}
	if _, err := cache.Get(ctx, "Prawo", "NAJEM"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = cache.Related(ctx, "finanse", "kredyt", 6)
	if counter.calls != 1 {
		t.Errorf("loads = %d, want 1", counter.calls)
	}

	testutil.WriteArticle(t, root, "prawo", "nowy", map[string]any{"Title": "Nowy"})
	if _, err := cache.Get(ctx, "prawo", "nowy"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stale cache should not see new file yet, err = %v", err)
	}

	cache.Invalidate()
	if _, err := cache.Get(ctx, "prawo", "nowy"); err != nil {
		t.Errorf("after invalidate: %v", err)
	}
	if counter.calls != 2 {
		t.Errorf("loads = %d, want 2", counter.calls)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	_, repo := seed(t)
	counter := &countingRepo{Repository: repo}
	cache := NewCache(counter, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.All(context.Background())
	now = now.Add(30 * time.Second)
	cache.All(context.Background())
	now = now.Add(time.Minute)
	cache.All(context.Background())
	if counter.calls != 2 {
		t.Errorf("loads = %d, want 2", counter.calls)
	}
}

func TestCache_ZeroTTLPassesThrough(t *testing.T) {
	root, repo := seed(t)
	cache := NewCache(repo, 0)
	ctx := context.Background()
	cache.All(ctx)
	testutil.WriteArticle(t, root, "prawo", "nowy", map[string]any{"Title": "Nowy"})
	if _, err := cache.Get(ctx, "prawo", "nowy"); err != nil {
		t.Errorf("zero ttl should read through: %v", err)
	}
}

func TestCache_AllReturnsCopy(t *testing.T) {
	_, repo := seed(t)
	cache := NewCache(repo, time.Hour)
	first := cache.All(context.Background())
	first[0].Title = "mutated"
	for _, a := range cache.All(context.Background()) {
		if a.Title == "mutated" {
			t.Fatal("cache shares its backing slice")
		}
	}
}

func TestRepository_IgnoresNonRecordFiles(t *testing.T) {
	root, store := testutil.TestContent(t)
	testutil.WriteArticle(t, root, "finanse", "a", map[string]any{"Title": "A"})
	if err := os.WriteFile(filepath.Join(root, "finanse", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "top.json"), []byte(`{"Title":"top"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := NewFileRepository(store, testutil.Logger())
	if n := len(repo.All(context.Background())); n != 1 {
		t.Errorf("All = %d, want 1", n)
	}
}
