// Package testutil provides shared test helpers for content trees.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mocinformacji/internal/storage"
)

// Logger returns a logger that discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestContent creates a temporary content root with a storage.FS over it.
func TestContent(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteRaw writes data verbatim to root/category/slug.json.
func WriteRaw(t *testing.T, root, category, slug, data string) {
	t.Helper()
	dir := filepath.Join(root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, slug+storage.Ext), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// WriteArticle encodes fields as JSON and writes them to root/category/slug.json.
func WriteArticle(t *testing.T, root, category, slug string, fields map[string]any) {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	WriteRaw(t, root, category, slug, string(data))
}
