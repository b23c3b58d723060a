package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/starford/mocinformacji/internal/storage"
)

type fileState struct {
	Views    int      `json:"views"`
	Visitors []string `json:"visitors"`
}

// FileCounter keeps the counter in one JSON file. Increments are serialised
// within the process and every write replaces the file atomically; separate
// processes sharing the file can still lose updates.
type FileCounter struct {
	mu    sync.Mutex
	store *storage.FS
	name  string
	max   int
}

// NewFileCounter creates a counter persisted at path. The parent directory is
// created when missing; the file itself appears on the first increment.
func NewFileCounter(path string, maxVisitors int) (*FileCounter, error) {
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxVisitors
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("views: mkdir: %w", err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	return &FileCounter{store: store, name: filepath.Base(path), max: maxVisitors}, nil
}

func (c *FileCounter) load() (fileState, error) {
	data, err := c.store.Read(c.name)
	if errors.Is(err, fs.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, fmt.Errorf("views: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}, fmt.Errorf("views: decode %s: %w", c.name, err)
	}
	return st, nil
}

// Views implements Counter.
func (c *FileCounter) Views(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.load()
	if err != nil {
		return 0, err
	}
	return st.Views, nil
}

// Increment implements Counter.
func (c *FileCounter) Increment(ctx context.Context, ip string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.load()
	if err != nil {
		return 0, err
	}
	if slices.Contains(st.Visitors, ip) {
		return st.Views, nil
	}
	st.Visitors = append(st.Visitors, ip)
	st.Views++
	if over := len(st.Visitors) - c.max; over > 0 {
		st.Visitors = slices.Clone(st.Visitors[over:])
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("views: encode: %w", err)
	}
	if err := c.store.Write(c.name, data); err != nil {
		return 0, fmt.Errorf("views: %w", err)
	}
	return st.Views, nil
}

// Close implements Counter.
func (c *FileCounter) Close() error { return nil }
