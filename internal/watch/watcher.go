// Package watch turns file-system changes under the content root into
// content change notifications.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/mocinformacji/internal/checksum"
	"github.com/starford/mocinformacji/internal/storage"
)

// Change kinds passed to a Callback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// DefaultDebounce is how long the watcher waits for a burst of events on the
// same files to settle before reporting.
const DefaultDebounce = 200 * time.Millisecond

// Callback is called once per settled change. path is the slash-separated
// record path relative to the content root.
type Callback func(kind, path string)

// Watcher reports created, updated and deleted article records.
type Watcher struct {
	root     string
	store    storage.Provider
	logger   *slog.Logger
	debounce time.Duration
	callback Callback

	// known maps record path to the checksum last reported; it is only
	// touched by the Run goroutine.
	known map[string]string
}

// New creates a watcher over the content root served by store.
func New(root string, store storage.Provider, logger *slog.Logger, cb Callback) *Watcher {
	return &Watcher{
		root:     root,
		store:    store,
		logger:   logger.With(slog.String("component", "watch")),
		debounce: DefaultDebounce,
		callback: cb,
		known:    make(map[string]string),
	}
}

// Run watches until ctx is cancelled. Writes that leave a record's bytes
// unchanged are not reported.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	w.snapshot()

	w.logger.Info("watcher: started", slog.String("root", w.root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			fire = timer.C
			return
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-fire:
			for rel := range pending {
				w.settle(rel)
			}
			clear(pending)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(fw, ev.Name); addErr != nil {
						w.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
						continue
					}
					for _, rel := range w.recordsUnder(ev.Name) {
						pending[rel] = struct{}{}
					}
					schedule()
					continue
				}
			}

			rel, ok := w.recordPath(ev.Name)
			if !ok {
				// A category directory removed or moved out of the root
				// takes its records with it.
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if gone := w.knownUnder(ev.Name); len(gone) > 0 {
						_ = fw.Remove(ev.Name)
						for _, r := range gone {
							pending[r] = struct{}{}
						}
						schedule()
					}
				}
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[rel] = struct{}{}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// snapshot records the checksum of every record present at start-up.
func (w *Watcher) snapshot() {
	metas, err := w.store.List("")
	if err != nil {
		w.logger.Warn("watcher: initial list failed", slog.String("error", err.Error()))
		return
	}
	for _, m := range metas {
		data, err := w.store.Read(m.Path)
		if err != nil {
			continue
		}
		w.known[m.Path] = checksum.Sum(data)
	}
}

// settle compares the record on disk with what was last reported.
func (w *Watcher) settle(rel string) {
	data, err := w.store.Read(rel)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
			return
		}
		if _, ok := w.known[rel]; ok {
			delete(w.known, rel)
			w.emit(Deleted, rel)
		}
		return
	}

	sum := checksum.Sum(data)
	prev, ok := w.known[rel]
	switch {
	case !ok:
		w.known[rel] = sum
		w.emit(Created, rel)
	case prev != sum:
		w.known[rel] = sum
		w.emit(Updated, rel)
	}
}

func (w *Watcher) emit(kind, rel string) {
	w.logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
	if w.callback != nil {
		w.callback(kind, rel)
	}
}

// recordPath maps an absolute event path to a record path.
func (w *Watcher) recordPath(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return "", false
	}
	if _, _, ok := storage.SplitEntry(rel); !ok {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// recordsUnder lists the record files already present in a new directory.
func (w *Watcher) recordsUnder(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, ok := w.recordPath(p); ok {
			out = append(out, rel)
		}
		return nil
	})
	return out
}

// knownUnder lists the reported records below the directory abs.
func (w *Watcher) knownUnder(abs string) []string {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	prefix := filepath.ToSlash(rel) + "/"
	var out []string
	for p := range w.known {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
