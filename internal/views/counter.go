// Package views counts unique visitors by IP address.
package views

import (
	"context"
	"fmt"
)

// DefaultMaxVisitors is how many visitor addresses are remembered for
// de-duplication. Older addresses are forgotten first; the total is kept.
const DefaultMaxVisitors = 10000

// Backends accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Counter is an approximate unique-visitor counter.
type Counter interface {
	// Views returns the current total.
	Views(ctx context.Context) (int, error)
	// Increment records ip and returns the new total. An address already
	// remembered leaves the total unchanged.
	Increment(ctx context.Context, ip string) (int, error)
	Close() error
}

// Open returns the counter for backend, persisted at path.
func Open(backend, path string, maxVisitors int) (Counter, error) {
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxVisitors
	}
	switch backend {
	case BackendFile, "":
		c, err := NewFileCounter(path, maxVisitors)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSQLite:
		c, err := OpenSQLite(path, maxVisitors)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("views: unknown backend %q", backend)
	}
}
