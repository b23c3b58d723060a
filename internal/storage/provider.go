// Package storage defines the content tree file-system abstraction.
package storage

import "github.com/starford/mocinformacji/internal/models"

// Provider is the interface for content tree file operations.
type Provider interface {
	// List returns metadata for every {category}/{slug}.json file under dir
	// (relative to the content root).
	List(dir string) ([]models.EntryMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the content root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the content root).
	Write(path string, content []byte) error
	// Resolve returns the relative path of {category}/{slug}.json, matching
	// both segments case-insensitively.
	Resolve(category, slug string) (string, error)
}
