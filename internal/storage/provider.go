// Package storage defines the document library abstraction.
package storage

import "github.com/starford/papercheck/internal/models"

// Provider is the interface for read access to a document library.
type Provider interface {
	// List returns metadata for every .docx file under dir (relative to the library root).
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the document at path (relative to the library root).
	Read(path string) ([]byte, error)
	// Root returns the absolute library root.
	Root() string
}
