// Package store persists venue documents.
//
// A DocumentStore saves and loads named [venue.Document] values. Two
// backends are provided: a file backend that keeps each document as a
// JSON or TOML file in a directory, and a MongoDB backend for shared
// deployments. The editor and the HTTP server both work against the
// interface, so the backend is a wiring decision made at startup.
package store

import (
	"context"

	"github.com/hallplan/hallplan/pkg/venue"
)

// DocumentStore saves and loads venue documents by name.
type DocumentStore interface {
	// Load reads the document with the given name.
	Load(ctx context.Context, name string) (*venue.Document, error)

	// Save writes the document under the given name, replacing any
	// previous version.
	Save(ctx context.Context, name string, doc *venue.Document) error

	// List returns the names of all stored documents, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the document with the given name.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
