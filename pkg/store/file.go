package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/venue"
)

// FileStore keeps each document as a JSON file in a directory. The
// document name is the file name without extension.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed document store rooted at dir. The
// directory is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating store directory %q", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the named document. Both .json and .toml files are
// recognized, with .json taking precedence.
func (s *FileStore) Load(ctx context.Context, name string) (*venue.Document, error) {
	if err := errors.ValidateDocumentPath(name); err != nil {
		return nil, err
	}
	for _, ext := range []string{".json", ".toml"} {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		doc, err := venue.ReadDocument(path)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
}

// Save writes the document as JSON, replacing any previous version.
// The write goes through a temp file so a crash cannot leave a
// half-written document behind.
func (s *FileStore) Save(ctx context.Context, name string, doc *venue.Document) error {
	if err := errors.ValidateDocumentPath(name); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name+".json")

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "creating temp file for %q", name)
	}
	defer os.Remove(tmp.Name())

	if err := doc.WriteJSON(tmp); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "writing document %q", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing document %q", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving document %q", name)
	}
	return nil
}

// List returns the names of all stored documents, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing documents")
	}
	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" && ext != ".toml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named document. Deleting an unknown name is an
// error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentPath(name); err != nil {
		return err
	}
	removed := false
	for _, ext := range []string{".json", ".toml"} {
		path := filepath.Join(s.dir, name+ext)
		err := os.Remove(path)
		if err == nil {
			removed = true
			continue
		}
		if !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeStore, err, "deleting document %q", name)
		}
	}
	if !removed {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	return nil
}

// Close does nothing for the file backend.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

var _ DocumentStore = (*FileStore)(nil)
