// Package fsdir stores one file per entity key inside a root
// directory. Writes go through a temp file, an fsync and an atomic
// rename, so a crash at any point leaves either the old document or
// the new one, never a torn file.
package fsdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LexiestLeszek/jasondb/internal/atomicfile"
	"github.com/LexiestLeszek/jasondb/internal/storagekey"
)

// Backend is a directory of documents, `<root>/<key>.json` each.
type Backend struct {
	root string
}

// New opens (creating if needed) the storage root and sweeps temp
// artifacts left behind by earlier crashes. Swept files were never
// renamed into place, so removing them cannot lose a document.
func New(root string) (*Backend, error) {
	if root == "" {
		return nil, fmt.Errorf("fsdir: root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("fsdir: failed to create root: %w", err)
	}
	b := &Backend{root: root}
	if err := b.sweepTemp(); err != nil {
		return nil, err
	}
	return b, nil
}

// Root returns the storage root directory.
func (b *Backend) Root() string { return b.root }

func (b *Backend) path(key string) string {
	return filepath.Join(b.root, storagekey.FileName(key))
}

func (b *Backend) Read(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fsdir: failed to read %q: %w", key, err)
	}
	return data, true, nil
}

func (b *Backend) WriteAtomic(_ context.Context, key string, data []byte) error {
	err := atomicfile.WriteFile(b.path(key), data, storagekey.TempPattern(key))
	if err != nil {
		return fmt.Errorf("fsdir: failed to write %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Close(context.Context) error { return nil }

func (b *Backend) sweepTemp() error {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return fmt.Errorf("fsdir: failed to scan root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !storagekey.IsTemp(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(b.root, e.Name())); err != nil {
			return fmt.Errorf("fsdir: failed to sweep %q: %w", e.Name(), err)
		}
	}
	return nil
}
