// Package atomicfile replaces file contents so a reader observes
// either the complete old bytes or the complete new bytes, never a
// mix. Replacement goes through a temp file in the target's directory:
// write, flush to durable storage, then rename onto the target.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile atomically replaces path with data. pattern names the temp
// file (os.CreateTemp form); it must keep the temp file in the same
// directory as path so the final rename stays atomic. On failure the
// target keeps its prior content and the temp file is removed.
func WriteFile(path string, data []byte, pattern string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return cleanup(tmp, fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return cleanup(tmp, fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		return cleanup(tmp, fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		return cleanup(tmp, fmt.Errorf("failed to rename temp file: %w", err))
	}

	// The rename is already visible at this point; a failed directory
	// flush can only delay durability, it cannot tear the file. Treating
	// it as a write failure would report an unchanged target to the
	// caller when the target has in fact changed.
	syncDir(dir)
	return nil
}

func cleanup(tmp string, err error) error {
	if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return errors.Join(err, fmt.Errorf("failed to remove temp file: %w", rmErr))
	}
	return err
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
