package jasondb

import (
	"fmt"
	"strings"
)

// MaxKeyLength bounds entity keys. Keys name files, and most
// filesystems cap names at 255 bytes anyway; this leaves headroom for
// the extension and temp-pattern suffixes on generous filesystems.
const MaxKeyLength = 200

// ValidateKey reports whether key can serve as an entity key. Keys
// become file names under the storage root, so anything that could
// escape the root, collide with another key's file, or collide with
// write artifacts is rejected: path separators, parent references,
// leading dots, control characters. The store never sanitizes keys;
// a bad key is the caller's error, surfaced before any I/O.
//
// The returned error wraps ErrInvalidKey.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: length %d exceeds %d", ErrInvalidKey, len(key), MaxKeyLength)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: leading dot in %q", ErrInvalidKey, key)
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("%w: parent reference in %q", ErrInvalidKey, key)
	}
	for i := 0; i < len(key); i++ {
		switch c := key[i]; {
		case c < 0x20 || c == 0x7f:
			return fmt.Errorf("%w: control character at offset %d", ErrInvalidKey, i)
		case c == '/' || c == '\\':
			return fmt.Errorf("%w: path separator in %q", ErrInvalidKey, key)
		}
	}
	return nil
}
