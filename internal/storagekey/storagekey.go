// Package storagekey maps entity keys to file names under a storage
// root and back. The mapping is shared by the directory backends, the
// fs watcher and the CLI so all of them agree on what is a document
// file and what is an artifact.
package storagekey

import "strings"

const (
	ext       = ".json"
	tmpSuffix = ".tmp"
)

// FileName returns the file name for an entity key. The mapping is
// injective over keys accepted by jasondb.ValidateKey (no separators,
// no leading dot), so two distinct valid keys never collide on disk.
func FileName(key string) string { return key + ext }

// TempPattern returns the os.CreateTemp pattern for a key's temporary
// write artifact. The resulting names never pass Key, so half-written
// temp files are invisible to enumeration and watching.
func TempPattern(key string) string { return key + ".*" + tmpSuffix }

// IsTemp reports whether name looks like a temporary write artifact.
func IsTemp(name string) bool { return strings.HasSuffix(name, tmpSuffix) }

// Key recovers the entity key from a file name produced by FileName.
// ok is false for names not produced by FileName: temp artifacts,
// dotfiles and foreign files.
func Key(name string) (key string, ok bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
		return "", false
	}
	key = strings.TrimSuffix(name, ext)
	if key == "" {
		return "", false
	}
	return key, true
}
