package types

import (
	"io/fs"
)

// FS is the filesystem interface required for trename operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Rename moves oldpath to newpath. Implementations must not fall back
	// to copy+delete.
	Rename(oldpath, newpath string) error

	// Other operations
	Remove(name string) error

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
