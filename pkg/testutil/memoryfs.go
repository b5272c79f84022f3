package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS interface with in-memory storage
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode
	cwd   string

	// Error injection
	errorPaths  map[string]error
	renameFails map[string]error

	renameCount int
}

// fileNode represents a file or directory in memory
type fileNode struct {
	mode    os.FileMode
	modTime time.Time
	content []byte
	isDir   bool
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: map[string]*fileNode{
			"/": {mode: 0755 | os.ModeDir, modTime: time.Now(), isDir: true},
		},
		cwd:         "/",
		errorPaths:  make(map[string]error),
		renameFails: make(map[string]error),
	}
}

// normalizePath converts a path to absolute form
func (m *MemoryFS) normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.cwd, path)
	}
	return filepath.Clean(path)
}

// getNode retrieves a node at the given path
func (m *MemoryFS) getNode(op, path string) (*fileNode, error) {
	path = m.normalizePath(path)

	if err, ok := m.errorPaths[path]; ok {
		return nil, &fs.PathError{Op: op, Path: path, Err: err}
	}

	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// requireParentDir checks that the parent of path exists and is a directory
func (m *MemoryFS) requireParentDir(op, path string) error {
	parent, err := m.getNode(op, filepath.Dir(path))
	if err != nil {
		return err
	}
	if !parent.isDir {
		return &fs.PathError{Op: op, Path: filepath.Dir(path), Err: errors.New("not a directory")}
	}
	return nil
}

// Stat returns file info for the given path
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode("stat", name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: filepath.Base(m.normalizePath(name)), node: node}, nil
}

// Lstat is Stat; MemoryFS has no symlinks
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	return m.Stat(name)
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode("read", name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

// WriteFile writes data to a file, creating it if necessary
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.normalizePath(name)
	if err := m.requireParentDir("write", path); err != nil {
		return err
	}
	if existing, ok := m.files[path]; ok && existing.isDir {
		return &fs.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.files[path] = &fileNode{mode: perm, modTime: time.Now(), content: content}
	return nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = m.normalizePath(path)
	var missing []string
	for p := path; ; p = filepath.Dir(p) {
		node, ok := m.files[p]
		if ok {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: p, Err: errors.New("not a directory")}
			}
			break
		}
		missing = append(missing, p)
		if p == filepath.Dir(p) {
			break
		}
	}
	for i := len(missing) - 1; i >= 0; i-- {
		m.files[missing[i]] = &fileNode{mode: perm | os.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

// Rename moves a file or a whole directory subtree, mirroring rename(2):
// a file replaces an existing file, a directory may only replace an empty
// directory, and the parent of newpath must exist.
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath = m.normalizePath(oldpath)
	newpath = m.normalizePath(newpath)
	m.renameCount++

	if err, ok := m.renameFails[oldpath]; ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}

	src, err := m.getNode("rename", oldpath)
	if err != nil {
		return err
	}
	if err := m.requireParentDir("rename", newpath); err != nil {
		return err
	}
	if oldpath == newpath {
		return nil
	}
	if src.isDir && strings.HasPrefix(newpath, oldpath+string(filepath.Separator)) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("invalid argument")}
	}

	if dst, ok := m.files[newpath]; ok {
		switch {
		case src.isDir && !dst.isDir:
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("not a directory")}
		case !src.isDir && dst.isDir:
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("is a directory")}
		case dst.isDir && len(m.childrenOf(newpath)) > 0:
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("directory not empty")}
		}
	}

	moved := map[string]*fileNode{newpath: src}
	delete(m.files, oldpath)
	if src.isDir {
		prefix := oldpath + string(filepath.Separator)
		for p, node := range m.files {
			if strings.HasPrefix(p, prefix) {
				moved[filepath.Join(newpath, strings.TrimPrefix(p, prefix))] = node
				delete(m.files, p)
			}
		}
	}
	for p, node := range moved {
		m.files[p] = node
	}
	return nil
}

// Remove removes a file or an empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.normalizePath(name)
	node, err := m.getNode("remove", path)
	if err != nil {
		return err
	}
	if node.isDir && len(m.childrenOf(path)) > 0 {
		return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
	}
	delete(m.files, path)
	return nil
}

// childrenOf lists the direct children names of a directory, sorted
func (m *MemoryFS) childrenOf(dir string) []string {
	prefix := dir + string(filepath.Separator)
	if dir == string(filepath.Separator) {
		prefix = dir
	}
	var names []string
	for p := range m.files {
		if p == dir || !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if !strings.Contains(rest, string(filepath.Separator)) {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names
}

// List returns the names directly inside dir, sorted
func (m *MemoryFS) List(dir string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.childrenOf(m.normalizePath(dir))
}

// WithError injects an error returned by every operation touching path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[m.normalizePath(path)] = err
	return m
}

// WithRenameError makes Rename fail for the given source path only
func (m *MemoryFS) WithRenameError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renameFails[m.normalizePath(path)] = err
	return m
}

// RenameCount returns how many times Rename was called
func (m *MemoryFS) RenameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.renameCount
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	name string
	node *fileNode
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }
