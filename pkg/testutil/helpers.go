package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/trename/pkg/types"
)

// Populate creates entries under base. Entries ending in "/" are
// directories, everything else is a file whose content is its own name.
// Missing parents are created.
func Populate(t *testing.T, fsys types.FS, base string, entries ...string) {
	t.Helper()

	for _, entry := range entries {
		path := filepath.Join(base, filepath.FromSlash(entry))
		if strings.HasSuffix(entry, "/") {
			if err := fsys.MkdirAll(path, 0755); err != nil {
				t.Fatalf("populate dir %s: %v", path, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("populate parent of %s: %v", path, err)
		}
		if err := fsys.WriteFile(path, []byte(entry), 0644); err != nil {
			t.Fatalf("populate file %s: %v", path, err)
		}
	}
}

// Exists reports whether rel (slash separated) exists under base.
func Exists(fsys types.FS, base, rel string) bool {
	_, err := fsys.Lstat(filepath.Join(base, filepath.FromSlash(rel)))
	return err == nil
}

// P joins slash-separated parts onto base using the OS separator.
func P(base string, rel string) string {
	return filepath.Join(base, filepath.FromSlash(rel))
}
