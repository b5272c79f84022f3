package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/trename/pkg/paths"
)

// IsolateDirs points trename's data, config and state directories at
// data/, config/ and state/ under a fresh temp dir and returns that dir.
// The previous values are restored when the test ends.
func IsolateDirs(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	return dir
}
