// Package testutil provides utilities for testing trename components.
//
// Key components:
//   - MemoryFS: In-memory filesystem with directory-aware Rename and error
//     injection, for fast and isolated validator/renamer/ledger tests
//   - Populate: declarative setup of files and directories on any types.FS
//
// Tests that exercise real rename(2) semantics use t.TempDir() with
// filesystem.NewOS() instead.
package testutil
