// pkg/validator/sanitize_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test name sanitization and extension rules

package validator_test

import (
	"testing"

	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		isDir        bool
		wantName     string
		wantReplaced []string
		wantExtErr   bool
	}{
		{
			name:     "clean name untouched",
			input:    "report.txt",
			wantName: "report.txt",
		},
		{
			name:         "angle brackets in base",
			input:        "report<final>.txt",
			wantName:     "report＜final＞.txt",
			wantReplaced: []string{"'<' -> '＜'", "'>' -> '＞'"},
		},
		{
			name:         "repeated character reported once",
			input:        "a:b:c.md",
			wantName:     "a：b：c.md",
			wantReplaced: []string{"':' -> '：'"},
		},
		{
			name:         "file without extension",
			input:        "what?",
			wantName:     "what？",
			wantReplaced: []string{"'?' -> '？'"},
		},
		{
			name:         "directory rewritten as a whole",
			input:        "v1.0|beta",
			isDir:        true,
			wantName:     "v1.0｜beta",
			wantReplaced: []string{"'|' -> '｜'"},
		},
		{
			name:       "illegal character in extension",
			input:      "data.j*on",
			wantName:   "data.j*on",
			wantExtErr: true,
		},
		{
			name:         "backslash and slash",
			input:        `a\b/c.txt`,
			wantName:     "a＼b／c.txt",
			wantReplaced: []string{`'\' -> '＼'`, "'/' -> '／'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.SanitizeName(tt.input, tt.isDir)

			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantReplaced, got.Replaced)
			if tt.wantExtErr {
				assert.Contains(t, got.ExtensionError, "extension")
				assert.False(t, got.Changed())
			} else {
				assert.Empty(t, got.ExtensionError)
			}
		})
	}
}

func TestCheckExtensionPlacement(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCount  int
		suggestion string
	}{
		{"suffix after txt", "notes.txt_old", 1, `"notes_old.txt"`},
		{"dash suffix after gz", "archive.tar.gz-1", 1, `"archive.tar-1.gz"`},
		{"upper-case extension", "IMG.JPG_edit", 1, `"IMG_edit.JPG"`},
		{"normal name", "data.json", 0, ""},
		{"dash before extension", "my-file.txt", 0, ""},
		{"unknown extension", "v1.2_final", 0, ""},
		{"no dot", "README", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.CheckExtensionPlacement(tt.input)
			assert.Len(t, errs, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Contains(t, errs[0], tt.suggestion)
			}
		})
	}
}

func TestExtensionChange(t *testing.T) {
	from, to, changed := validator.ExtensionChange("a.txt", "a.md")
	assert.True(t, changed)
	assert.Equal(t, ".txt", from)
	assert.Equal(t, ".md", to)

	_, _, changed = validator.ExtensionChange("a.TXT", "b.txt")
	assert.False(t, changed, "comparison ignores case")

	_, _, changed = validator.ExtensionChange("Makefile", "build.mk")
	assert.False(t, changed, "source without extension")
}

func TestPreprocess(t *testing.T) {
	tree := types.NewTree(
		types.Dir("a", "in:box",
			types.File("x.txt", "x?.txt"),
			types.File("y.txt", "y.t*t"),
			types.File("z.txt", ""),
		),
		types.File("b.txt", "b.txt"),
	)

	fixed, fixes := validator.Preprocess(tree)
	assert.Len(t, fixes, 2)

	dir, err := fixed.At([]int{0})
	require.NoError(t, err)
	assert.Equal(t, "in：box", dir.Target())

	x, err := fixed.At([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "x？.txt", x.Target())

	y, err := fixed.At([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "y.t*t", y.Target(), "extension errors are not auto-fixed")

	original, err := tree.At([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "x?.txt", original.Target())
}
