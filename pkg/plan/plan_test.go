// pkg/plan/plan_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: MemoryFS
// PURPOSE: Test plan decoding and plan sources

package plan

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/testutil"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonPlan = `{
  "root": [
    {"src_dir": "photos", "tgt_dir": "album", "children": [
      {"src": "img1.jpg", "tgt": "beach.jpg"},
      {"src": "img2.jpg"}
    ]},
    {"src": "notes.txt", "tgt": "todo.txt"}
  ]
}`

const yamlPlan = `
- src_dir: photos
  tgt_dir: album
  children:
    - src: img1.jpg
      tgt: beach.jpg
    - src: img2.jpg
- src: notes.txt
  tgt: todo.txt
`

func expectedTree() types.RenameTree {
	return types.NewTree(
		types.Dir("photos", "album",
			types.File("img1.jpg", "beach.jpg"),
			types.File("img2.jpg", ""),
		),
		types.File("notes.txt", "todo.txt"),
	)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"json object", jsonPlan},
		{"yaml list", yamlPlan},
		{"json bare list", `[{"src_dir":"photos","tgt_dir":"album","children":[{"src":"img1.jpg","tgt":"beach.jpg"},{"src":"img2.jpg","tgt":null}]},{"src":"notes.txt","tgt":"todo.txt"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, expectedTree(), tree)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    errors.ErrorCode
		message string
	}{
		{"empty", "  \n", errors.ErrPlanInvalid, "empty"},
		{"syntax", `{"root": [`, errors.ErrPlanParse, ""},
		{"scalar", `"just a string"`, errors.ErrPlanInvalid, "root"},
		{"both sources", `[{"src": "a", "src_dir": "b"}]`, errors.ErrPlanInvalid, "both src and src_dir"},
		{"no source", `[{"tgt": "a"}]`, errors.ErrPlanInvalid, "needs src or src_dir"},
		{"file with children", `[{"src": "a", "children": [{"src": "b"}]}]`, errors.ErrPlanInvalid, "cannot have"},
		{"dir with tgt", `[{"src_dir": "a", "tgt": "b"}]`, errors.ErrPlanInvalid, "uses tgt_dir"},
		{"nested error path", `[{"src_dir": "a", "children": [{"tgt": "x"}]}]`, errors.ErrPlanInvalid, "root[0].children[0]"},
		{"separator in name", `[{"src": "a/b", "tgt": "c"}]`, errors.ErrPlanInvalid, "path separators"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/plans", 0755))
	require.NoError(t, fs.WriteFile("/plans/plan.yaml", []byte(yamlPlan), 0644))

	tree, err := FromFile(fs, "/plans/plan.yaml")
	require.NoError(t, err)
	assert.Equal(t, expectedTree(), tree)

	_, err = FromFile(fs, "/plans/missing.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlanRead))
}

func TestFromReader(t *testing.T) {
	tree, err := FromReader(strings.NewReader(jsonPlan))
	require.NoError(t, err)
	assert.Equal(t, 4, tree.CountTotal())
	assert.Equal(t, 3, tree.CountReady())
	assert.Equal(t, 1, tree.CountPending())
}

func TestFromClipboard(t *testing.T) {
	origRead, origUnsupported := readClipboard, clipboard.Unsupported
	t.Cleanup(func() {
		readClipboard = origRead
		clipboard.Unsupported = origUnsupported
	})
	clipboard.Unsupported = false

	readClipboard = func() (string, error) { return jsonPlan, nil }
	tree, err := FromClipboard()
	require.NoError(t, err)
	assert.Equal(t, expectedTree(), tree)

	readClipboard = func() (string, error) { return "", stderrors.New("no display") }
	_, err = FromClipboard()
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlanRead))

	clipboard.Unsupported = true
	_, err = FromClipboard()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}
