// cmd/trename/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: OS filesystem (temp dirs), bbolt ledger, isolated XDG dirs
// PURPOSE: Drive the command tree end to end: plan input, rename, check,
// undo and ledger maintenance

package trename

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/testutil"
	"github.com/arthur-debert/trename/pkg/ui/display"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photoPlan = `
root:
  - src: notes.txt
    tgt: journal.txt
  - src_dir: photos
    tgt_dir: album
    children:
      - src: a.jpg
        tgt: beach.jpg
`

// run executes the command tree with args and returns what it wrote to
// its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// workspace isolates trename's directories and creates a work dir holding
// entries.
func workspace(t *testing.T, entries ...string) (root, work string) {
	t.Helper()
	root = testutil.IsolateDirs(t)
	work = filepath.Join(root, "work")
	testutil.Populate(t, filesystem.NewOS(), work, entries...)
	return root, work
}

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenameThenUndo(t *testing.T) {
	root, work := workspace(t, "notes.txt", "photos/a.jpg")
	planPath := writePlan(t, root, photoPlan)
	fsys := filesystem.NewOS()

	out, err := run(t, "", "rename", "-i", planPath, "-b", work, "--format", "json")
	require.NoError(t, err)

	var report display.RenameReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Result)
	assert.Equal(t, work, report.Base)
	assert.Equal(t, display.TreeCounts{Total: 3, Ready: 3}, report.Counts)
	assert.Equal(t, 3, report.Result.SuccessCount)
	assert.Len(t, report.Result.OperationID, 8)

	assert.True(t, testutil.Exists(fsys, work, "journal.txt"))
	assert.True(t, testutil.Exists(fsys, work, "album/beach.jpg"))
	assert.False(t, testutil.Exists(fsys, work, "photos"))

	out, err = run(t, "", "history", "--format", "json")
	require.NoError(t, err)
	var history display.HistoryReport
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history.Batches, 1)
	assert.Equal(t, report.Result.OperationID, history.Batches[0].ID)
	assert.Len(t, history.Batches[0].Operations, 3)

	out, err = run(t, "", "undo", "--format", "json")
	require.NoError(t, err)
	var undo display.UndoReport
	require.NoError(t, json.Unmarshal([]byte(out), &undo))
	assert.Equal(t, report.Result.OperationID, undo.Result.BatchID)
	assert.Equal(t, 3, undo.Result.SuccessCount)
	assert.Equal(t, 0, undo.Result.FailedCount)

	assert.True(t, testutil.Exists(fsys, work, "notes.txt"))
	assert.True(t, testutil.Exists(fsys, work, "photos/a.jpg"))
	assert.False(t, testutil.Exists(fsys, work, "album"))

	// A batch is undone once; asking again is reported, not an error
	out, err = run(t, "", "undo", report.Result.OperationID, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing undone:")
	assert.Contains(t, out, "already been undone")
}

func TestRenameDryRunFromStdin(t *testing.T) {
	root, work := workspace(t, "a.txt")
	fsys := filesystem.NewOS()

	stdin := `[{"src": "a.txt", "tgt": "b.txt"}]`
	out, err := run(t, stdin, "rename", "-b", work, "--dry-run", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run: would rename 1, skip 0")
	assert.Contains(t, out, filepath.Join(work, "a.txt")+" -> "+filepath.Join(work, "b.txt"))
	assert.NotContains(t, out, "Undo with")

	assert.True(t, testutil.Exists(fsys, work, "a.txt"))
	assert.False(t, testutil.Exists(fsys, work, "b.txt"))
	_, err = os.Stat(filepath.Join(root, "data", "undo.db"))
	assert.True(t, os.IsNotExist(err), "a dry run never opens the ledger")
}

func TestRenameSkipsConflicts(t *testing.T) {
	root, work := workspace(t, "a.txt", "b.txt", "c.txt")
	planPath := writePlan(t, root, `
- src: a.txt
  tgt: b.txt
- src: c.txt
  tgt: d.txt
`)

	out, err := run(t, "", "rename", "-i", planPath, "-b", work, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Renamed 1, failed 0, skipped 1")
	assert.Contains(t, out, "[target_exists]")

	fsys := filesystem.NewOS()
	assert.True(t, testutil.Exists(fsys, work, "a.txt"))
	assert.True(t, testutil.Exists(fsys, work, "d.txt"))
}

func TestCheck(t *testing.T) {
	root, work := workspace(t, "a.txt", "b.txt", "c.txt")
	planPath := writePlan(t, root, `
- src: a.txt
  tgt: z.txt
- src: b.txt
  tgt: z.txt
- src: c.txt
  tgt: c.txt_old
`)

	out, err := run(t, "", "check", "-i", planPath, "-b", work, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Plan: 3 nodes, 3 ready, 0 pending")
	assert.Contains(t, out, "Proposed (3):")
	assert.Contains(t, out, filepath.Join(work, "c.txt")+" -> "+filepath.Join(work, "c.txt_old"))
	assert.Contains(t, out, "Planned (1):")
	assert.Contains(t, out, filepath.Join(work, "a.txt")+" -> "+filepath.Join(work, "z.txt"))
	assert.Contains(t, out, "[duplicate_target] "+filepath.Join(work, "b.txt"))
	assert.Contains(t, out, "[invalid_extension]")

	fsys := filesystem.NewOS()
	assert.True(t, testutil.Exists(fsys, work, "a.txt"), "check never renames")

	out, err = run(t, "", "check", "-i", planPath, "-b", work, "--no-dedup", "--format", "text")
	require.NoError(t, err)
	assert.NotContains(t, out, "Planned")
}

func TestFixRewritesTargets(t *testing.T) {
	root, work := workspace(t, "a.txt", "b.txt")
	planPath := writePlan(t, root, `
- src: a.txt
  tgt: "what?.txt"
- src: b.txt
  tgt: bee.txt
`)

	out, err := run(t, "", "check", "-i", planPath, "-b", work, "--fix", "--format", "json")
	require.NoError(t, err)
	var check display.CheckReport
	require.NoError(t, json.Unmarshal([]byte(out), &check))
	require.Len(t, check.Fixes, 1)
	assert.Contains(t, check.Fixes[0], "what？.txt")
	assert.Empty(t, check.Notices, "fixed targets raise no auto-fix notice")
	assert.Equal(t, check.Proposed, check.Operations)

	out, err = run(t, "", "rename", "-i", planPath, "-b", work, "--fix", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Fixed (1):")
	assert.Contains(t, out, "Renamed 2, failed 0, skipped 0")

	fsys := filesystem.NewOS()
	assert.True(t, testutil.Exists(fsys, work, "what？.txt"))
	assert.True(t, testutil.Exists(fsys, work, "bee.txt"))
}

func TestRenameSanitizedNoOpSucceeds(t *testing.T) {
	root, work := workspace(t, "a：b.txt")
	planPath := writePlan(t, root, `
- src: "a：b.txt"
  tgt: "a:b.txt"
`)

	out, err := run(t, "", "rename", "-i", planPath, "-b", work, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed 0, failed 0, skipped 0")
	assert.True(t, testutil.Exists(filesystem.NewOS(), work, "a：b.txt"))
}

func TestClearHistory(t *testing.T) {
	root, work := workspace(t, "f0")

	for i := 0; i < 3; i++ {
		plan := writePlan(t, root, "- src: f"+string(rune('0'+i))+"\n  tgt: f"+string(rune('1'+i))+"\n")
		_, err := run(t, "", "rename", "-i", plan, "-b", work, "--format", "json")
		require.NoError(t, err)
	}

	out, err := run(t, "", "clear-history", "--keep", "1", "--format", "json")
	require.NoError(t, err)
	var cleared display.ClearReport
	require.NoError(t, json.Unmarshal([]byte(out), &cleared))
	assert.Equal(t, display.ClearReport{Deleted: 2, Kept: 1}, cleared)

	out, err = run(t, "", "history", "-n", "0", "--format", "json")
	require.NoError(t, err)
	var history display.HistoryReport
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history.Batches, 1)
	assert.Equal(t, filepath.Join(work, "f3"), history.Batches[0].Operations[0].NewPath)

	_, err = run(t, "", "clear-history", "--keep", "-1")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestUndoWithEmptyLedger(t *testing.T) {
	workspace(t)

	out, err := run(t, "", "undo", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "Nothing undone: no batch to undo\n", out)
}

func TestConfigCommand(t *testing.T) {
	root, _ := workspace(t)
	ledgerPath := filepath.Join(root, "elsewhere", "undo.db")

	out, err := run(t, "", "config", "--ledger", ledgerPath)
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, gotoml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, ledgerPath, decoded["ledger"]["path"])
	assert.Equal(t, true, decoded["rename"]["smart_dedup"])

	out, err = run(t, "", "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "[ledger]")
	assert.Contains(t, out, "history_limit = 20")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"unknown format", []string{"history", "--format", "xml"}, errors.ErrConfigParse},
		{"missing plan file", []string{"rename", "-i", "does-not-exist.yaml"}, errors.ErrPlanRead},
		{"missing base", []string{"check", "-b", "no/such/dir"}, errors.ErrBaseNotFound},
		{"negative limit", []string{"history", "-n", "-2"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t)
			_, err := run(t, `[{"src": "a", "tgt": "b"}]`, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	workspace(t)

	_, err := run(t, "")
	assert.EqualError(t, err, MsgErrNoCommand)

	_, err = run(t, "", "rename", "-i", "plan.yaml", "--clipboard")
	assert.Error(t, err)

	_, err = run(t, "", "undo", "a", "b")
	assert.Error(t, err)
}

func TestVersionAndCompletion(t *testing.T) {
	workspace(t)

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trename version dev")

	out, err = run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "trename")
}
