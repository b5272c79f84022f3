// pkg/ledger/ledger_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: bbolt file in a temp dir, MemoryFS
// PURPOSE: Test batch recording, history, undo and history pruning

package ledger_test

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/ledger"
	"github.com/arthur-debert/trename/pkg/renamer"
	"github.com/arthur-debert/trename/pkg/testutil"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/base"

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openLedger(t *testing.T, fs types.FS, clock func() time.Time) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "undo.db")
	l, err := ledger.Open(path, ledger.Options{FS: fs, Clock: clock})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func op(src, tgt string) types.Operation {
	return types.Operation{OriginalPath: testutil.P(base, src), NewPath: testutil.P(base, tgt)}
}

// applied moves ops on fs, as a rename batch would have done.
func applied(t *testing.T, fs types.FS, ops ...types.Operation) []types.Operation {
	t.Helper()
	for _, o := range ops {
		require.NoError(t, fs.Rename(o.OriginalPath, o.NewPath))
	}
	return ops
}

func TestRecordEmptyBatch(t *testing.T) {
	l := openLedger(t, testutil.NewMemoryFS(), nil)

	id, err := l.Record(nil, "nothing")
	require.NoError(t, err)
	assert.Empty(t, id)

	history, err := l.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordAndHistory(t *testing.T) {
	l := openLedger(t, testutil.NewMemoryFS(), stepClock())

	ops := []types.Operation{op("d/a", "d/b"), op("d", "e")}
	id, err := l.Record(ops, "batch rename 2 items")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), id)

	history, err := l.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1)

	batch := history[0]
	assert.Equal(t, id, batch.ID)
	assert.Equal(t, "batch rename 2 items", batch.Description)
	assert.Equal(t, ops, batch.Operations)
	assert.False(t, batch.Undone)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC), batch.Timestamp.UTC())
}

func TestHistoryOrderAndLimit(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := openLedger(t, testutil.NewMemoryFS(), func() time.Time { return fixed })

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := l.Record([]types.Operation{op("a", "b")}, "same second")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	history, err := l.History(0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	// identical timestamps fall back to insertion order, newest first
	for i, batch := range history {
		assert.Equal(t, ids[len(ids)-1-i], batch.ID)
	}

	limited, err := l.History(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, ids[3], limited[0].ID)
	assert.Equal(t, ids[2], limited[1].ID)
}

func TestUndoRestoresInReverseOrder(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.Populate(t, fs, base, "old/x.txt", "a.txt")
	l := openLedger(t, fs, stepClock())

	ops := applied(t, fs, op("old/x.txt", "old/y.txt"), op("old", "new"), op("a.txt", "b.txt"))
	id, err := l.Record(ops, "batch rename 3 items")
	require.NoError(t, err)

	result, err := l.Undo(id)
	require.NoError(t, err)
	assert.Equal(t, id, result.BatchID)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Zero(t, result.FailedCount)
	assert.False(t, result.Rejected())

	assert.True(t, testutil.Exists(fs, base, "old/x.txt"))
	assert.True(t, testutil.Exists(fs, base, "a.txt"))
	assert.False(t, testutil.Exists(fs, base, "new"))
	assert.False(t, testutil.Exists(fs, base, "b.txt"))

	batch, err := l.Get(id)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.True(t, batch.Undone)
}

func TestUndoRejected(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.Populate(t, fs, base, "a.txt")
	l := openLedger(t, fs, stepClock())

	id, err := l.Record(applied(t, fs, op("a.txt", "b.txt")), "one")
	require.NoError(t, err)

	first, err := l.Undo(id)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SuccessCount)

	renames := fs.RenameCount()
	second, err := l.Undo(id)
	require.NoError(t, err)
	assert.True(t, second.Rejected())
	assert.Zero(t, second.SuccessCount)
	require.Len(t, second.FailedItems, 1)
	assert.Contains(t, second.FailedItems[0].Reason, "already been undone")
	assert.Equal(t, renames, fs.RenameCount(), "a rejected undo must not touch the filesystem")

	unknown, err := l.Undo("ffffffff")
	require.NoError(t, err)
	assert.True(t, unknown.Rejected())
	assert.Contains(t, unknown.FailedItems[0].Reason, "not found")
}

func TestUndoPartialFailure(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.Populate(t, fs, base, "a.txt", "c.txt", "e.txt")
	l := openLedger(t, fs, stepClock())

	ops := applied(t, fs, op("a.txt", "b.txt"), op("c.txt", "d.txt"), op("e.txt", "f.txt"))
	id, err := l.Record(ops, "three")
	require.NoError(t, err)

	// b.txt vanished, c.txt was recreated
	require.NoError(t, fs.Remove(testutil.P(base, "b.txt")))
	testutil.Populate(t, fs, base, "c.txt")

	result, err := l.Undo(id)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.FailedItems, 2)

	// reverse order: d.txt is visited before b.txt
	assert.Equal(t, op("c.txt", "d.txt"), result.FailedItems[0].Operation)
	assert.Equal(t, "original path is occupied", result.FailedItems[0].Reason)
	assert.Equal(t, op("a.txt", "b.txt"), result.FailedItems[1].Operation)
	assert.Equal(t, "renamed path no longer exists", result.FailedItems[1].Reason)
	assert.True(t, testutil.Exists(fs, base, "e.txt"))

	batch, err := l.Get(id)
	require.NoError(t, err)
	assert.True(t, batch.Undone, "batch is marked undone even with failures")
}

func TestUndoLatest(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.Populate(t, fs, base, "a", "c")
	l := openLedger(t, fs, stepClock())

	first, err := l.Record(applied(t, fs, op("a", "b")), "first")
	require.NoError(t, err)
	second, err := l.Record(applied(t, fs, op("c", "d")), "second")
	require.NoError(t, err)

	result, err := l.UndoLatest()
	require.NoError(t, err)
	assert.Equal(t, second, result.BatchID)
	assert.True(t, testutil.Exists(fs, base, "c"))

	result, err = l.UndoLatest()
	require.NoError(t, err)
	assert.Equal(t, first, result.BatchID)
	assert.True(t, testutil.Exists(fs, base, "a"))

	result, err = l.UndoLatest()
	require.NoError(t, err)
	assert.True(t, result.Rejected())
	assert.Equal(t, "no batch to undo", result.FailedItems[0].Reason)
}

func TestClearHistory(t *testing.T) {
	l := openLedger(t, testutil.NewMemoryFS(), stepClock())

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := l.Record([]types.Operation{op("a", "b")}, "batch")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	deleted, err := l.ClearHistory(2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	history, err := l.History(0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[4], history[0].ID)
	assert.Equal(t, ids[3], history[1].ID)

	gone, err := l.Get(ids[0])
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err = l.ClearHistory(10)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = l.ClearHistory(0)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undo.db")

	l, err := ledger.Open(path, ledger.Options{FS: testutil.NewMemoryFS()})
	require.NoError(t, err)
	id, err := l.Record([]types.Operation{op("a", "b")}, "persisted")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = ledger.Open(path, ledger.Options{FS: testutil.NewMemoryFS()})
	require.NoError(t, err)
	defer l.Close()

	batch, err := l.Get(id)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, "persisted", batch.Description)
	assert.Equal(t, path, l.Path())
}

func TestOpenLockedLedgerTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undo.db")

	l, err := ledger.Open(path, ledger.Options{})
	require.NoError(t, err)
	defer l.Close()

	_, err = ledger.Open(path, ledger.Options{Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLedgerOpen))
}

func TestRenameThenUndoRestoresTree(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.Populate(t, fs, base, "photos/", "photos/img1.jpg", "photos/img2.jpg", "notes.txt")
	l := openLedger(t, fs, stepClock())

	tree := types.NewTree(
		types.Dir("photos", "album",
			types.File("img1.jpg", "beach.jpg"),
			types.File("img2.jpg", "sunset.jpg"),
		),
		types.File("notes.txt", "todo<1>.txt"),
	)

	result, err := renamer.New(fs, l).RenameBatch(tree, base, renamer.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 4, result.SuccessCount)
	assert.Equal(t, []string{"album", "todo＜1＞.txt"}, fs.List(base))

	undo, err := l.Undo(result.OperationID)
	require.NoError(t, err)
	assert.Equal(t, 4, undo.SuccessCount)

	assert.Equal(t, []string{"notes.txt", "photos"}, fs.List(base))
	assert.Equal(t, []string{"img1.jpg", "img2.jpg"}, fs.List(testutil.P(base, "photos")))
}
