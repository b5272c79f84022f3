package ledger

import (
	"fmt"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/types"
	"go.etcd.io/bbolt"
)

func rejected(id, reason string) types.UndoResult {
	return types.UndoResult{
		BatchID:     id,
		FailedItems: []types.Failure{{Reason: reason}},
	}
}

// Undo reverts batch id by moving every NewPath back to its OriginalPath,
// last operation first. Items that cannot be reverted are reported in the
// result and the rest still run. The batch is marked undone afterwards even
// when some items failed, so it is never replayed twice.
//
// An unknown or already undone id yields a result with no successes and a
// single failed item explaining why; the filesystem is not touched. The
// returned error is reserved for ledger storage failures.
func (l *Ledger) Undo(id string) (types.UndoResult, error) {
	defer logging.LogOperationStart(l.logger, "undo")()

	batch, err := l.Get(id)
	if err != nil {
		return types.UndoResult{BatchID: id}, err
	}
	if batch == nil {
		l.logger.Warn().Str("batch", id).Msg("Undo of unknown batch")
		return rejected(id, fmt.Sprintf("batch %s not found", id)), nil
	}
	if batch.Undone {
		l.logger.Warn().Str("batch", id).Msg("Undo of batch already undone")
		return rejected(id, fmt.Sprintf("batch %s has already been undone", id)), nil
	}

	result := types.UndoResult{BatchID: id}
	for i := len(batch.Operations) - 1; i >= 0; i-- {
		op := batch.Operations[i]
		if reason, ok := l.revert(op); !ok {
			result.FailedCount++
			result.FailedItems = append(result.FailedItems, types.Failure{Operation: op, Reason: reason})
			l.logger.Warn().Str("batch", id).Str("src", op.NewPath).Str("tgt", op.OriginalPath).Msg(reason)
			continue
		}
		result.SuccessCount++
		l.logger.Info().Str("batch", id).Str("src", op.NewPath).Str("tgt", op.OriginalPath).Msg("Restored")
	}

	if err := l.markUndone(id); err != nil {
		return result, err
	}

	l.logger.Info().
		Str("batch", id).
		Int("success", result.SuccessCount).
		Int("failed", result.FailedCount).
		Msg("Undo finished")
	return result, nil
}

// revert moves op.NewPath back to op.OriginalPath.
func (l *Ledger) revert(op types.Operation) (string, bool) {
	exists, err := filesystem.Exists(l.fs, op.NewPath)
	if err != nil {
		return fmt.Sprintf("cannot check %s: %v", op.NewPath, err), false
	}
	if !exists {
		return "renamed path no longer exists", false
	}

	occupied, err := filesystem.Exists(l.fs, op.OriginalPath)
	if err != nil {
		return fmt.Sprintf("cannot check %s: %v", op.OriginalPath, err), false
	}
	if occupied {
		return "original path is occupied", false
	}

	if err := l.fs.Rename(op.NewPath, op.OriginalPath); err != nil {
		return fmt.Sprintf("restore failed: %v", err), false
	}
	return "", true
}

func (l *Ledger) markUndone(id string) error {
	err := l.db.Update(func(tx *bbolt.Tx) error {
		bb := tx.Bucket(batchesBucket)
		rec, err := getBatch(bb, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("batch %s disappeared", id)
		}
		rec.Undone = true
		return putBatch(bb, *rec)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrLedgerWrite, "failed to mark batch %s undone", id)
	}
	return nil
}

// UndoLatest undoes the most recent batch that has not been undone yet.
// With nothing left to undo it returns a rejected result.
func (l *Ledger) UndoLatest() (types.UndoResult, error) {
	var latest string
	err := l.db.View(func(tx *bbolt.Tx) error {
		recs, err := sortedBatches(tx)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if !rec.Undone {
				latest = rec.ID
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return types.UndoResult{}, errors.Wrap(err, errors.ErrLedgerRead, "failed to find latest batch")
	}
	if latest == "" {
		return rejected("", "no batch to undo"), nil
	}
	return l.Undo(latest)
}
