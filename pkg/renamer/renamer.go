package renamer

import (
	"fmt"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/validator"
	"github.com/rs/zerolog"
)

// Recorder stores executed operations as one undoable batch and returns
// its id. The ledger package provides the production implementation.
type Recorder interface {
	Record(ops []types.Operation, description string) (string, error)
}

// Options controls a batch rename.
type Options struct {
	// DryRun computes the operations without touching the filesystem.
	DryRun bool
	// SmartDedup keeps one source per duplicated target instead of
	// blocking them all.
	SmartDedup bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{SmartDedup: true}
}

// Renamer applies rename trees to a filesystem.
type Renamer struct {
	fs        types.FS
	ledger    Recorder
	validator *validator.Validator
	logger    zerolog.Logger
}

// New creates a Renamer. ledger may be nil, in which case executed batches
// are not recorded and cannot be undone.
func New(fsys types.FS, ledger Recorder) *Renamer {
	return &Renamer{
		fs:        fsys,
		ledger:    ledger,
		validator: validator.New(fsys),
		logger:    logging.GetLogger("renamer"),
	}
}

// RenameBatch validates tree against base and runs every operation that is
// free of conflicts, children before parents. Per-operation failures are
// counted in the result; only structural problems (invalid tree, bad base)
// return an error before anything moves. If the moves succeed but the batch
// cannot be recorded, the result is returned together with an
// ErrLedgerWrite error.
func (r *Renamer) RenameBatch(tree types.RenameTree, base string, opts Options) (*types.RenameResult, error) {
	defer logging.LogOperationStart(r.logger, "rename_batch")()

	plan, err := r.validator.ValidOperations(tree, base, opts.SmartDedup)
	if err != nil {
		return nil, err
	}

	result := &types.RenameResult{
		SkippedCount: len(plan.Conflicts),
		Conflicts:    plan.Conflicts,
		Notices:      plan.Notices,
		DryRun:       opts.DryRun,
	}

	if opts.DryRun {
		result.SuccessCount = len(plan.Operations)
		result.Operations = plan.Operations
		r.logger.Info().
			Int("operations", len(plan.Operations)).
			Int("conflicts", len(plan.Conflicts)).
			Msg("Dry run, nothing renamed")
		return result, nil
	}

	for _, op := range plan.Operations {
		if reason, ok := r.precheck(op); !ok {
			result.FailedCount++
			result.Failures = append(result.Failures, types.Failure{Operation: op, Reason: reason})
			r.logger.Warn().Str("src", op.OriginalPath).Str("tgt", op.NewPath).Msg(reason)
			continue
		}

		if err := r.fs.Rename(op.OriginalPath, op.NewPath); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, types.Failure{
				Operation: op,
				Reason:    fmt.Sprintf("rename failed: %v", err),
			})
			r.logger.Error().Err(err).Str("src", op.OriginalPath).Str("tgt", op.NewPath).Msg("Rename failed")
			continue
		}

		result.SuccessCount++
		result.Operations = append(result.Operations, op)
		r.logger.Info().Str("src", op.OriginalPath).Str("tgt", op.NewPath).Msg("Renamed")
	}

	r.logger.Info().
		Int("success", result.SuccessCount).
		Int("failed", result.FailedCount).
		Int("conflicts", len(result.Conflicts)).
		Msg("Batch rename finished")

	if len(result.Operations) == 0 || r.ledger == nil {
		return result, nil
	}

	id, err := r.ledger.Record(result.Operations, fmt.Sprintf("batch rename %d items", len(result.Operations)))
	if err != nil {
		return result, errors.Wrap(err, errors.ErrLedgerWrite, "renames completed but the undo batch was not recorded")
	}
	result.OperationID = id
	r.logger.Debug().Str("batch", id).Msg("Recorded undo batch")

	return result, nil
}

// precheck re-reads the filesystem right before a move: the source must
// still exist and the target must still be free.
func (r *Renamer) precheck(op types.Operation) (string, bool) {
	exists, err := filesystem.Exists(r.fs, op.OriginalPath)
	if err != nil {
		return fmt.Sprintf("cannot check source: %v", err), false
	}
	if !exists {
		return "source no longer exists", false
	}

	exists, err = filesystem.Exists(r.fs, op.NewPath)
	if err != nil {
		return fmt.Sprintf("cannot check target: %v", err), false
	}
	if exists {
		return "target appeared before the rename ran", false
	}
	return "", true
}

// CollectOperations lists every ready node of tree as an operation, children
// before parents, without any conflict filtering. Targets are used as
// written.
func CollectOperations(tree types.RenameTree, base string) []types.Operation {
	var ops []types.Operation
	_ = tree.WalkChildrenFirst(base, func(v types.Visit) error {
		if v.Node.Ready() {
			ops = append(ops, types.Operation{
				OriginalPath: v.Path,
				NewPath:      v.TargetPath(v.Node.Target()),
			})
		}
		return nil
	})
	return ops
}
