package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"
)

// DefaultOpenTimeout bounds how long Open waits for another process
// holding the ledger file lock.
const DefaultOpenTimeout = time.Second

// maxIDAttempts caps id regeneration on collision.
const maxIDAttempts = 16

// Options configures Open.
type Options struct {
	// Timeout is how long to wait for the file lock. Zero means DefaultOpenTimeout.
	Timeout time.Duration
	// FS performs the moves during undo. Nil means the OS filesystem.
	FS types.FS
	// Clock stamps new batches. Nil means time.Now.
	Clock func() time.Time
}

// Ledger is an open undo ledger. It is safe for use by one process at a
// time; bbolt holds an exclusive lock on the file while it is open.
type Ledger struct {
	db     *bbolt.DB
	path   string
	fs     types.FS
	now    func() time.Time
	logger zerolog.Logger
}

// Open opens or creates the ledger at path, creating its parent directory
// and buckets when missing.
func Open(path string, opts Options) (*Ledger, error) {
	logger := logging.GetLogger("ledger")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create ledger directory for %s", path)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLedgerOpen, "failed to open ledger %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{batchesBucket, operationsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrLedgerOpen, "failed to initialize ledger %s", path)
	}

	l := &Ledger{
		db:     db,
		path:   path,
		fs:     opts.FS,
		now:    opts.Clock,
		logger: logger,
	}
	if l.fs == nil {
		l.fs = filesystem.NewOS()
	}
	if l.now == nil {
		l.now = time.Now
	}

	logger.Debug().Str("path", path).Msg("Ledger opened")
	return l, nil
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Close releases the ledger file.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores ops as one batch and returns its id. An empty ops list
// records nothing and returns "".
func (l *Ledger) Record(ops []types.Operation, description string) (string, error) {
	if len(ops) == 0 {
		return "", nil
	}

	var id string
	err := l.db.Update(func(tx *bbolt.Tx) error {
		bb := tx.Bucket(batchesBucket)

		for attempt := 0; ; attempt++ {
			if attempt == maxIDAttempts {
				return fmt.Errorf("no free batch id after %d attempts", maxIDAttempts)
			}
			candidate, err := newID()
			if err != nil {
				return err
			}
			if bb.Get([]byte(candidate)) == nil {
				id = candidate
				break
			}
		}

		seq, err := bb.NextSequence()
		if err != nil {
			return err
		}
		rec := batchRecord{
			ID:          id,
			Timestamp:   l.now(),
			Description: description,
			Seq:         seq,
		}
		if err := putBatch(bb, rec); err != nil {
			return err
		}
		return writeOperations(tx, id, ops)
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrLedgerWrite, "failed to record rename batch")
	}

	l.logger.Info().Str("batch", id).Int("operations", len(ops)).Msg("Recorded batch")
	return id, nil
}

// Get returns one batch with its operations, or nil when id is unknown.
func (l *Ledger) Get(id string) (*types.UndoBatch, error) {
	var batch *types.UndoBatch
	err := l.db.View(func(tx *bbolt.Tx) error {
		rec, err := getBatch(tx.Bucket(batchesBucket), id)
		if err != nil || rec == nil {
			return err
		}
		ops, err := readOperations(tx, id)
		if err != nil {
			return err
		}
		b := rec.toBatch(ops)
		batch = &b
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLedgerRead, "failed to read batch %s", id)
	}
	return batch, nil
}

// sortedBatches returns batch records newest first: by timestamp, then by
// insertion sequence for equal timestamps.
func sortedBatches(tx *bbolt.Tx) ([]batchRecord, error) {
	recs, err := allBatches(tx)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		}
		return recs[i].Seq > recs[j].Seq
	})
	return recs, nil
}

// History returns up to limit batches, most recent first, each with its
// full operation list. A limit of zero or less returns every batch.
func (l *Ledger) History(limit int) ([]types.UndoBatch, error) {
	var out []types.UndoBatch
	err := l.db.View(func(tx *bbolt.Tx) error {
		recs, err := sortedBatches(tx)
		if err != nil {
			return err
		}
		if limit > 0 && len(recs) > limit {
			recs = recs[:limit]
		}
		for _, rec := range recs {
			ops, err := readOperations(tx, rec.ID)
			if err != nil {
				return err
			}
			out = append(out, rec.toBatch(ops))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLedgerRead, "failed to read history")
	}
	return out, nil
}

// ClearHistory deletes all but the keepRecent most recent batches and
// returns how many were deleted.
func (l *Ledger) ClearHistory(keepRecent int) (int, error) {
	if keepRecent < 0 {
		keepRecent = 0
	}

	deleted := 0
	err := l.db.Update(func(tx *bbolt.Tx) error {
		recs, err := sortedBatches(tx)
		if err != nil {
			return err
		}
		if len(recs) <= keepRecent {
			return nil
		}

		bb := tx.Bucket(batchesBucket)
		ob := tx.Bucket(operationsBucket)
		for _, rec := range recs[keepRecent:] {
			if err := bb.Delete([]byte(rec.ID)); err != nil {
				return err
			}
			if ob.Bucket([]byte(rec.ID)) != nil {
				if err := ob.DeleteBucket([]byte(rec.ID)); err != nil {
					return err
				}
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrLedgerWrite, "failed to clear history")
	}

	l.logger.Info().Int("deleted", deleted).Int("kept", keepRecent).Msg("Cleared history")
	return deleted, nil
}
