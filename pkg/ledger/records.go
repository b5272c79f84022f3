package ledger

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arthur-debert/trename/pkg/types"
	"go.etcd.io/bbolt"
)

var (
	batchesBucket    = []byte("batches")
	operationsBucket = []byte("operations")
)

// idBytes is the number of random bytes in a batch id (8 hex characters).
const idBytes = 4

type batchRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Undone      bool      `json:"undone"`
	Seq         uint64    `json:"seq"`
}

type operationRecord struct {
	OriginalPath string `json:"original_path"`
	NewPath      string `json:"new_path"`
	Seq          uint64 `json:"seq"`
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate batch id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func putBatch(b *bbolt.Bucket, rec batchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode batch %s: %w", rec.ID, err)
	}
	return b.Put([]byte(rec.ID), data)
}

func getBatch(b *bbolt.Bucket, id string) (*batchRecord, error) {
	data := b.Get([]byte(id))
	if data == nil {
		return nil, nil
	}
	var rec batchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", id, err)
	}
	return &rec, nil
}

// allBatches decodes every batch record, in key order.
func allBatches(tx *bbolt.Tx) ([]batchRecord, error) {
	var out []batchRecord
	err := tx.Bucket(batchesBucket).ForEach(func(k, v []byte) error {
		var rec batchRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("decode batch %s: %w", k, err)
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// readOperations returns a batch's operations in execution order. bbolt
// iterates keys in byte order, which for big-endian keys is seq order.
func readOperations(tx *bbolt.Tx, id string) ([]types.Operation, error) {
	ob := tx.Bucket(operationsBucket).Bucket([]byte(id))
	if ob == nil {
		return nil, nil
	}
	var ops []types.Operation
	err := ob.ForEach(func(k, v []byte) error {
		var rec operationRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("decode operation %d of batch %s: %w", binary.BigEndian.Uint64(k), id, err)
		}
		ops = append(ops, types.Operation{OriginalPath: rec.OriginalPath, NewPath: rec.NewPath})
		return nil
	})
	return ops, err
}

func writeOperations(tx *bbolt.Tx, id string, ops []types.Operation) error {
	ob, err := tx.Bucket(operationsBucket).CreateBucket([]byte(id))
	if err != nil {
		return fmt.Errorf("create operations bucket for %s: %w", id, err)
	}
	for i, op := range ops {
		seq := uint64(i + 1)
		data, err := json.Marshal(operationRecord{
			OriginalPath: op.OriginalPath,
			NewPath:      op.NewPath,
			Seq:          seq,
		})
		if err != nil {
			return fmt.Errorf("encode operation %d of batch %s: %w", seq, id, err)
		}
		if err := ob.Put(seqKey(seq), data); err != nil {
			return err
		}
	}
	return nil
}

func (r batchRecord) toBatch(ops []types.Operation) types.UndoBatch {
	return types.UndoBatch{
		ID:          r.ID,
		Timestamp:   r.Timestamp,
		Description: r.Description,
		Operations:  ops,
		Undone:      r.Undone,
	}
}
