// Package ledger persists executed rename batches so they can be undone.
//
// The ledger is a single bbolt file with two top-level buckets:
//
//	batches      id -> {id, timestamp, description, undone, seq}
//	operations   id -> nested bucket: big-endian seq -> {original_path, new_path, seq}
//
// A batch and all of its operations are written in one transaction, so a
// batch is either fully recorded or absent. Operation sequence numbers give
// the execution order; undo replays them backwards.
package ledger
