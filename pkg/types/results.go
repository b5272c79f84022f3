package types

// Failure is an operation that could not be executed.
type Failure struct {
	Operation
	Reason string `json:"reason"`
}

// RenameResult summarizes one batch rename.
type RenameResult struct {
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
	// SkippedCount is the number of conflicts left after deduplication.
	SkippedCount int        `json:"skipped_count"`
	Conflicts    []Conflict `json:"conflicts"`
	Notices      []Notice   `json:"notices,omitempty"`
	Failures     []Failure  `json:"failures,omitempty"`
	// OperationID is the undo batch id, empty for dry runs or when nothing moved.
	OperationID string `json:"operation_id"`
	DryRun      bool   `json:"dry_run"`
	// Operations lists what was moved, or what would move for a dry run.
	Operations []Operation `json:"operations"`
}

// UndoResult summarizes one undo attempt. A rejected attempt (unknown or
// already undone batch) has zero counts and a single failed item carrying
// the reason.
type UndoResult struct {
	BatchID      string    `json:"batch_id"`
	SuccessCount int       `json:"success_count"`
	FailedCount  int       `json:"failed_count"`
	FailedItems  []Failure `json:"failed_items"`
}

// Rejected reports whether the undo never touched the filesystem.
func (r UndoResult) Rejected() bool {
	return r.SuccessCount == 0 && r.FailedCount == 0 && len(r.FailedItems) > 0
}
