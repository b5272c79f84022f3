// Package display holds the view models handed to renderers.
package display

import "github.com/arthur-debert/trename/pkg/types"

// TreeCounts summarizes the nodes of a plan.
type TreeCounts struct {
	Total   int `json:"total"`
	Ready   int `json:"ready"`
	Pending int `json:"pending"`
}

// CountTree fills TreeCounts from a tree.
func CountTree(tree types.RenameTree) TreeCounts {
	return TreeCounts{
		Total:   tree.CountTotal(),
		Ready:   tree.CountReady(),
		Pending: tree.CountPending(),
	}
}

// RenameReport is the output of the rename command.
type RenameReport struct {
	Base   string              `json:"base"`
	Counts TreeCounts          `json:"counts"`
	Result *types.RenameResult `json:"result"`
	// Fixes lists targets rewritten by --fix before validation.
	Fixes []string `json:"fixes,omitempty"`
	// MaxConflicts limits how many conflicts are listed; 0 lists none.
	MaxConflicts int `json:"-"`
}

// CheckReport is the output of the check command.
type CheckReport struct {
	Base   string     `json:"base"`
	Counts TreeCounts `json:"counts"`
	Fixes  []string   `json:"fixes,omitempty"`
	// Proposed is every ready rename as written, before conflict filtering.
	Proposed   []types.Operation `json:"proposed"`
	Operations []types.Operation `json:"operations"`
	Conflicts  []types.Conflict  `json:"conflicts"`
	Notices    []types.Notice    `json:"notices,omitempty"`
}

// UndoReport is the output of the undo command.
type UndoReport struct {
	Result types.UndoResult `json:"result"`
}

// HistoryReport is the output of the history command.
type HistoryReport struct {
	Batches []types.UndoBatch `json:"batches"`
}

// ClearReport is the output of the clear-history command.
type ClearReport struct {
	Deleted int `json:"deleted"`
	Kept    int `json:"kept"`
}

// Limit returns at most max items of list and how many were left out.
func Limit[T any](list []T, max int) ([]T, int) {
	if max < 0 || len(list) <= max {
		return list, 0
	}
	return list[:max], len(list) - max
}
