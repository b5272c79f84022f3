package types

import "time"

// Operation is a single rename, proposed or executed.
type Operation struct {
	OriginalPath string `json:"original_path"`
	NewPath      string `json:"new_path"`
}

// UndoBatch is one group of executed renames that is undone together.
// Operations are kept in execution order.
type UndoBatch struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Description string      `json:"description"`
	Operations  []Operation `json:"operations"`
	Undone      bool        `json:"undone"`
}
