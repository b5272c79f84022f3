// Package types defines the rename plan model and the values exchanged
// between the validator, the renamer and the undo ledger.
//
// A plan is a RenameTree: an ordered forest of RenameNode values, each
// either a FileNode or a DirNode. Paths are always resolved through the
// *source* names of ancestors, so renaming a directory never changes how
// its children are addressed during a single pass.
package types
