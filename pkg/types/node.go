package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RenameNode is one entry of a rename plan. It is a closed sum type:
// the only implementations are FileNode and DirNode, and every traversal
// switches over both.
type RenameNode interface {
	// Source is the current name of the entry.
	Source() string
	// Target is the desired name; empty means not decided yet.
	Target() string
	// Pending reports whether no target has been assigned.
	Pending() bool
	// Ready reports whether the node has a target that differs from its source.
	Ready() bool

	renameNode()
}

// FileNode is a file entry.
type FileNode struct {
	Src string
	Tgt string
}

// DirNode is a directory entry with ordered children.
type DirNode struct {
	SrcDir   string
	TgtDir   string
	Children []RenameNode
}

func (FileNode) renameNode() {}
func (DirNode) renameNode()  {}

func (n FileNode) Source() string { return n.Src }
func (n FileNode) Target() string { return n.Tgt }
func (n FileNode) Pending() bool  { return n.Tgt == "" }
func (n FileNode) Ready() bool    { return n.Tgt != "" && n.Tgt != n.Src }

func (n DirNode) Source() string { return n.SrcDir }
func (n DirNode) Target() string { return n.TgtDir }
func (n DirNode) Pending() bool  { return n.TgtDir == "" }
func (n DirNode) Ready() bool    { return n.TgtDir != "" && n.TgtDir != n.SrcDir }

// File builds a FileNode.
func File(src, tgt string) FileNode {
	return FileNode{Src: src, Tgt: tgt}
}

// Dir builds a DirNode.
func Dir(src, tgt string, children ...RenameNode) DirNode {
	return DirNode{SrcDir: src, TgtDir: tgt, Children: children}
}

// WithTarget returns a copy of node with its target replaced. The original
// value is left untouched; directory children are shared, not copied, since
// nodes are never mutated in place.
func WithTarget(node RenameNode, tgt string) RenameNode {
	switch n := node.(type) {
	case FileNode:
		n.Tgt = tgt
		return n
	case DirNode:
		n.TgtDir = tgt
		return n
	default:
		panic(fmt.Sprintf("types: unknown rename node %T", node))
	}
}

// WithChildren returns a copy of dir with its children replaced.
func WithChildren(dir DirNode, children []RenameNode) DirNode {
	dir.Children = children
	return dir
}

// IsDir reports whether node is a directory entry.
func IsDir(node RenameNode) bool {
	_, ok := node.(DirNode)
	return ok
}

// checkName rejects names that cannot address a single path component.
func checkName(name, field string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s must not be empty", field)
	case name == "." || name == "..":
		return fmt.Errorf("%s must not be %q", field, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%s %q must not contain path separators", field, name)
	}
	return nil
}
