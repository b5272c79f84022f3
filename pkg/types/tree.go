package types

import (
	"fmt"
	"path/filepath"
)

// RenameTree is an ordered forest of rename nodes. Root order is significant:
// it defines traversal order and breaks ties between equal candidates.
type RenameTree struct {
	Root []RenameNode
}

// NewTree builds a tree from root-level nodes.
func NewTree(nodes ...RenameNode) RenameTree {
	return RenameTree{Root: nodes}
}

// Visit is one node of a traversal paired with its resolved location.
type Visit struct {
	Node RenameNode
	// Parent is the directory the node lives in, resolved through source names.
	Parent string
	// Path is Parent joined with the node's source name.
	Path string
	// Position is the index path from the tree root, e.g. [2 0 1].
	Position []int
}

// TargetPath resolves a target name next to the visited node.
func (v Visit) TargetPath(name string) string {
	return filepath.Join(v.Parent, name)
}

// WalkFunc is called for each visited node. Returning an error stops the walk.
type WalkFunc func(v Visit) error

// Walk visits every node in pre-order (a directory before its children),
// starting from base.
func (t RenameTree) Walk(base string, fn WalkFunc) error {
	return walkNodes(t.Root, base, nil, fn, false)
}

// WalkChildrenFirst visits every node in post-order: a directory is visited
// only after all of its descendants. This is the order renames must run in.
func (t RenameTree) WalkChildrenFirst(base string, fn WalkFunc) error {
	return walkNodes(t.Root, base, nil, fn, true)
}

func walkNodes(nodes []RenameNode, parent string, pos []int, fn WalkFunc, childrenFirst bool) error {
	for i, node := range nodes {
		position := append(append(make([]int, 0, len(pos)+1), pos...), i)
		v := Visit{
			Node:     node,
			Parent:   parent,
			Path:     filepath.Join(parent, node.Source()),
			Position: position,
		}

		switch n := node.(type) {
		case FileNode:
			if err := fn(v); err != nil {
				return err
			}
		case DirNode:
			if !childrenFirst {
				if err := fn(v); err != nil {
					return err
				}
			}
			if err := walkNodes(n.Children, v.Path, position, fn, childrenFirst); err != nil {
				return err
			}
			if childrenFirst {
				if err := fn(v); err != nil {
					return err
				}
			}
		default:
			panic(fmt.Sprintf("types: unknown rename node %T", node))
		}
	}
	return nil
}

// CountTotal returns the number of nodes in the tree. A directory counts
// itself plus all of its descendants.
func (t RenameTree) CountTotal() int {
	return sumNodes(t.Root, func(RenameNode) bool { return true })
}

// CountPending returns the number of nodes without a target.
func (t RenameTree) CountPending() int {
	return sumNodes(t.Root, RenameNode.Pending)
}

// CountReady returns the number of nodes that would actually be renamed.
func (t RenameTree) CountReady() int {
	return sumNodes(t.Root, RenameNode.Ready)
}

func sumNodes(nodes []RenameNode, pred func(RenameNode) bool) int {
	count := 0
	for _, node := range nodes {
		if pred(node) {
			count++
		}
		switch n := node.(type) {
		case FileNode:
		case DirNode:
			count += sumNodes(n.Children, pred)
		default:
			panic(fmt.Sprintf("types: unknown rename node %T", node))
		}
	}
	return count
}

// Check reports the first structural problem in the tree: an empty source
// name, a name that is not a single path component, or a target that would
// escape its directory.
func (t RenameTree) Check() error {
	return t.Walk("", func(v Visit) error {
		field := "src"
		if IsDir(v.Node) {
			field = "src_dir"
		}
		if err := checkName(v.Node.Source(), field); err != nil {
			return fmt.Errorf("node %v: %w", v.Position, err)
		}
		if tgt := v.Node.Target(); tgt == "." || tgt == ".." {
			return fmt.Errorf("node %v: target must not be %q", v.Position, tgt)
		}
		return nil
	})
}

// Replace returns a new tree in which the node at position is swapped for
// node. Ancestors along the path are rebuilt; all other nodes are shared.
func (t RenameTree) Replace(position []int, node RenameNode) (RenameTree, error) {
	root, err := replaceAt(t.Root, position, node)
	if err != nil {
		return t, err
	}
	return RenameTree{Root: root}, nil
}

func replaceAt(nodes []RenameNode, position []int, node RenameNode) ([]RenameNode, error) {
	if len(position) == 0 {
		return nil, fmt.Errorf("empty position")
	}
	i := position[0]
	if i < 0 || i >= len(nodes) {
		return nil, fmt.Errorf("position %d out of range (%d nodes)", i, len(nodes))
	}

	out := make([]RenameNode, len(nodes))
	copy(out, nodes)

	if len(position) == 1 {
		out[i] = node
		return out, nil
	}

	dir, ok := nodes[i].(DirNode)
	if !ok {
		return nil, fmt.Errorf("position %d is a file and has no children", i)
	}
	children, err := replaceAt(dir.Children, position[1:], node)
	if err != nil {
		return nil, err
	}
	out[i] = WithChildren(dir, children)
	return out, nil
}

// SetTarget is a convenience over Replace that only changes the target name
// of the node at position.
func (t RenameTree) SetTarget(position []int, tgt string) (RenameTree, error) {
	node, err := t.At(position)
	if err != nil {
		return t, err
	}
	return t.Replace(position, WithTarget(node, tgt))
}

// At returns the node at position.
func (t RenameTree) At(position []int) (RenameNode, error) {
	nodes := t.Root
	var current RenameNode
	for depth, i := range position {
		if i < 0 || i >= len(nodes) {
			return nil, fmt.Errorf("position %v out of range at depth %d", position, depth)
		}
		current = nodes[i]
		if depth == len(position)-1 {
			break
		}
		dir, ok := current.(DirNode)
		if !ok {
			return nil, fmt.Errorf("position %v descends into a file", position)
		}
		nodes = dir.Children
	}
	if current == nil {
		return nil, fmt.Errorf("empty position")
	}
	return current, nil
}
