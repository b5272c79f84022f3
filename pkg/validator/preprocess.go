package validator

import (
	"fmt"

	"github.com/arthur-debert/trename/pkg/types"
)

// Preprocess returns a copy of tree with every auto-fixable target replaced
// by its sanitized form, plus one message per rewritten node. Targets whose
// extension holds illegal characters are left alone; Validate reports them.
func Preprocess(tree types.RenameTree) (types.RenameTree, []string) {
	var fixes []string
	return types.RenameTree{Root: preprocessNodes(tree.Root, &fixes)}, fixes
}

func preprocessNodes(nodes []types.RenameNode, fixes *[]string) []types.RenameNode {
	if nodes == nil {
		return nil
	}
	out := make([]types.RenameNode, len(nodes))
	for i, node := range nodes {
		out[i] = preprocessNode(node, fixes)
	}
	return out
}

func preprocessNode(node types.RenameNode, fixes *[]string) types.RenameNode {
	fixed := node
	if tgt := node.Target(); tgt != "" {
		s := SanitizeName(tgt, types.IsDir(node))
		if s.ExtensionError == "" && s.Changed() {
			fixed = types.WithTarget(node, s.Name)
			*fixes = append(*fixes, fmt.Sprintf("%s: %q -> %q", node.Source(), tgt, s.Name))
		}
	}

	switch n := fixed.(type) {
	case types.FileNode:
		return n
	case types.DirNode:
		return types.WithChildren(n, preprocessNodes(n.Children, fixes))
	default:
		panic(fmt.Sprintf("validator: unknown rename node %T", node))
	}
}
