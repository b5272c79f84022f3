// Package plan decodes rename plans into rename trees.
//
// A plan is JSON or YAML, either {"root": [node, ...]} or a bare list of
// nodes. A node is a file {src, tgt} or a directory
// {src_dir, tgt_dir, children}. Missing targets mean "not decided yet".
package plan

import (
	"bytes"
	"fmt"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/types"
	"gopkg.in/yaml.v3"
)

type rawNode struct {
	Src      *string   `yaml:"src"`
	Tgt      string    `yaml:"tgt"`
	SrcDir   *string   `yaml:"src_dir"`
	TgtDir   string    `yaml:"tgt_dir"`
	Children []rawNode `yaml:"children"`
}

type rawPlan struct {
	Root []rawNode `yaml:"root"`
}

// Decode parses a plan document. JSON documents are accepted as YAML.
func Decode(data []byte) (types.RenameTree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return types.RenameTree{}, errors.New(errors.ErrPlanInvalid, "plan is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanParse, "failed to parse plan")
	}

	top := &doc
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}

	var nodes []rawNode
	switch top.Kind {
	case yaml.MappingNode:
		var p rawPlan
		if err := top.Decode(&p); err != nil {
			return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanParse, "failed to decode plan")
		}
		nodes = p.Root
	case yaml.SequenceNode:
		if err := top.Decode(&nodes); err != nil {
			return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanParse, "failed to decode plan")
		}
	default:
		return types.RenameTree{}, errors.New(errors.ErrPlanInvalid,
			`plan must be an object with a "root" list or a list of nodes`)
	}

	root, err := convert(nodes, "root")
	if err != nil {
		return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanInvalid, "invalid plan")
	}

	tree := types.NewTree(root...)
	if err := tree.Check(); err != nil {
		return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanInvalid, "invalid plan")
	}
	return tree, nil
}

func convert(raw []rawNode, where string) ([]types.RenameNode, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]types.RenameNode, 0, len(raw))
	for i, r := range raw {
		at := fmt.Sprintf("%s[%d]", where, i)
		switch {
		case r.Src != nil && r.SrcDir != nil:
			return nil, fmt.Errorf("%s: node has both src and src_dir", at)
		case r.Src != nil:
			if len(r.Children) > 0 || r.TgtDir != "" {
				return nil, fmt.Errorf("%s: file node %q cannot have tgt_dir or children", at, *r.Src)
			}
			out = append(out, types.File(*r.Src, r.Tgt))
		case r.SrcDir != nil:
			if r.Tgt != "" {
				return nil, fmt.Errorf("%s: directory node %q uses tgt_dir, not tgt", at, *r.SrcDir)
			}
			children, err := convert(r.Children, at+".children")
			if err != nil {
				return nil, err
			}
			out = append(out, types.Dir(*r.SrcDir, r.TgtDir, children...))
		default:
			return nil, fmt.Errorf("%s: node needs src or src_dir", at)
		}
	}
	return out, nil
}
