package validator

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/rs/zerolog"
)

// Validator checks a rename plan against the filesystem and derives the
// operations that are safe to run.
type Validator struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Validator reading filesystem state through fsys.
func New(fsys types.FS) *Validator {
	return &Validator{
		fs:     fsys,
		logger: logging.GetLogger("validator"),
	}
}

// Report is the outcome of Validate.
type Report struct {
	Conflicts []types.Conflict
	Notices   []types.Notice
}

// Plan is the outcome of ValidOperations: operations in execution order
// (children before parents), plus the conflicts left after deduplication.
type Plan struct {
	Operations []types.Operation
	Conflicts  []types.Conflict
	Notices    []types.Notice
}

// ResolveBase makes base absolute and checks it is an existing directory.
func ResolveBase(fsys types.FS, base string) (string, error) {
	if base == "" {
		return "", errors.New(errors.ErrInvalidInput, "base directory must not be empty")
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve base directory %s", base)
	}

	info, err := fsys.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBaseNotFound, "base directory %s does not exist", abs)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrBaseNotDir, "base path %s is not a directory", abs).
			WithDetail("path", abs)
	}
	return abs, nil
}

// target is the validated rename of one ready node.
type target struct {
	src       string
	tgt       string
	conflicts []types.Conflict
	notices   []types.Notice
}

// resolve runs name sanitization and the per-name rules for a ready node.
// It does not touch the filesystem.
func resolve(v types.Visit) target {
	node := v.Node
	isDir := types.IsDir(node)
	src := v.Path
	raw := node.Target()

	s := SanitizeName(raw, isDir)
	t := target{src: src, tgt: v.TargetPath(s.Name)}

	if s.ExtensionError != "" {
		t.conflicts = append(t.conflicts, types.Conflict{
			Kind:    types.ConflictIllegalCharacters,
			SrcPath: src,
			TgtPath: t.tgt,
			Message: s.ExtensionError,
		})
	} else if s.Changed() {
		t.notices = append(t.notices, types.Notice{
			Kind:    types.NoticeAutoFix,
			SrcPath: src,
			Message: fmt.Sprintf("illegal characters replaced in %q -> %q: %v", raw, s.Name, s.Replaced),
		})
	}

	if isDir || s.ExtensionError != "" {
		return t
	}

	for _, msg := range CheckExtensionPlacement(s.Name) {
		t.conflicts = append(t.conflicts, types.Conflict{
			Kind:    types.ConflictInvalidExtension,
			SrcPath: src,
			TgtPath: t.tgt,
			Message: msg,
		})
	}

	if from, to, changed := ExtensionChange(node.Source(), s.Name); changed {
		t.notices = append(t.notices, types.Notice{
			Kind:    types.NoticeExtensionChange,
			SrcPath: src,
			Message: fmt.Sprintf("extension changes from %q to %q", from, to),
		})
	}
	return t
}

// Validate walks every ready node of tree in order and reports all
// conflicts and notices. Calling it twice on the same tree and filesystem
// state yields identical reports.
func (v *Validator) Validate(tree types.RenameTree, base string) (Report, error) {
	var report Report

	if err := tree.Check(); err != nil {
		return report, errors.Wrap(err, errors.ErrPlanInvalid, "invalid rename tree")
	}
	base, err := ResolveBase(v.fs, base)
	if err != nil {
		return report, err
	}

	// target path -> contributing sources, in first-seen order
	var targetOrder []string
	sources := make(map[string][]string)

	err = tree.Walk(base, func(visit types.Visit) error {
		if !visit.Node.Ready() {
			return nil
		}
		t := resolve(visit)
		report.Conflicts = append(report.Conflicts, t.conflicts...)
		report.Notices = append(report.Notices, t.notices...)

		// sanitizing can turn the target back into the source name
		if t.src == t.tgt {
			return nil
		}

		if c, ok := v.checkTargetExists(t, types.IsDir(visit.Node)); ok {
			report.Conflicts = append(report.Conflicts, c)
		}

		if _, seen := sources[t.tgt]; !seen {
			targetOrder = append(targetOrder, t.tgt)
		}
		sources[t.tgt] = append(sources[t.tgt], t.src)
		return nil
	})
	if err != nil {
		return report, err
	}

	for _, tgt := range targetOrder {
		srcs := sources[tgt]
		if len(srcs) < 2 {
			continue
		}
		for _, src := range srcs {
			report.Conflicts = append(report.Conflicts, types.Conflict{
				Kind:    types.ConflictDuplicateTarget,
				SrcPath: src,
				TgtPath: tgt,
				Message: fmt.Sprintf("%d sources map to the same target: %s", len(srcs), tgt),
			})
		}
	}

	for _, c := range report.Conflicts {
		v.logger.Debug().
			Str("kind", string(c.Kind)).
			Str("src", c.SrcPath).
			Str("tgt", c.TgtPath).
			Msg("Conflict detected")
	}

	return report, nil
}

// checkTargetExists reports a TargetExists conflict when the target is
// occupied by something other than the source itself.
func (v *Validator) checkTargetExists(t target, isDir bool) (types.Conflict, bool) {
	if t.src == t.tgt {
		return types.Conflict{}, false
	}

	what := "file"
	if isDir {
		what = "directory"
	}

	exists, err := filesystem.Exists(v.fs, t.tgt)
	if err != nil {
		v.logger.Warn().Err(err).Str("tgt", t.tgt).Msg("Cannot check target, treating it as occupied")
		return types.Conflict{
			Kind:    types.ConflictTargetExists,
			SrcPath: t.src,
			TgtPath: t.tgt,
			Message: fmt.Sprintf("cannot check target %s %s: %v", what, t.tgt, err),
		}, true
	}
	if !exists {
		return types.Conflict{}, false
	}
	return types.Conflict{
		Kind:    types.ConflictTargetExists,
		SrcPath: t.src,
		TgtPath: t.tgt,
		Message: fmt.Sprintf("target %s already exists: %s", what, t.tgt),
	}, true
}

// ValidOperations validates tree and returns the operations that are safe
// to run, children before their parent directory, with no two operations
// sharing a target. With smartDedup, each group of duplicate targets keeps
// the lexicographically smallest source path and reports the rest as skipped.
func (v *Validator) ValidOperations(tree types.RenameTree, base string, smartDedup bool) (*Plan, error) {
	report, err := v.Validate(tree, base)
	if err != nil {
		return nil, err
	}
	base, err = ResolveBase(v.fs, base)
	if err != nil {
		return nil, err
	}

	conflicts := report.Conflicts
	if smartDedup {
		conflicts = Dedupe(conflicts)
	}

	blocked := make(map[types.Operation]bool, len(conflicts))
	for _, c := range conflicts {
		blocked[c.Pair()] = true
	}

	plan := &Plan{Conflicts: conflicts, Notices: report.Notices}
	claimed := make(map[string]bool)

	err = tree.WalkChildrenFirst(base, func(visit types.Visit) error {
		if !visit.Node.Ready() {
			return nil
		}
		t := resolve(visit)
		if t.src == t.tgt {
			return nil
		}
		op := types.Operation{OriginalPath: t.src, NewPath: t.tgt}
		if blocked[op] || claimed[t.tgt] {
			return nil
		}
		claimed[t.tgt] = true
		plan.Operations = append(plan.Operations, op)
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Debug().
		Int("operations", len(plan.Operations)).
		Int("conflicts", len(plan.Conflicts)).
		Bool("smartDedup", smartDedup).
		Msg("Computed valid operations")

	return plan, nil
}

// Dedupe resolves DuplicateTarget conflicts. Within each target group the
// source with the smallest path string is kept (its conflict is dropped so
// it may proceed); the others stay as conflicts with a "skipped" message.
// Other conflict kinds pass through unchanged and in order.
// Repeated runs over the same tree and filesystem pick the same winner.
func Dedupe(conflicts []types.Conflict) []types.Conflict {
	groups := make(map[string][]types.Conflict)
	for _, c := range conflicts {
		if c.Kind == types.ConflictDuplicateTarget {
			groups[c.TgtPath] = append(groups[c.TgtPath], c)
		}
	}
	if len(groups) == 0 {
		return conflicts
	}

	kept := make(map[types.Operation]bool)
	skipped := make(map[types.Operation]bool)
	for _, group := range groups {
		sorted := make([]types.Conflict, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].SrcPath < sorted[j].SrcPath
		})
		winner := sorted[0].Pair()
		kept[winner] = true
		for _, c := range sorted[1:] {
			if c.Pair() != winner {
				skipped[c.Pair()] = true
			}
		}
	}

	out := make([]types.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Kind != types.ConflictDuplicateTarget {
			out = append(out, c)
			continue
		}
		pair := c.Pair()
		switch {
		case skipped[pair]:
			out = append(out, c.WithMessage(fmt.Sprintf(
				"skipped duplicate: %s (another source with the same target was kept)",
				filepath.Base(c.SrcPath))))
		case kept[pair]:
			// the winner proceeds; drop every copy of its duplicate conflict
		default:
			out = append(out, c)
		}
	}
	return out
}
