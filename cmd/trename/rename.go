package trename

import (
	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/filesystem"
	"github.com/arthur-debert/trename/pkg/plan"
	"github.com/arthur-debert/trename/pkg/renamer"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/ui/display"
	"github.com/arthur-debert/trename/pkg/validator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// planInput holds the flags that select a plan and the directory it
// applies to.
type planInput struct {
	input     string
	clipboard bool
	base      string
	fix       bool
}

// loadedPlan is a plan ready for validation.
type loadedPlan struct {
	tree types.RenameTree
	base string
	// fixes describes targets rewritten by --fix.
	fixes []string
}

func (p *planInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.input, "input", "i", "", MsgFlagInput)
	cmd.Flags().BoolVar(&p.clipboard, "clipboard", false, MsgFlagClipboard)
	cmd.Flags().StringVarP(&p.base, "base", "b", ".", MsgFlagBase)
	cmd.Flags().BoolVar(&p.fix, "fix", false, MsgFlagFix)
	cmd.MarkFlagsMutuallyExclusive("input", "clipboard")
	_ = cmd.MarkFlagFilename("input", "json", "yaml", "yml")
	_ = cmd.MarkFlagDirname("base")
}

// load reads the plan, applies --fix, and resolves the base directory to
// an absolute path.
func (p *planInput) load(cmd *cobra.Command, fsys types.FS) (*loadedPlan, error) {
	var (
		tree types.RenameTree
		err  error
	)
	switch {
	case p.clipboard:
		tree, err = plan.FromClipboard()
	case p.input == "" || p.input == "-":
		tree, err = plan.FromReader(cmd.InOrStdin())
	default:
		tree, err = plan.FromFile(fsys, p.input)
	}
	if err != nil {
		return nil, err
	}

	base, err := validator.ResolveBase(fsys, p.base)
	if err != nil {
		return nil, err
	}

	loaded := &loadedPlan{tree: tree, base: base}
	if p.fix {
		loaded.tree, loaded.fixes = validator.Preprocess(tree)
		log.Info().Int("fixed", len(loaded.fixes)).Msg("Sanitized plan targets")
	}
	return loaded, nil
}

func newRenameCmd(g *globalOptions) *cobra.Command {
	var (
		in      planInput
		dryRun  bool
		noDedup bool
	)

	cmd := &cobra.Command{
		Use:     "rename",
		Short:   MsgRenameShort,
		Long:    MsgRenameLong,
		Example: MsgRenameExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}

			fsys := filesystem.NewOS()
			loaded, err := in.load(cmd, fsys)
			if err != nil {
				return err
			}

			var recorder renamer.Recorder
			if !dryRun {
				l, err := s.openLedger()
				if err != nil {
					return err
				}
				defer func() { _ = l.Close() }()
				recorder = l
			}

			opts := renamer.Options{
				DryRun:     dryRun,
				SmartDedup: s.cfg.Rename.SmartDedup && !noDedup,
			}

			log.Info().
				Str("base", loaded.base).
				Bool("dry_run", opts.DryRun).
				Bool("smart_dedup", opts.SmartDedup).
				Msg("Renaming from plan")

			result, runErr := renamer.New(fsys, recorder).RenameBatch(loaded.tree, loaded.base, opts)
			if result == nil {
				return runErr
			}

			err = s.renderer.RenderResult(&display.RenameReport{
				Base:         loaded.base,
				Counts:       display.CountTree(loaded.tree),
				Result:       result,
				Fixes:        loaded.fixes,
				MaxConflicts: s.cfg.Display.MaxConflicts,
			})
			if err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if result.FailedCount > 0 {
				return errors.Newf(errors.ErrRename, MsgErrRenameFailures,
					result.FailedCount, result.FailedCount+result.SuccessCount)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&noDedup, "no-dedup", false, MsgFlagNoDedup)

	return cmd
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	var (
		in      planInput
		noDedup bool
	)

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}

			fsys := filesystem.NewOS()
			loaded, err := in.load(cmd, fsys)
			if err != nil {
				return err
			}

			valid, err := validator.New(fsys).ValidOperations(loaded.tree, loaded.base, s.cfg.Rename.SmartDedup && !noDedup)
			if err != nil {
				return err
			}

			return s.renderer.RenderResult(&display.CheckReport{
				Base:       loaded.base,
				Counts:     display.CountTree(loaded.tree),
				Fixes:      loaded.fixes,
				Proposed:   renamer.CollectOperations(loaded.tree, loaded.base),
				Operations: valid.Operations,
				Conflicts:  valid.Conflicts,
				Notices:    valid.Notices,
			})
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&noDedup, "no-dedup", false, MsgFlagNoDedup)

	return cmd
}
