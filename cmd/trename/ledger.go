package trename

import (
	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// batchIDCompletion offers the ids of batches that can still be undone.
func batchIDCompletion(g *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := g.load(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		l, err := s.openLedger()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer func() { _ = l.Close() }()

		batches, err := l.History(0)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var ids []string
		for _, b := range batches {
			if !b.Undone {
				ids = append(ids, b.ID+"\t"+b.Description)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

func newUndoCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "undo [id]",
		Short:             MsgUndoShort,
		Long:              MsgUndoLong,
		Example:           MsgUndoExample,
		Args:              cobra.MaximumNArgs(1),
		GroupID:           "ledger",
		ValidArgsFunction: batchIDCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			l, err := s.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			var result types.UndoResult
			if len(args) == 1 {
				log.Info().Str("batch", args[0]).Msg("Undoing batch")
				result, err = l.Undo(args[0])
			} else {
				log.Info().Msg("Undoing latest batch")
				result, err = l.UndoLatest()
			}
			if err != nil {
				return err
			}

			if err := s.renderer.RenderResult(&display.UndoReport{Result: result}); err != nil {
				return err
			}
			if result.FailedCount > 0 {
				return errors.Newf(errors.ErrRename, MsgErrUndoFailures, result.FailedCount)
			}
			return nil
		},
	}
}

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		Long:    MsgHistoryLong,
		Args:    cobra.NoArgs,
		GroupID: "ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNegativeLimit)
			}
			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = s.cfg.Ledger.HistoryLimit
			}

			l, err := s.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			batches, err := l.History(limit)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&display.HistoryReport{Batches: batches})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, MsgFlagLimit)

	return cmd
}

func newClearHistoryCmd(g *globalOptions) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:     "clear-history",
		Short:   MsgClearHistoryShort,
		Long:    MsgClearHistoryLong,
		Args:    cobra.NoArgs,
		GroupID: "ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNegativeKeep)
			}
			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			l, err := s.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			deleted, err := l.ClearHistory(keep)
			if err != nil {
				return err
			}
			remaining, err := l.History(0)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&display.ClearReport{Deleted: deleted, Kept: len(remaining)})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, MsgFlagKeep)

	return cmd
}
