// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/ui/display"
	"github.com/arthur-debert/trename/pkg/ui/styles"
	"github.com/arthur-debert/trename/pkg/ui/text"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output: lipgloss styles for summaries
// and pterm tables for lists.
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	var err error
	switch v := result.(type) {
	case *display.RenameReport:
		err = writeRename(&b, v)
	case *display.CheckReport:
		err = writeCheck(&b, v)
	case *display.UndoReport:
		err = writeUndo(&b, v)
	case *display.HistoryReport:
		err = writeHistory(&b, v)
	case *display.ClearReport:
		fmt.Fprintln(&b, styles.Render(styles.Success,
			fmt.Sprintf("Deleted %d batches, kept %d", v.Deleted, v.Kept)))
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "%s %v\n", styles.Render(styles.Error, "Error:"), err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func header(b *strings.Builder, title string) {
	fmt.Fprintln(b, styles.Render(styles.Header, title))
}

// table renders rows (first row is the header) with pterm.
func table(b *strings.Builder, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(b, out)
	return nil
}

func writeRename(b *strings.Builder, v *display.RenameReport) error {
	fmt.Fprintln(b, styles.Render(styles.Muted, "Plan: "+text.Counts(v.Counts)))
	writeFixes(b, v.Fixes)
	res := v.Result
	if res == nil {
		return nil
	}

	summary := styles.Success
	if res.FailedCount > 0 {
		summary = styles.Error
	} else if res.SkippedCount > 0 {
		summary = styles.Warning
	}
	fmt.Fprintln(b, styles.Render(summary, text.Summary(res)))

	if res.DryRun && len(res.Operations) > 0 {
		header(b, "Would rename")
		if err := opsTable(b, res.Operations); err != nil {
			return err
		}
	}

	conflicts, more := display.Limit(res.Conflicts, v.MaxConflicts)
	if err := conflictTable(b, conflicts, more); err != nil {
		return err
	}
	if err := noticeTable(b, res.Notices); err != nil {
		return err
	}

	if len(res.Failures) > 0 {
		header(b, fmt.Sprintf("Failures (%d)", len(res.Failures)))
		rows := [][]string{{"Source", "Target", "Reason"}}
		for _, f := range res.Failures {
			rows = append(rows, []string{f.OriginalPath, f.NewPath, styles.Render(styles.Error, f.Reason)})
		}
		if err := table(b, rows); err != nil {
			return err
		}
	}

	if res.OperationID != "" {
		fmt.Fprintf(b, "Undo with: trename undo %s\n", styles.Render(styles.BatchID, res.OperationID))
	}
	return nil
}

func writeCheck(b *strings.Builder, v *display.CheckReport) error {
	fmt.Fprintln(b, styles.Render(styles.Muted, "Plan: "+text.Counts(v.Counts)))
	writeFixes(b, v.Fixes)
	if len(v.Proposed) > 0 {
		header(b, fmt.Sprintf("Proposed (%d)", len(v.Proposed)))
		if err := opsTable(b, v.Proposed); err != nil {
			return err
		}
	}
	if len(v.Operations) > 0 {
		header(b, fmt.Sprintf("Planned (%d)", len(v.Operations)))
		if err := opsTable(b, v.Operations); err != nil {
			return err
		}
	}
	if err := conflictTable(b, v.Conflicts, 0); err != nil {
		return err
	}
	if err := noticeTable(b, v.Notices); err != nil {
		return err
	}
	if len(v.Conflicts) == 0 {
		fmt.Fprintln(b, styles.Render(styles.Success, "No conflicts"))
	}
	return nil
}

func writeFixes(b *strings.Builder, fixes []string) {
	if len(fixes) == 0 {
		return
	}
	header(b, fmt.Sprintf("Fixed (%d)", len(fixes)))
	for _, f := range fixes {
		fmt.Fprintln(b, "  "+styles.Render(styles.Muted, f))
	}
}

func opsTable(b *strings.Builder, ops []types.Operation) error {
	rows := [][]string{{"Source", "Target"}}
	for _, op := range ops {
		rows = append(rows, []string{op.OriginalPath, op.NewPath})
	}
	return table(b, rows)
}

func conflictTable(b *strings.Builder, conflicts []types.Conflict, more int) error {
	if len(conflicts) == 0 && more == 0 {
		return nil
	}
	header(b, fmt.Sprintf("Conflicts (%d)", len(conflicts)+more))
	rows := [][]string{{"Kind", "Source", "Message"}}
	for _, c := range conflicts {
		rows = append(rows, []string{styles.Render(styles.Kind, string(c.Kind)), c.SrcPath, c.Message})
	}
	if err := table(b, rows); err != nil {
		return err
	}
	if more > 0 {
		fmt.Fprintln(b, styles.Render(styles.Muted, fmt.Sprintf("... and %d more", more)))
	}
	return nil
}

func noticeTable(b *strings.Builder, notices []types.Notice) error {
	if len(notices) == 0 {
		return nil
	}
	header(b, fmt.Sprintf("Notices (%d)", len(notices)))
	rows := [][]string{{"Kind", "Source", "Message"}}
	for _, n := range notices {
		rows = append(rows, []string{string(n.Kind), n.SrcPath, n.Message})
	}
	return table(b, rows)
}

func writeUndo(b *strings.Builder, v *display.UndoReport) error {
	res := v.Result
	if res.Rejected() {
		fmt.Fprintln(b, styles.Render(styles.Warning, "Nothing undone: "+res.FailedItems[0].Reason))
		return nil
	}

	style := styles.Success
	if res.FailedCount > 0 {
		style = styles.Warning
	}
	fmt.Fprintf(b, "%s %s\n",
		styles.Render(styles.BatchID, res.BatchID),
		styles.Render(style, fmt.Sprintf("restored %d, failed %d", res.SuccessCount, res.FailedCount)))

	if len(res.FailedItems) == 0 {
		return nil
	}
	rows := [][]string{{"Current", "Original", "Reason"}}
	for _, f := range res.FailedItems {
		rows = append(rows, []string{f.NewPath, f.OriginalPath, f.Reason})
	}
	return table(b, rows)
}

func writeHistory(b *strings.Builder, v *display.HistoryReport) error {
	if len(v.Batches) == 0 {
		fmt.Fprintln(b, styles.Render(styles.Muted, "No rename history"))
		return nil
	}
	rows := [][]string{{"ID", "Time", "Ops", "Description", "Undone"}}
	for _, batch := range v.Batches {
		undone := ""
		if batch.Undone {
			undone = styles.Render(styles.Muted, "yes")
		}
		rows = append(rows, []string{
			styles.Render(styles.BatchID, batch.ID),
			batch.Timestamp.Local().Format(text.TimeLayout),
			strconv.Itoa(len(batch.Operations)),
			batch.Description,
			undone,
		})
	}
	return table(b, rows)
}
