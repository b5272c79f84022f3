// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/trename/pkg/types"
	"github.com/arthur-debert/trename/pkg/ui/display"
)

// TimeLayout is used for batch timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *display.RenameReport:
		writeRename(&b, v)
	case *display.CheckReport:
		writeCheck(&b, v)
	case *display.UndoReport:
		writeUndo(&b, v)
	case *display.HistoryReport:
		writeHistory(&b, v)
	case *display.ClearReport:
		fmt.Fprintf(&b, "Deleted %d batches, kept %d\n", v.Deleted, v.Kept)
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// Counts formats plan counts, e.g. "6 nodes, 4 ready, 1 pending".
func Counts(c display.TreeCounts) string {
	return fmt.Sprintf("%d nodes, %d ready, %d pending", c.Total, c.Ready, c.Pending)
}

// Summary formats the outcome line of a rename.
func Summary(res *types.RenameResult) string {
	if res.DryRun {
		return fmt.Sprintf("Dry run: would rename %d, skip %d", res.SuccessCount, res.SkippedCount)
	}
	return fmt.Sprintf("Renamed %d, failed %d, skipped %d", res.SuccessCount, res.FailedCount, res.SkippedCount)
}

// Op formats an operation as "src -> tgt".
func Op(op types.Operation) string {
	return op.OriginalPath + " -> " + op.NewPath
}

// UndoHint tells the user how to revert a batch.
func UndoHint(id string) string {
	return fmt.Sprintf("Undo with: trename undo %s", id)
}

func writeRename(b *strings.Builder, v *display.RenameReport) {
	fmt.Fprintf(b, "Plan: %s\n", Counts(v.Counts))
	writeFixes(b, v.Fixes)
	res := v.Result
	if res == nil {
		return
	}
	fmt.Fprintln(b, Summary(res))

	if res.DryRun {
		writeOps(b, "Would rename", res.Operations)
	}
	conflicts, more := display.Limit(res.Conflicts, v.MaxConflicts)
	writeConflicts(b, conflicts, more)
	writeNotices(b, res.Notices)

	if len(res.Failures) > 0 {
		fmt.Fprintf(b, "Failures (%d):\n", len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(b, "  %s: %s\n", Op(f.Operation), f.Reason)
		}
	}
	if res.OperationID != "" {
		fmt.Fprintln(b, UndoHint(res.OperationID))
	}
}

func writeCheck(b *strings.Builder, v *display.CheckReport) {
	fmt.Fprintf(b, "Plan: %s\n", Counts(v.Counts))
	writeFixes(b, v.Fixes)
	writeOps(b, "Proposed", v.Proposed)
	writeOps(b, "Planned", v.Operations)
	writeConflicts(b, v.Conflicts, 0)
	writeNotices(b, v.Notices)
	if len(v.Conflicts) == 0 {
		fmt.Fprintln(b, "No conflicts")
	}
}

func writeOps(b *strings.Builder, title string, ops []types.Operation) {
	if len(ops) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", title, len(ops))
	for _, op := range ops {
		fmt.Fprintf(b, "  %s\n", Op(op))
	}
}

func writeFixes(b *strings.Builder, fixes []string) {
	if len(fixes) == 0 {
		return
	}
	fmt.Fprintf(b, "Fixed (%d):\n", len(fixes))
	for _, f := range fixes {
		fmt.Fprintf(b, "  %s\n", f)
	}
}

func writeConflicts(b *strings.Builder, conflicts []types.Conflict, more int) {
	if len(conflicts) == 0 && more == 0 {
		return
	}
	fmt.Fprintf(b, "Conflicts (%d):\n", len(conflicts)+more)
	for _, c := range conflicts {
		fmt.Fprintf(b, "  [%s] %s: %s\n", c.Kind, c.SrcPath, c.Message)
	}
	if more > 0 {
		fmt.Fprintf(b, "  ... and %d more\n", more)
	}
}

func writeNotices(b *strings.Builder, notices []types.Notice) {
	if len(notices) == 0 {
		return
	}
	fmt.Fprintf(b, "Notices (%d):\n", len(notices))
	for _, n := range notices {
		fmt.Fprintf(b, "  [%s] %s: %s\n", n.Kind, n.SrcPath, n.Message)
	}
}

func writeUndo(b *strings.Builder, v *display.UndoReport) {
	res := v.Result
	if res.Rejected() {
		fmt.Fprintf(b, "Nothing undone: %s\n", res.FailedItems[0].Reason)
		return
	}
	fmt.Fprintf(b, "Undid batch %s: restored %d, failed %d\n", res.BatchID, res.SuccessCount, res.FailedCount)
	for _, f := range res.FailedItems {
		fmt.Fprintf(b, "  %s -> %s: %s\n", f.NewPath, f.OriginalPath, f.Reason)
	}
}

func writeHistory(b *strings.Builder, v *display.HistoryReport) {
	if len(v.Batches) == 0 {
		fmt.Fprintln(b, "No rename history")
		return
	}
	for _, batch := range v.Batches {
		status := ""
		if batch.Undone {
			status = " (undone)"
		}
		fmt.Fprintf(b, "%s  %s  %d ops  %s%s\n",
			batch.ID, batch.Timestamp.Local().Format(TimeLayout), len(batch.Operations), batch.Description, status)
	}
}
