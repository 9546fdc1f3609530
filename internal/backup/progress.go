package backup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Table prints a live per-database progress table. It implements Observer
// and is attached by the CLI; non-interactive callers run without it.
type Table struct {
	w io.Writer
}

// NewTable returns a Table writing to stdout.
func NewTable() *Table {
	return &Table{w: os.Stdout}
}

// NewTableWriter returns a Table writing to w.
func NewTableWriter(w io.Writer) *Table {
	return &Table{w: w}
}

var (
	statusSuccess = color.New(color.FgGreen)
	statusError   = color.New(color.FgRed)
	statusSkipped = color.New(color.FgYellow)
)

func (t *Table) separator() string {
	return fmt.Sprintf("|%s|%s|%s|%s|%s|",
		strings.Repeat("-", 27),
		strings.Repeat("-", 17),
		strings.Repeat("-", 12),
		strings.Repeat("-", 14),
		strings.Repeat("-", 16),
	)
}

// Begin prints the table header.
func (t *Table) Begin() {
	fmt.Fprintf(t.w, "| %-25s | %-15s | %-10s | %-12s | %-12s |\n",
		"Database", "Status", "Time (s)", "Dump Size", "Archive Size")
	fmt.Fprintln(t.w, t.separator())
}

// Row prints one database's outcome as it completes.
func (t *Table) Row(res Result) {
	var statusColor *color.Color
	var dumpCell, archiveCell string
	switch res.Status {
	case StatusSuccess:
		statusColor = statusSuccess
		dumpCell = FormatSize(res.DumpSize)
		archiveCell = FormatSize(res.ArchiveSize)
	case StatusError:
		statusColor = statusError
		dumpCell = "N/A"
		archiveCell = "N/A"
	default:
		statusColor = statusSkipped
		dumpCell = "-"
		archiveCell = "-"
	}

	fmt.Fprintf(t.w, "| %-25s | %s | %-10s | %-12s | %-12s |\n",
		res.Database,
		statusColor.Sprintf("%-15s", res.Status),
		res.ElapsedString(),
		dumpCell,
		archiveCell,
	)
}

// End closes the table.
func (t *Table) End(*Report) {
	fmt.Fprintln(t.w, t.separator())
}
