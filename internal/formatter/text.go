package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/pharmaseed/internal/schema"
)

// TextFormatter formats a verification report as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the report
func (f *TextFormatter) Format(r *schema.Report) error {
	if _, err := fmt.Fprintf(f.writer, "ENGINE %s\n", r.Engine); err != nil {
		return err
	}

	for _, table := range r.Tables {
		_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		f.formatTable(table)
	}

	_, _ = fmt.Fprintln(f.writer)
	if r.OK() {
		_, err := fmt.Fprintln(f.writer, "STATUS ok")
		return err
	}

	_, _ = fmt.Fprintf(f.writer, "STATUS %d problem(s)\n", len(r.Problems))
	for _, p := range r.Problems {
		if _, err := fmt.Fprintf(f.writer, "  - %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatTable(table schema.Table) {
	rowsStr := ""
	if table.Rows != nil {
		rowsStr = fmt.Sprintf(" (%d rows)", *table.Rows)
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, rowsStr)

	if len(table.Columns) == 0 {
		_, _ = fmt.Fprintln(f.writer, "  (missing)")
		return
	}

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatColumn(col))
	}
}

func formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", col.Type}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if col.DefaultValue != nil {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *col.DefaultValue))
	}

	return strings.Join(parts, " ")
}
