package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Placeholder is printed for empty cells.
const Placeholder = "-"

// Table renders rows of data in aligned columns.
type Table struct {
	w       *tabwriter.Writer
	columns int
}

// NewTable creates a table writer and writes the header line.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return &Table{w: tw, columns: len(headers)}
}

// Row appends a row. Short rows are padded with Placeholder so columns
// stay aligned; extra values are kept.
func (t *Table) Row(values ...any) {
	n := max(len(values), t.columns)
	parts := make([]string, n)
	for i := range parts {
		if i < len(values) {
			parts[i] = cell(values[i])
		} else {
			parts[i] = Placeholder
		}
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return Placeholder
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case fmt.Stringer:
		return cell(val.String())
	case string:
		if val == "" {
			return Placeholder
		}
		return val
	default:
		s := fmt.Sprintf("%v", val)
		if s == "" {
			return Placeholder
		}
		return s
	}
}
