// Package models defines data structures for spreadsheet conversion.
package models

// Table is the in-memory rectangular representation of one sheet's or one
// CSV file's data, independent of the source format. The first row of the
// source becomes Headers; every remaining row becomes an entry in Rows.
type Table struct {
	// Headers is the first row of the source data.
	Headers []string
	// Rows contains the data rows in original order.
	Rows [][]string
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Normalize makes every row exactly ColumnCount cells wide. Short rows are
// padded with empty cells; long rows are truncated to header width. It
// returns the number of rows that were truncated so callers can record a
// warning for dropped trailing cells.
func (t *Table) Normalize() (truncated int) {
	width := t.ColumnCount()
	for i, row := range t.Rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > width:
			t.Rows[i] = row[:width]
			truncated++
		}
	}
	return truncated
}
