// Package markdown renders logical tables as GitHub-flavored pipe tables
// with image reference links appended.
package markdown

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
)

// lineBreak is the visible marker substituted for newlines inside a
// cell, since table rows must stay on one physical line.
const lineBreak = "<br>"

// Generate renders a sheet as Markdown: a title, the pipe table, and one
// image reference per extracted image in ordinal order. Output is
// deterministic; identical input produces byte-identical text. An empty
// table (header only) still yields header and separator rows, and a
// table with no columns at all yields an explicit no-data marker.
func Generate(sheetName string, table models.Table, images []models.ExtractedImage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", sheetName)

	if table.ColumnCount() == 0 {
		b.WriteString("\n_No data_\n")
	} else {
		b.WriteString("\n")
		writeRow(&b, table.Headers)
		writeSeparator(&b, table.ColumnCount())
		for _, row := range table.Rows {
			writeRow(&b, row)
		}
	}

	for _, img := range images {
		fmt.Fprintf(&b, "\n![%s](./%s)\n", img.AltText(), img.FileName())
	}

	return b.String()
}

// writeRow emits one pipe-delimited table row.
func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(EscapeCell(cell))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// writeSeparator emits the header separator row, one --- cell per column.
func writeSeparator(b *strings.Builder, columns int) {
	b.WriteString("|")
	for i := 0; i < columns; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

// EscapeCell makes a cell value safe for a pipe table: literal pipes are
// escaped and embedded newlines become a visible line-break marker.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", lineBreak)
	s = strings.ReplaceAll(s, "\n", lineBreak)
	s = strings.ReplaceAll(s, "\r", lineBreak)
	return strings.ReplaceAll(s, "|", `\|`)
}
