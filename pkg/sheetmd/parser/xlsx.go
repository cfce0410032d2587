package parser

import (
	"fmt"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX opens an Office Open XML workbook and returns one sheet entry
// per workbook tab, preserving sheet order. Empty sheets still produce an
// entry so downstream always emits one document per sheet. A sheet whose
// rows cannot be enumerated degrades to an empty table with a recorded
// warning. Cell values are canonicalized (see CanonicalCell).
func ReadXLSX(path string) ([]models.Sheet, []models.Warning, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	var sheets []models.Sheet
	var warnings []models.Warning
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			rows = nil
			warnings = append(warnings, models.Warning{
				Sheet:   name,
				Stage:   "table",
				Message: fmt.Sprintf("sheet rows unreadable: %v", err),
			})
		}
		sheets = append(sheets, models.Sheet{
			Name:  name,
			Table: tableFromCells(rows),
		})
	}

	return sheets, warnings, nil
}

// tableFromCells builds a logical table from raw sheet rows, first row as
// header, every cell canonicalized.
func tableFromCells(rows [][]string) models.Table {
	if len(rows) == 0 {
		return models.Table{}
	}

	table := models.Table{
		Headers: canonicalRow(rows[0]),
		Rows:    make([][]string, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, canonicalRow(row))
	}
	return table
}

func canonicalRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = CanonicalCell(cell)
	}
	return out
}
