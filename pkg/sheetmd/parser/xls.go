package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/shakinm/xlsReader/xls"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
)

// ReadXLS reads a legacy binary (.xls, BIFF) workbook. The BIFF reader
// panics on some malformed streams, so the whole read is wrapped in a
// recover that surfaces as an unsupported-format error.
func ReadXLS(path string) (sheets []models.Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets = nil
			err = fmt.Errorf("%w: xls decode panic: %v", ErrUnsupportedFormat, r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil {
			continue
		}

		numRows := sheet.GetNumberRows()
		rows := make([][]string, 0, numRows)
		for rowIdx := 0; rowIdx < numRows; rowIdx++ {
			row, err := sheet.GetRow(rowIdx)
			if err != nil || row == nil {
				rows = append(rows, nil)
				continue
			}
			cols := row.GetCols()
			cells := make([]string, len(cols))
			for colIdx, cell := range cols {
				cells[colIdx] = strings.TrimRight(cell.GetString(), " ")
			}
			rows = append(rows, cells)
		}

		sheets = append(sheets, models.Sheet{
			Name:  sheet.GetName(),
			Table: tableFromCells(rows),
		})
	}

	return sheets, nil
}
