package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Name")
	f.SetCellValue("Sheet1", "B1", "Score")
	f.SetCellValue("Sheet1", "A2", "Alice")
	f.SetCellValue("Sheet1", "B2", 200.5)
	f.SetCellValue("Sheet1", "A3", "Bob")
	f.SetCellValue("Sheet1", "B3", 100)

	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("failed to save test file: %v", err)
	}

	sheets, warnings, err := ReadXLSX(tmpFile)
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	// Every sheet yields an entry in workbook order, empty ones included.
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	if sheets[0].Name != "Sheet1" || sheets[1].Name != "Empty" {
		t.Errorf("unexpected sheet order: %s, %s", sheets[0].Name, sheets[1].Name)
	}

	table := sheets[0].Table
	if table.Headers[0] != "Name" || table.Headers[1] != "Score" {
		t.Errorf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != "200.5" {
		t.Errorf("numeric cell = %q, expected %q", table.Rows[0][1], "200.5")
	}

	if sheets[1].Table.ColumnCount() != 0 {
		t.Errorf("empty sheet should have no columns, got %d", sheets[1].Table.ColumnCount())
	}
}

func TestReadXLSXCorrupt(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "corrupt.xlsx")
	if err := os.WriteFile(tmpFile, []byte("this is not a workbook"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, _, err := ReadXLSX(tmpFile)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// replaceZipEntry rewrites an archive with one entry's content swapped.
func replaceZipEntry(t *testing.T, path, entry string, content []byte) {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range r.File {
		out, err := w.Create(f.Name)
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}
		if f.Name == entry {
			if _, err := out.Write(content); err != nil {
				t.Fatalf("failed to write entry: %v", err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry: %v", err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			t.Fatalf("failed to copy entry: %v", err)
		}
		rc.Close()
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to rewrite archive: %v", err)
	}
}

func TestReadXLSXUnreadableSheetWarns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "ok")
	if _, err := f.NewSheet("Broken"); err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}
	f.SetCellValue("Broken", "A1", "gone")

	tmpFile := filepath.Join(t.TempDir(), "partial.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("failed to save test file: %v", err)
	}

	// Second created sheet lives in sheet2.xml; mangle its XML so row
	// enumeration fails while the workbook itself still opens.
	replaceZipEntry(t, tmpFile, "xl/worksheets/sheet2.xml", []byte("<worksheet"))

	sheets, warnings, err := ReadXLSX(tmpFile)
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}

	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	if sheets[1].Name != "Broken" || sheets[1].Table.ColumnCount() != 0 {
		t.Errorf("unreadable sheet should degrade to an empty table, got %+v", sheets[1])
	}

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Sheet != "Broken" || warnings[0].Stage != "table" {
		t.Errorf("unexpected warning: %+v", warnings[0])
	}
}

func TestTableFromCells(t *testing.T) {
	tests := []struct {
		name       string
		rows       [][]string
		wantCols   int
		wantRows   int
		wantHeader string
	}{
		{"normal", [][]string{{"h1", "h2"}, {"a", "b"}}, 2, 1, "h1"},
		{"header only", [][]string{{"h1", "h2", "h3"}}, 3, 0, "h1"},
		{"empty", nil, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tableFromCells(tt.rows)
			if table.ColumnCount() != tt.wantCols {
				t.Errorf("columns = %d, expected %d", table.ColumnCount(), tt.wantCols)
			}
			if len(table.Rows) != tt.wantRows {
				t.Errorf("rows = %d, expected %d", len(table.Rows), tt.wantRows)
			}
			if tt.wantHeader != "" && table.Headers[0] != tt.wantHeader {
				t.Errorf("header = %q, expected %q", table.Headers[0], tt.wantHeader)
			}
		})
	}
}
