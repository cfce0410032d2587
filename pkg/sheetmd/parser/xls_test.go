package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadXLSNotAWorkbook(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bogus.xls")
	if err := os.WriteFile(tmpFile, []byte("plain text, not BIFF"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := ReadXLS(tmpFile)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadXLSTruncatedCompoundFile(t *testing.T) {
	// A valid compound-file signature followed by garbage. Whether the
	// BIFF reader errors or panics, the caller must see a plain error.
	header := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	data := append(header, make([]byte, 64)...)

	tmpFile := filepath.Join(t.TempDir(), "truncated.xls")
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := ReadXLS(tmpFile)
	if err == nil {
		t.Fatal("expected an error for a truncated workbook")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadXLSMissingFile(t *testing.T) {
	_, err := ReadXLS(filepath.Join(t.TempDir(), "missing.xls"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
