package sheetmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// InputKind is the closed set of recognized input formats, resolved once
// from the file extension and matched explicitly by the orchestrator.
type InputKind int

const (
	// KindUnsupported is any extension outside the supported set.
	KindUnsupported InputKind = iota
	// KindCSV is a delimited text file.
	KindCSV
	// KindXlsxWorkbook is an Office Open XML workbook.
	KindXlsxWorkbook
	// KindXlsLegacyWorkbook is a legacy binary (BIFF) workbook.
	KindXlsLegacyWorkbook
)

// DetectKind resolves a path's input kind from its extension.
func DetectKind(path string) InputKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindXlsxWorkbook
	case ".xls":
		return KindXlsLegacyWorkbook
	default:
		return KindUnsupported
	}
}

func (k InputKind) String() string {
	switch k {
	case KindCSV:
		return "csv"
	case KindXlsxWorkbook:
		return "xlsx"
	case KindXlsLegacyWorkbook:
		return "xls"
	default:
		return "unsupported"
	}
}

// IsSupported reports whether the path has a supported input extension.
func IsSupported(path string) bool {
	return DetectKind(path) != KindUnsupported
}

// CollectInputs resolves a file or directory path into the list of input
// files to convert. Directories are scanned non-recursively for
// supported extensions; entries are returned in name order. A single
// unsupported file is returned as-is so the batch can report it as a
// per-file error.
func CollectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(path, entry.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}
