// Package sheetmd converts spreadsheet files (Excel workbooks and CSV)
// into per-sheet Markdown documents with embedded images extracted as
// sibling files.
package sheetmd

// Options configures conversion behavior.
type Options struct {
	// Encoding forces a CSV text encoding (e.g. "ISO-8859-1") instead of
	// auto-detecting it. Empty means detect.
	Encoding string
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{}
}
