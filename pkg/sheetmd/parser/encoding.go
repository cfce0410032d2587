// Package parser reads spreadsheet and CSV inputs into logical tables
// and extracts embedded workbook images.
package parser

import (
	"bytes"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// detectSampleSize bounds how much of a file is inspected for
	// encoding detection.
	detectSampleSize = 16 * 1024
	// minConfidence is the detector confidence (0-100) below which the
	// result is discarded in favor of the UTF-8 fallback.
	minConfidence = 30
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding inspects a raw byte prefix and returns a best-guess
// charset name plus the detector's confidence. Low-confidence or failed
// detection falls back to UTF-8, so the returned name is always usable.
func DetectEncoding(data []byte) (name string, confidence int) {
	if len(data) > detectSampleSize {
		data = data[:detectSampleSize]
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Confidence < minConfidence {
		return "UTF-8", 0
	}
	return result.Charset, result.Confidence
}

// DecodeText decodes raw bytes using the named charset. Undecodable bytes
// are replaced rather than reported, so decoding never fails. A leading
// UTF-8 BOM is stripped.
func DecodeText(data []byte, charset string) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	dec := decoderFor(charset)
	out, err := dec.Bytes(data)
	if err != nil {
		// Decoder replaced what it could; fall back to sanitized UTF-8
		// for anything truly undecodable.
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

// decoderFor resolves a charset name to a decoder, defaulting to UTF-8
// for unknown names.
func decoderFor(charset string) *encoding.Decoder {
	enc, err := htmlindex.Get(charset)
	if err != nil || enc == nil {
		return unicode.UTF8.NewDecoder()
	}
	return enc.NewDecoder()
}
