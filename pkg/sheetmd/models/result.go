package models

import (
	"strings"
	"unicode"
)

// ArtifactKind classifies a produced output file.
type ArtifactKind string

const (
	// ArtifactMarkdown is a generated Markdown document.
	ArtifactMarkdown ArtifactKind = "markdown"
	// ArtifactImage is an extracted image file.
	ArtifactImage ArtifactKind = "image"
)

// Artifact describes one file written during conversion.
type Artifact struct {
	// Path is the output path relative to the output root.
	Path string `json:"path"`
	// Size is the human-readable file size.
	Size string `json:"size"`
	// Kind is the artifact kind (markdown or image).
	Kind ArtifactKind `json:"kind"`
}

// Warning records a non-fatal problem encountered while converting one
// sheet, such as a skipped embedded image or truncated trailing cells.
type Warning struct {
	// Sheet is the sheet name the warning applies to, if any.
	Sheet string `json:"sheet,omitempty"`
	// Stage is the pipeline stage that recorded the warning.
	Stage string `json:"stage"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// ConversionError associates an input file with a fatal failure message.
// Fatal here means fatal for that file only; sibling files in the same
// batch are unaffected.
type ConversionError struct {
	// Input is the input file path the error belongs to.
	Input string `json:"input"`
	// Message is the human-readable failure description.
	Message string `json:"message"`
}

// FileResult is the outcome of converting a single input file.
type FileResult struct {
	// Input is the input file path.
	Input string `json:"input"`
	// Artifacts lists the files written for this input.
	Artifacts []Artifact `json:"artifacts"`
	// Warnings lists non-fatal problems recorded during conversion.
	Warnings []Warning `json:"warnings,omitempty"`
}

// BatchResult is the combined outcome of a batch run: the union of all
// per-file artifacts and warnings plus one entry per failed input.
type BatchResult struct {
	// Artifacts lists every file written across the batch.
	Artifacts []Artifact `json:"artifacts"`
	// Warnings lists every warning recorded across the batch.
	Warnings []Warning `json:"warnings,omitempty"`
	// Errors lists per-file fatal failures.
	Errors []ConversionError `json:"errors,omitempty"`
}

// SafeName makes a sheet or file name safe for use as a filename.
// Letters, digits, spaces, hyphens and underscores pass through; every
// other rune becomes an underscore.
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
