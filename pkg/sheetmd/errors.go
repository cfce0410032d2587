package sheetmd

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/parser"
)

// Parse-level sentinels re-exported so callers can match the whole error
// taxonomy through this package.
var (
	// ErrUnsupportedFormat indicates an unreadable or unrecognized input
	// file.
	ErrUnsupportedFormat = parser.ErrUnsupportedFormat
	// ErrMalformedInput indicates structurally inconsistent CSV input.
	ErrMalformedInput = parser.ErrMalformedInput
)

// ErrIOFailure indicates the output directory could not be created or
// written.
var ErrIOFailure = errors.New("output not writable")

// ConvertError represents a fatal error converting one input file.
type ConvertError struct {
	Input string
	Stage string // "open", "table", "images", "write"
	Err   error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("convert %q (%s): %v", e.Input, e.Stage, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// NewConvertError creates a new ConvertError.
func NewConvertError(input, stage string, err error) *ConvertError {
	return &ConvertError{
		Input: input,
		Stage: stage,
		Err:   err,
	}
}
