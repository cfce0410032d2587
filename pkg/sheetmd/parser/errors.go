package parser

import "errors"

// ErrUnsupportedFormat indicates the input could not be opened or decoded
// as the format its extension claims (corrupt, password-protected, or a
// different binary layout).
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrMalformedInput indicates structurally inconsistent CSV input for
// which no delimiter yields a usable table.
var ErrMalformedInput = errors.New("malformed input")
