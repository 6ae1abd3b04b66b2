package rbfmt

import (
	"errors"
	"fmt"
)

// Error kinds. Every decode failure wraps exactly one of these.
var (
	ErrTruncated       = errors.New("marshal: unexpected end of data")
	ErrMalformedLength = errors.New("marshal: malformed length")
	ErrMalformed       = errors.New("marshal: malformed data")
	ErrVersionMismatch = errors.New("marshal: version mismatch")
	ErrUnsupportedTag  = errors.New("marshal: unsupported tag")
	ErrDepthExceeded   = errors.New("marshal: nesting too deep")
)

// Error is a positioned decode failure.
type Error struct {
	Kind   error
	Offset int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at offset 0x%x", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%v at offset 0x%x: %s", e.Kind, e.Offset, e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// VersionError reports a header that is not Marshal 4.8.
type VersionError struct {
	Expected []byte
	Actual   []byte
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%v: expected %d.%d, got % x", ErrVersionMismatch, e.Expected[0], e.Expected[1], e.Actual)
}

func (e *VersionError) Unwrap() error { return ErrVersionMismatch }
