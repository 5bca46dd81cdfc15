package enrich

import (
	"errors"
	"fmt"
)

// SourceReadError reports a failed byte-range read during comment-mark
// enrichment. A mark comment without its text is meaningless output, so
// this path has no graceful degradation: the error aborts the whole
// enrichment run.
type SourceReadError struct {
	// Path is the source file the range was read from.
	Path string

	// Offset and Length delimit the requested byte range.
	Offset int
	Length int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read %s [%d,%d): %v", e.Path, e.Offset, e.Offset+e.Length, e.Err)
}

// Unwrap returns the underlying failure.
func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// IsSourceReadError reports whether err is a SourceReadError, unwrapping as
// needed.
func IsSourceReadError(err error) bool {
	var sre *SourceReadError
	return errors.As(err, &sre)
}
