package converter

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conversion operations. Every error returned by Convert,
// ConvertRange and Combine matches exactly one of the document level kinds
// through errors.Is.
var (
	// Document level failures.
	ErrSourceNotFound    = errors.New("source document not found or unreadable")
	ErrInvalidChunkRange = errors.New("invalid chunk range")
	ErrEmptyOutput       = errors.New("no pages were produced")
	ErrOutputWrite       = errors.New("output could not be written")

	// Recorded failures that do not abort a conversion by themselves.
	ErrPageProcessing = errors.New("page processing failed")
	ErrChunkMissing   = errors.New("chunk result missing")
)

// Error carries the structured detail of a conversion failure
type Error struct {
	Op   string // "convert", "chunk" or "combine"
	Path string // file the failure relates to
	Page int    // 0-based page index, -1 when not page specific
	Kind error  // one of the sentinel errors
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Page >= 0 {
		fmt.Fprintf(&b, " page %d", e.Page+1)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Page: -1, Kind: kind, Err: err}
}

// PageError records the failure of a single page. It is collected into
// Result.Failures and never aborts the conversion on its own.
type PageError struct {
	Page int    // 0-based page index
	Step string // "size", "render", "encode" or "composite"
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %s failed: %v", e.Page+1, e.Step, e.Err)
}

func (e *PageError) Unwrap() []error {
	return []error{ErrPageProcessing, e.Err}
}
