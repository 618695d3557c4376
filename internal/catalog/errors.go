package catalog

import (
	"fmt"
	"strings"
)

// NotFoundError means no file in the content tree could be matched to the
// identifier. Tried lists the relative paths that were attempted, in order.
type NotFoundError struct {
	ID    string
	Tried []string
}

func (e *NotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("test %q not found", e.ID)
	}
	return fmt.Sprintf("test %q not found (tried: %s)", e.ID, strings.Join(e.Tried, ", "))
}

// ParseError means a candidate file existed but was not a well-formed test
// document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("test file %s is malformed: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
