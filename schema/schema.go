// Package schema defines the structured validation error reported by the
// IP library and bus slave loaders.
package schema

import "fmt"

// Error reports a missing or malformed field in one of the input documents.
// It names the document, the offending entry, and the field so that the
// input can be fixed without inspecting generator internals.
type Error struct {
	Document string
	Entry    string
	Field    string
	Reason   string
}

func (e *Error) Error() string {
	switch {
	case e.Entry == "" && e.Field == "":
		return fmt.Sprintf("%s: %s", e.Document, e.Reason)
	case e.Field == "":
		return fmt.Sprintf("%s: entry %q: %s", e.Document, e.Entry, e.Reason)
	default:
		return fmt.Sprintf("%s: entry %q: field %q: %s", e.Document, e.Entry, e.Field, e.Reason)
	}
}

// Errorf builds an Error with a formatted reason.
func Errorf(document, entry, field, format string, a ...interface{}) *Error {
	return &Error{
		Document: document,
		Entry:    entry,
		Field:    field,
		Reason:   fmt.Sprintf(format, a...),
	}
}
