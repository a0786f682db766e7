package request

import (
	"errors"
	"fmt"
)

// ErrorKind classifies compile errors so callers can assemble a user-facing
// error list without string matching.
type ErrorKind string

const (
	ErrNoOperation        ErrorKind = "NO_OPERATION"
	ErrMultipleOperations ErrorKind = "MULTIPLE_OPERATIONS"
	ErrUnknownFragment    ErrorKind = "UNKNOWN_FRAGMENT"
	ErrFragmentCycle      ErrorKind = "FRAGMENT_CYCLE"
	ErrUnknownDirective   ErrorKind = "UNKNOWN_DIRECTIVE"
	ErrUnknownField       ErrorKind = "UNKNOWN_FIELD"
	ErrArgument           ErrorKind = "ARGUMENT"
)

// Error is a structured compile error. A single Error aborts compilation of
// the whole document; no partial request tree is produced.
type Error struct {
	Kind    ErrorKind
	Name    string // offending fragment, directive, field or argument name
	Message string
}

func (e *Error) Error() string { return e.Message }

func errorf(kind ErrorKind, name, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a compile error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}
