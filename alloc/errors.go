package alloc

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrIO                = errors.New("i/o error")
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Error carries the operation, the offending key (if any) and the violated
// constraint, enough for a one-line diagnostic.
type Error struct {
	Op   string // e.g. "AddStudent", "Load"
	Key  string // student key or batch name; empty when not applicable
	Kind error  // one of the Err* sentinels
	Msg  string
	Err  error // underlying cause (optional)
}

func (e *Error) Error() string {
	subject := e.Op
	if e.Key != "" {
		subject = fmt.Sprintf("%s %q", e.Op, e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", subject, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", subject, e.Msg)
}

// Unwrap returns the underlying cause, falling back to the kind.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is reports whether target is the error's kind or matches its cause.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func newError(op, key string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Key: key, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapIO wraps a storage failure as an ErrIO for the given operation and location.
func WrapIO(op, location string, err error) *Error {
	return &Error{Op: op, Key: location, Kind: ErrIO, Msg: "storage failure", Err: err}
}
