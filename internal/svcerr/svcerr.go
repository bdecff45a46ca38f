// Package svcerr provides the coded error type shared by all services.
package svcerr

import (
	"errors"
	"fmt"
)

// ErrStorage marks persistence faults. Errors built with Storage match it
// via errors.Is, letting the transport layer report them as server errors
// instead of client errors.
var ErrStorage = errors.New("storage failure")

// Error carries a machine-readable code of the form "package.operation.reason"
// alongside the underlying cause.
type Error struct {
	code    string
	err     error
	storage bool
}

// New builds a coded service error for the given operation and reason.
func New(operation, reason string, cause error) *Error {
	return &Error{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// Storage builds a coded error for a persistence fault. The result matches
// ErrStorage under errors.Is.
func Storage(operation, reason string, cause error) *Error {
	return &Error{code: fmt.Sprintf("%s.%s", operation, reason), err: cause, storage: true}
}

// Is lets errors.Is recognize storage-class errors through ErrStorage.
func (e *Error) Is(target error) bool {
	return target == ErrStorage && e.storage
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the machine-readable error code.
func (e *Error) Code() string {
	return e.code
}
