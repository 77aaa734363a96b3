// Package errs holds the sentinel errors shared by services, repositories and handlers.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrNotConfirmed  = errors.New("not confirmed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRemote        = errors.New("remote store failure")
)

// RemoteError is a store call that was rejected. It matches ErrRemote and unwraps to the cause.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// Remote wraps err as a RemoteError unless it already carries one of the domain
// sentinels, which pass through untouched.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// IsDomain reports whether err is a caller-visible domain error rather than a store failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotConfirmed) ||
		errors.Is(err, ErrRemote)
}

// Invalid returns an ErrInvalidState carrying a message for the caller.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
