// Package apperrors defines the stable error kinds returned by the course progression core.
//
// Every error produced by repositories and services matches exactly one kind with errors.Is,
// so callers (HTTP handlers, integration tests) can classify failures without parsing messages.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a course, lecture or progress record does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned on ownership or role mismatch
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateEnrollment is returned when a student is already enrolled in a course
	ErrDuplicateEnrollment = errors.New("duplicate enrollment")
	// ErrNotEnrolled is returned when a student has no progress record for a course
	ErrNotEnrolled = errors.New("not enrolled")
	// ErrTypeMismatch is returned when an operation is applied to the wrong lecture type
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrLecturesLocked is returned when previous lectures of a course are not completed yet
	ErrLecturesLocked = errors.New("lectures locked")
	// ErrInvalidSubmission is returned for malformed quiz answers
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrInvalidInput is returned for malformed course or lecture payloads
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal is returned on storage failures
	ErrInternal = errors.New("internal error")
)

// Error is an error of a known kind with a caller-facing message
type Error struct {
	kind  error
	msg   string
	cause error
}

// Error returns the message, followed by the cause if any
func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Is reports whether target is the kind of the error
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Message returns the caller-facing message without the cause
func (e *Error) Message() string {
	return e.msg
}

// New creates an error of the given kind
func New(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a storage failure
func Internal(msg string, cause error) error {
	return &Error{kind: ErrInternal, msg: msg, cause: cause}
}

// Kind returns the kind of err, or ErrInternal when err matches no known kind
func Kind(err error) error {
	for _, kind := range []error{
		ErrNotFound,
		ErrForbidden,
		ErrDuplicateEnrollment,
		ErrNotEnrolled,
		ErrTypeMismatch,
		ErrLecturesLocked,
		ErrInvalidSubmission,
		ErrInvalidInput,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// PublicMessage returns a message that is safe to send to a client
func PublicMessage(err error) string {
	if Kind(err) == ErrInternal {
		return "internal server error"
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}
