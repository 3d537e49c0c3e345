// Package errors carries sceneview's coded error type. Every package returns
// *Error values so callers can branch on Code instead of message text.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error
type Code string

const (
	// CodeUnknown is used for foreign errors wrapped without a code
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument means the caller passed something unusable,
	// such as a nil event target or a payload type clash on a channel
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound means a scene, level, parameter key or stored record is missing
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists means a unique name was registered twice
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal means something inside sceneview failed, e.g. a subscriber panicked
	CodeInternal Code = "internal"

	// CodeUnavailable means an external collaborator (loader, store) could not be reached
	CodeUnavailable Code = "unavailable"

	// CodeValidation means a value fell outside its documented range or enum
	CodeValidation Code = "validation"
)

// Error is an error with a code, an optional cause and free-form metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error returns the message, followed by the cause when present
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a metadata value and returns the same error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err. The code of a wrapped *Error is preserved.
// Wrap returns nil for a nil err; callers returning the result as an
// error interface must check err first.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var svErr *Error
	if errors.As(err, &svErr) {
		return &Error{
			Code:    svErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(svErr.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf wraps err with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and forces the code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Unavailablef creates a formatted unavailable error
func Unavailablef(format string, args ...any) *Error {
	return Newf(CodeUnavailable, format, args...)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Validationf creates a formatted validation error
func Validationf(format string, args ...any) *Error {
	return Newf(CodeValidation, format, args...)
}

// Is reports whether any *Error in err's chain carries code
func Is(err error, code Code) bool {
	var svErr *Error
	if errors.As(err, &svErr) {
		return svErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument reports whether err is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return Is(err, CodeValidation)
}

// IsInternal reports whether err is an internal error
func IsInternal(err error) bool {
	return Is(err, CodeInternal)
}

// GetCode returns the code of the first *Error in err's chain
func GetCode(err error) Code {
	var svErr *Error
	if errors.As(err, &svErr) {
		return svErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the first *Error in err's chain
func GetMeta(err error) map[string]any {
	var svErr *Error
	if errors.As(err, &svErr) {
		return svErr.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
