// Package errs defines the error taxonomy shared by the content core.
//
// Every failure surfaced by the corpus index, the match engine and the
// cycle scheduler is an *Error carrying one of five codes. Callers branch on
// the code with the Is* helpers or with errors.Is against the sentinel
// values, both of which see through wrapping.
package errs

import (
	"errors"
	"fmt"
)

// Code categorizes a core error.
type Code string

const (
	// CodeValidation indicates a malformed or duplicate-keyed corpus at load time.
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeNotFound indicates an unknown identifier lookup.
	CodeNotFound Code = "NOT_FOUND"

	// CodeOutOfRange indicates a position outside the index bounds.
	CodeOutOfRange Code = "OUT_OF_RANGE"

	// CodeInvalidArgument indicates a rejected call argument (e.g. threshold).
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeInvalidDate indicates date arithmetic outside the supported range.
	CodeInvalidDate Code = "INVALID_DATE"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrValidation      = &Error{Code: CodeValidation}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrOutOfRange      = &Error{Code: CodeOutOfRange}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}
	ErrInvalidDate     = &Error{Code: CodeInvalidDate}
)

// Error is a categorized core error.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Details contains additional context (field names, offending values).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound returns true if err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsOutOfRange returns true if err is an out-of-range error.
func IsOutOfRange(err error) bool { return CodeOf(err) == CodeOutOfRange }

// IsInvalidArgument returns true if err is an invalid-argument error.
func IsInvalidArgument(err error) bool { return CodeOf(err) == CodeInvalidArgument }

// IsInvalidDate returns true if err is an invalid-date error.
func IsInvalidDate(err error) bool { return CodeOf(err) == CodeInvalidDate }

// Validation creates a CodeValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a CodeNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// OutOfRange creates a CodeOutOfRange error.
func OutOfRange(format string, args ...any) *Error {
	return &Error{Code: CodeOutOfRange, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument creates a CodeInvalidArgument error.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// InvalidDate creates a CodeInvalidDate error.
func InvalidDate(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidDate, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns e with key set in Details.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// DetailOf returns the detail key of the first *Error in err's chain, or "".
func DetailOf(err error, key string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details[key]
	}
	return ""
}
