// Package binerr defines the error kinds shared by all binkit operations.
//
// Every public operation returns one of these kinds wrapped with context;
// callers classify with errors.Is and are responsible for presentation.
package binerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a malformed or semantically empty argument,
	// such as an empty search pattern or an unknown format keyword.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse marks a well-formed-looking value that fails domain parsing,
	// such as a bad regex or a malformed number literal.
	ErrParse = errors.New("parse error")

	// ErrInvalidRange marks an offset or range outside the buffer's bounds,
	// or an inverted range (start >= end).
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnsupported marks an operation the toolkit does not implement.
	ErrUnsupported = errors.New("operation not supported")
)

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Parsef wraps ErrParse with a formatted message.
func Parsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// InvalidRangef wraps ErrInvalidRange with a formatted message.
func InvalidRangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRange, fmt.Sprintf(format, args...))
}

// Unsupportedf wraps ErrUnsupported with a formatted message.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}
