package convert

import (
	"errors"
	"fmt"
)

// ConversionError represents a failure detected during a conversion run.
//
// Conversion errors include:
//   - Missing input: the input file does not exist
//   - Malformed input: the payload is not parseable JSON or XML
//   - Schema violation: the simplified form breaks the input contract
//   - External schema violation: the generated document fails the
//     published XSD; the artifact is still written so it can be inspected
//   - Unsupported direction: the requested source/target pair has no
//     conversion
type ConversionError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, when one exists.
	Err error
}

// ErrorCode categorizes conversion errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the input file does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeMalformedInput indicates the payload could not be decoded.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// ErrCodeSchemaViolation indicates the simplified form breaks the
	// input contract.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeExternalSchemaViolation indicates the generated document
	// fails the published XSD.
	ErrCodeExternalSchemaViolation ErrorCode = "EXTERNAL_SCHEMA_VIOLATION"

	// ErrCodeUnsupportedDirection indicates the source/target pair has no
	// conversion.
	ErrCodeUnsupportedDirection ErrorCode = "UNSUPPORTED_DIRECTION"
)

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ConversionError) Unwrap() error { return e.Err }

// CodeOf extracts the category of a conversion error, or "" for foreign
// errors. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsExternalSchemaViolation reports whether the generated artifact exists
// but failed the published XSD.
func IsExternalSchemaViolation(err error) bool {
	return CodeOf(err) == ErrCodeExternalSchemaViolation
}

func newError(code ErrorCode, format string, args ...any) *ConversionError {
	return &ConversionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, message string) *ConversionError {
	return &ConversionError{Code: code, Message: message, Err: err}
}
