package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDuplicate  ErrorType = "duplicate"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// ForgeError is a structured error type with context.
type ForgeError struct {
	Type    ErrorType
	Code    string
	Message string
	// Entry is the root name of the offending template entry, if any.
	Entry    string
	FilePath string
	Cause    error
	Context  map[string]interface{}
}

// Error implements the error interface.
func (e *ForgeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath+":")
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ForgeError) Is(target error) bool {
	var t *ForgeError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ForgeError) WithContext(key string, value interface{}) *ForgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the file involved.
func (e *ForgeError) WithPath(path string) *ForgeError {
	e.FilePath = path

	return e
}

// WithEntry records the offending root name.
func (e *ForgeError) WithEntry(entry string) *ForgeError {
	e.Entry = entry

	return e
}

// Common error codes.
const (
	ErrCodeEmptyName       = "ERR_EMPTY_NAME"
	ErrCodeDuplicateName   = "ERR_DUPLICATE_NAME"
	ErrCodeIconNotFound    = "ERR_ICON_NOT_FOUND"
	ErrCodeZeroTarget      = "ERR_ZERO_TARGET"
	ErrCodeEmptyStat       = "ERR_EMPTY_STAT"
	ErrCodeOrphanHelper    = "ERR_ORPHAN_HELPER"
	ErrCodeStageStructure  = "ERR_STAGE_STRUCTURE"
	ErrCodeInvalidName     = "ERR_INVALID_NAME"
	ErrCodeInvalidPath     = "ERR_INVALID_PATH"
	ErrCodeInvalidVersion  = "ERR_INVALID_VERSION"
	ErrCodeFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrCodeReadFailed      = "ERR_READ_FAILED"
	ErrCodeWriteFailed     = "ERR_WRITE_FAILED"
	ErrCodeParseFailed     = "ERR_PARSE_FAILED"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeInternalError   = "ERR_INTERNAL"
	ErrCodeProtectedDelete = "ERR_PROTECTED_DELETE"
)

// Error creation functions

// NewValidationError creates a validation error about a single entry.
func NewValidationError(code, entry, message string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
		Entry:   entry,
	}
}

// NewDuplicateError reports a root name that already exists in collection.
func NewDuplicateError(collection, name string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeDuplicate,
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("%s '%s' already exists", collection, name),
		Entry:   name,
	}
}

// NewIOError creates an I/O error. The path is always reported.
func NewIOError(code, path, message string, cause error) *ForgeError {
	return &ForgeError{
		Type:     ErrorTypeIO,
		Code:     code,
		Message:  message,
		FilePath: path,
		Cause:    cause,
	}
}

// NewNotFoundError creates a not found error for a path.
func NewNotFoundError(path, message string) *ForgeError {
	return &ForgeError{
		Type:     ErrorTypeNotFound,
		Code:     ErrCodeFileNotFound,
		Message:  message,
		FilePath: path,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func hasType(err error, t ErrorType) bool {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Type == t
	}

	return false
}

// IsValidation checks if an error is a structural rule violation.
func IsValidation(err error) bool { return hasType(err, ErrorTypeValidation) }

// IsDuplicate checks if an error is a duplicate name error.
func IsDuplicate(err error) bool { return hasType(err, ErrorTypeDuplicate) }

// IsNotFound checks if an error reports a missing file or icon.
func IsNotFound(err error) bool { return hasType(err, ErrorTypeNotFound) }

// IsIO checks if an error is a read, write or parse failure.
func IsIO(err error) bool { return hasType(err, ErrorTypeIO) }

// CodeOf returns the code of a ForgeError, or "" for other errors.
func CodeOf(err error) string {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Code
	}

	return ""
}

// EntryOf returns the offending root name carried by err, if any.
func EntryOf(err error) string {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Entry
	}

	return ""
}

// ErrorHandler provides centralized error reporting for commands.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error with the fields appropriate to its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var fe *ForgeError
	if !errors.As(err, &fe) {
		h.logger.Error(ctx, err, "Unhandled error occurred")

		return
	}

	switch fe.Type {
	case ErrorTypeValidation, ErrorTypeDuplicate:
		h.logger.Warn(ctx, fe, "Template rejected",
			"type", fe.Type,
			"code", fe.Code,
			"entry", fe.Entry)
	case ErrorTypeIO, ErrorTypeNotFound:
		h.logger.Error(ctx, fe, "File operation failed",
			"type", fe.Type,
			"code", fe.Code,
			"file", fe.FilePath)
	default:
		h.logger.Error(ctx, fe, "Error occurred",
			"type", fe.Type,
			"code", fe.Code)
	}
}
