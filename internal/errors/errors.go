package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error

	// Optional context for one-line user messages
	Field    string
	Index    *int
	Expected interface{}
	Actual   interface{}
}

func (e *AppError) Error() string {
	msg := e.Message
	if ctx := e.context(); ctx != "" {
		msg = msg + " (" + ctx + ")"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) context() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Index != nil {
		parts = append(parts, fmt.Sprintf("index=%d", *e.Index))
	}
	if e.Expected != nil {
		parts = append(parts, fmt.Sprintf("expected=%v", e.Expected))
	}
	if e.Actual != nil {
		parts = append(parts, fmt.Sprintf("actual=%v", e.Actual))
	}
	return strings.Join(parts, ", ")
}

// WithField records which input field the error refers to
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// WithIndex records the offending element position
func (e *AppError) WithIndex(index int) *AppError {
	e.Index = &index
	return e
}

// WithMismatch records expected vs. actual values
func (e *AppError) WithMismatch(expected, actual interface{}) *AppError {
	e.Expected = expected
	e.Actual = actual
	return e
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		clone := *appErr
		clone.Code = code
		return &clone
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeExternalService    = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidShape       = "INVALID_SHAPE"
	CodeUnsupportedPayload = "UNSUPPORTED_PAYLOAD"
	CodeRowCountMismatch   = "ROW_COUNT_MISMATCH"
	CodeColumnMismatch     = "COLUMN_MISMATCH"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InvalidShape reports input a builder cannot interpret
func InvalidShape(message string) *AppError {
	return New(CodeInvalidShape, message)
}

// UnsupportedPayload reports a payload the dispatcher does not recognise
func UnsupportedPayload(message string) *AppError {
	return New(CodeUnsupportedPayload, message)
}

func RowCountMismatch(expected, actual int) *AppError {
	return New(CodeRowCountMismatch, fmt.Sprintf("expected %d rows, got %d", expected, actual)).
		WithField("rows").
		WithMismatch(expected, actual)
}

func ColumnMismatch(expected, actual []string) *AppError {
	return New(CodeColumnMismatch, "model output headers do not match requested columns").
		WithField("headers").
		WithMismatch(expected, actual)
}
