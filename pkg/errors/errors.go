package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Source file errors (1xxx)
	ErrCodeSourceUnavailable ErrorCode = "TBLD1001"
	ErrCodeEmptySource       ErrorCode = "TBLD1002"
	ErrCodeDuplicateColumn   ErrorCode = "TBLD1003"
	ErrCodeSourceRead        ErrorCode = "TBLD1004"
	ErrCodeSheetNotFound     ErrorCode = "TBLD1005"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound   ErrorCode = "TBLD2001"
	ErrCodeConfigInvalid    ErrorCode = "TBLD2002"
	ErrCodeConfigPermission ErrorCode = "TBLD2003"

	// Destination errors (3xxx)
	ErrCodeDestinationUnreachable ErrorCode = "TBLD3001"
	ErrCodeAuthenticationFailed   ErrorCode = "TBLD3002"
	ErrCodeDdlRejected            ErrorCode = "TBLD3003"
	ErrCodeBatchWriteFailed       ErrorCode = "TBLD3004"
	ErrCodeCatalogProbe           ErrorCode = "TBLD3005"
	ErrCodeSQLTimeout             ErrorCode = "TBLD3006"

	// Validation errors (4xxx)
	ErrCodeValidationFailed ErrorCode = "TBLD4001"
	ErrCodeInvalidInput     ErrorCode = "TBLD4002"
	ErrCodeRequiredField    ErrorCode = "TBLD4003"

	// Credential errors (5xxx)
	ErrCodeCredentialNotFound ErrorCode = "TBLD5001"
	ErrCodeEncryptionFailed   ErrorCode = "TBLD5002"

	// System errors (9xxx)
	ErrCodeInternal      ErrorCode = "TBLD9001"
	ErrCodeFileOperation ErrorCode = "TBLD9002"
	ErrCodeUnknown       ErrorCode = "TBLD9999"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Run aborted, destination may hold partial data
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, run terminates
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Component   string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	if e.Component != "" {
		b.WriteString(fmt.Sprintf("[%s] %s (%s): %s", e.Code, e.Severity, e.Component, e.Message))
	} else {
		b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context and component
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
		appErr.Component = ae.Component
	}

	return appErr
}

// WithComponent records the component that raised the error
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// SourceError creates a source-file error
func SourceError(code ErrorCode, message string, path string, cause error) *AppError {
	err := New(code, message)
	err.Cause = cause
	return err.WithComponent("source").
		WithContext("path", path)
}

// ConnectionError creates a destination-connection error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeDestinationUnreachable, message).
		WithComponent("snowflake").
		WithSuggestions(
			"Check your network connection",
			"Verify the Snowflake account identifier",
			"Check firewall settings",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'tabload config init' to write a starter profile",
		)
}

// DdlError creates a DDL-rejection error
func DdlError(message string, statement string, cause error) *AppError {
	err := Wrap(cause, ErrCodeDdlRejected, message).
		WithComponent("schema").
		WithContext("statement", truncateString(statement, 200))

	errStr := ""
	if cause != nil {
		errStr = cause.Error()
	}
	if strings.Contains(errStr, "permission") || strings.Contains(errStr, "privilege") {
		_ = err.WithSuggestions(
			"Verify the role has CREATE TABLE privileges on the target schema",
			"Contact your Snowflake administrator",
		)
	}

	return err
}

// BatchWriteError creates a bulk-write error
func BatchWriteError(message string, batchIndex int, cause error) *AppError {
	err := Wrap(cause, ErrCodeBatchWriteFailed, message).
		WithComponent("loader").
		WithContext("batch_index", batchIndex)

	errStr := ""
	if cause != nil {
		errStr = cause.Error()
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		err.Code = ErrCodeSQLTimeout
		_ = err.WithSuggestions(
			"Increase --timeout-seconds or set it to 0 for no timeout",
			"Check Snowflake warehouse size",
		)
	} else if strings.Contains(errStr, "Numeric value") || strings.Contains(errStr, "is not recognized") {
		_ = err.WithSuggestions(
			"A value beyond the sampled rows did not match the inferred column type",
			"Increase --sample-rows or force text columns with --varchar-length max",
		)
	}

	return err
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetComponent extracts the originating component from an error
func GetComponent(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Component
	}
	return ""
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
