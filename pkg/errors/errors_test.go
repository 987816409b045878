package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeSourceUnavailable, "Source file missing"),
			expected: "[TBLD1001] ERROR: Source file missing",
		},
		{
			name: "error with component",
			err: New(ErrCodeSourceUnavailable, "Source file missing").
				WithComponent("source"),
			expected: "[TBLD1001] ERROR (source): Source file missing",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeSourceUnavailable, "Source file missing").
				WithSuggestions("Check the path", "Verify read permissions"),
			expected: "[TBLD1001] ERROR: Source file missing\nSuggestions:\n  1. Check the path\n  2. Verify read permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("connection refused")

	appErr := Wrap(baseErr, ErrCodeDestinationUnreachable, "Failed to connect to Snowflake")

	if appErr.Cause != baseErr {
		t.Error("Wrapped error should contain original error as cause")
	}

	if appErr.Code != ErrCodeDestinationUnreachable {
		t.Errorf("Expected code %s, got %s", ErrCodeDestinationUnreachable, appErr.Code)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should unwrap to the original cause")
	}
}

func TestWrapInheritsComponent(t *testing.T) {
	inner := New(ErrCodeDdlRejected, "CREATE TABLE refused").
		WithComponent("schema").
		WithContext("statement", "CREATE TABLE T (C NUMBER)")

	outer := Wrap(inner, ErrCodeInternal, "Run aborted")

	if outer.Component != "schema" {
		t.Errorf("Expected component schema, got %s", outer.Component)
	}
	if outer.Context["statement"] == nil {
		t.Error("Wrapped error should inherit context")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(New(ErrCodeEmptySource, "no columns")); code != ErrCodeEmptySource {
		t.Errorf("Expected %s, got %s", ErrCodeEmptySource, code)
	}

	if code := GetErrorCode(fmt.Errorf("plain error")); code != ErrCodeInternal {
		t.Errorf("Expected %s for plain error, got %s", ErrCodeInternal, code)
	}
}

func TestBatchWriteErrorTimeout(t *testing.T) {
	err := BatchWriteError("Bulk insert failed", 3, fmt.Errorf("context deadline exceeded: timeout"))

	if err.Code != ErrCodeSQLTimeout {
		t.Errorf("Expected timeout code, got %s", err.Code)
	}
	if err.Context["batch_index"] != 3 {
		t.Errorf("Expected batch_index context, got %v", err.Context["batch_index"])
	}
}

func TestErrorIs(t *testing.T) {
	a := New(ErrCodeBatchWriteFailed, "first")
	b := New(ErrCodeBatchWriteFailed, "second")

	if !errors.Is(a, b) {
		t.Error("Errors with the same code should match via errors.Is")
	}
}
