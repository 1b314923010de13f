package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBridgeError_Error(t *testing.T) {
	err := New(ErrCategoryTranslation, CodeUnsupportedType, "unknown column type DATE")
	expected := "[TRANSLATION:UNSUPPORTED_TYPE] unknown column type DATE"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestBridgeError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCategoryRegistry, CodeUnreachable, "list groups failed", cause)
	expected := "[REGISTRY:UNREACHABLE] list groups failed: connection refused"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestBridgeError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCategoryRegistry, CodeRequestFailed, "add schema", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap should allow errors.Is to find the cause")
	}
}

func TestBridgeError_Is(t *testing.T) {
	err1 := New(ErrCategoryValidation, CodeUnsupportedFormat, "first")
	err2 := New(ErrCategoryValidation, CodeUnsupportedFormat, "second")
	err3 := New(ErrCategoryValidation, CodeInvalidLocation, "different code")

	if !errors.Is(err1, err2) {
		t.Error("errors with same category+code should match via Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match via Is")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		code      string
		retryable bool
	}{
		{ErrCategoryRegistry, CodeUnreachable, true},
		{ErrCategoryRegistry, CodeRequestFailed, true},
		{ErrCategoryRegistry, CodeNotFound, false},
		{ErrCategoryTranslation, CodeUnsupportedType, false},
		{ErrCategoryTranslation, CodeParseError, false},
		{ErrCategoryValidation, CodeUnsupportedFormat, false},
		{ErrCategoryValidation, CodeInvalidLocation, false},
		{ErrCategoryConfig, CodeInvalidConfig, false},
		{ErrCategoryInternal, CodeUnexpected, false},
	}

	for _, tt := range tests {
		err := New(tt.category, tt.code, "test")
		if IsRetryable(err) != tt.retryable {
			t.Errorf("%s:%s retryable=%v, want %v", tt.category, tt.code, IsRetryable(err), tt.retryable)
		}
	}
}

func TestGetCategory(t *testing.T) {
	err := New(ErrCategoryTranslation, CodeParseError, "bad document")
	if GetCategory(err) != ErrCategoryTranslation {
		t.Errorf("got %q, want %q", GetCategory(err), ErrCategoryTranslation)
	}
	if GetCategory(fmt.Errorf("plain error")) != "" {
		t.Error("non-BridgeError should return empty category")
	}
}

func TestGetCode(t *testing.T) {
	err := New(ErrCategoryTranslation, CodeMissingField, "no properties member")
	if GetCode(err) != CodeMissingField {
		t.Errorf("got %q, want %q", GetCode(err), CodeMissingField)
	}
	if GetCode(fmt.Errorf("plain error")) != "" {
		t.Error("non-BridgeError should return empty code")
	}
}

func TestIsUnreachable(t *testing.T) {
	unreachable := Wrap(ErrCategoryRegistry, CodeUnreachable, "dial", fmt.Errorf("refused"))
	if !IsUnreachable(unreachable) {
		t.Error("UNREACHABLE registry error should report unreachable")
	}
	if IsUnreachable(New(ErrCategoryRegistry, CodeNotFound, "missing group")) {
		t.Error("NOT_FOUND should not report unreachable")
	}
	if IsUnreachable(fmt.Errorf("plain error")) {
		t.Error("plain error should not report unreachable")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(ErrCategoryRegistry, CodeNotFound, "missing group")) {
		t.Error("NOT_FOUND registry error should report not found")
	}
	if IsNotFound(New(ErrCategoryTranslation, CodeMissingField, "no comment")) {
		t.Error("translation error should not report not found")
	}
}

func TestWithDetails(t *testing.T) {
	base := New(ErrCategoryValidation, CodeInvalidLocation, "bad uri")
	detailed := base.WithDetails(map[string]interface{}{"location": "s3:/broken"})
	if base.Details != nil {
		t.Error("WithDetails should not mutate the original error")
	}
	if detailed.Details["location"] != "s3:/broken" {
		t.Error("details not carried on the copy")
	}
}
