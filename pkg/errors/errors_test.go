package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTxFailed, cause, "commit failed")

	if err.Code != ErrCodeTxFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTxFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNoGraph, "test"),
			code:     ErrCodeNoGraph,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNoGraph, "test"),
			code:     ErrCodeNoTextures,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeTxFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeTxFailed,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeNoMaterialNode, "test"), ErrCodeNoMaterialNode},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSkippable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeNoGraph, "x"), true},
		{New(ErrCodeUnsupported, "x"), true},
		{New(ErrCodePathUnresolved, "x"), true},
		{Wrap(ErrCodeLookupFailed, errors.New("x"), "y"), true},
		{New(ErrCodeTxFailed, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := Skippable(tt.err); got != tt.want {
			t.Errorf("Skippable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{New(ErrCodeInvalidMaterial, "x"), ExitUsage},
		{Wrap(ErrCodeInvalidFormat, fmt.Errorf("eof"), "x"), ExitUsage},
		{New(ErrCodeNoGraph, "x"), ExitSkipped},
		{New(ErrCodeTxFailed, "x"), ExitFailure},
		{fmt.Errorf("plain"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
