package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewServeError(t *testing.T) {
	cause := errors.New("strconv.ParseUint: parsing \"abc\": invalid syntax")

	err := NewServeError(InvalidPort, "Given port is invalid", cause)

	if err.Code != InvalidPort {
		t.Errorf("Code = %v, want %v", err.Code, InvalidPort)
	}
	if err.Message != "Given port is invalid" {
		t.Errorf("Message = %q, want %q", err.Message, "Given port is invalid")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestServeError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      ConfigFileNotFound,
			message:   "cannot read config document cfg.yml",
			cause:     errors.New("no such file or directory"),
			wantParts: []string{"CONFIG_FILE_NOT_FOUND", "cfg.yml", "no such file or directory"},
		},
		{
			name:      "without cause",
			code:      NoContentProvided,
			message:   UsageLine,
			cause:     nil,
			wantParts: []string{"NO_CONTENT_PROVIDED", "Usage: tiny-serve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewServeError(tt.code, tt.message, tt.cause).Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
			if strings.Contains(got, "\n") {
				t.Errorf("Error() = %q, want a single line", got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	base := NewServeError(BindFailure, "cannot listen on 0.0.0.0:80", errors.New("permission denied"))
	wrapped := fmt.Errorf("start server: %w", base)

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"direct", base, BindFailure},
		{"wrapped", wrapped, BindFailure},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}

	if !HasCode(wrapped, BindFailure) {
		t.Error("HasCode(wrapped, BindFailure) = false, want true")
	}
	if HasCode(nil, BindFailure) {
		t.Error("HasCode(nil, BindFailure) = true, want false")
	}
}

func TestIsConfigError(t *testing.T) {
	configCodes := []ErrorCode{
		InvalidPort, MissingPortValue, MissingConfigPath, NoContentProvided,
		ConfigFileNotFound, ConfigParseError, InvalidSettings,
	}
	for _, code := range configCodes {
		if !IsConfigError(code) {
			t.Errorf("IsConfigError(%s) = false, want true", code)
		}
	}

	runtimeCodes := []ErrorCode{BindFailure, FileReadFailure, RespondFailure, InternalError}
	for _, code := range runtimeCodes {
		if IsConfigError(code) {
			t.Errorf("IsConfigError(%s) = true, want false", code)
		}
	}
}

func TestServeError_WithDetails(t *testing.T) {
	err := NewServeError(ConfigParseError, "invalid raw route", nil).
		WithDetails(map[string]interface{}{"index": 2})

	details, ok := err.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Details type = %T, want map", err.Details)
	}
	if details["index"] != 2 {
		t.Errorf("Details[index] = %v, want 2", details["index"])
	}
}
