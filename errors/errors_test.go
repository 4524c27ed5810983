package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidState, "not opened")
	if err.Code != ErrCodeInvalidState {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidState, err.Code)
	}
	if err.Message != "not opened" {
		t.Errorf("expected message 'not opened', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_STATE should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_InvalidState_Success(t *testing.T) {
	err := InvalidState("send", "readyState is not opened")
	if err.Code != ErrCodeInvalidState {
		t.Errorf("expected INVALID_STATE, got %s", err.Code)
	}
	if err.Details["operation"] != "send" {
		t.Errorf("expected operation=send, got %v", err.Details["operation"])
	}
	if !strings.Contains(err.Error(), "readyState is not opened") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestAppError_NotImplemented_Success(t *testing.T) {
	err := NotImplemented("abort")
	if !IsNotImplemented(err) {
		t.Error("expected IsNotImplemented=true")
	}
	if IsPrecondition(err) {
		t.Error("NOT_IMPLEMENTED must not be classified as a precondition violation")
	}
	if err.Details["member"] != "abort" {
		t.Errorf("expected member=abort, got %v", err.Details["member"])
	}
}

func TestAppError_Preconditions_Table(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want bool
	}{
		{"invalid state", InvalidState("open", "busy"), true},
		{"missing field", MissingField("method"), true},
		{"unsupported body", UnsupportedBody("[]uint8"), true},
		{"not implemented", NotImplemented("upload"), false},
		{"invalid input", InvalidInput("timeout", "negative"), false},
		{"transport", TransportUnavailable(fmt.Errorf("boom")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPrecondition(tt.err); got != tt.want {
				t.Errorf("IsPrecondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	root := fmt.Errorf("dial tcp: refused")
	err := TransportUnavailable(nil).WithCause(root)
	if !stderrors.Is(err, root) {
		t.Error("expected errors.Is to find the root cause")
	}
	if !strings.Contains(err.Error(), "cause: dial tcp: refused") {
		t.Errorf("expected cause in message, got %s", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := New(ErrCodeInternal, "x")
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected k=v, got %v", err.Details["k"])
	}
}

func TestErrorCode_IsRetryableCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTransportUnavailable, true},
		{ErrCodeConnectionFailed, true},
		{ErrCodeTimeout, true},
		{ErrCodeDecodeFailed, false},
		{ErrCodeInvalidState, false},
		{ErrCodeNotImplemented, false},
		{ErrorCode("SOMETHING_ELSE"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestIs_WrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingField("url"))
	if !Is(wrapped, ErrCodeMissingField) {
		t.Error("expected Is to see through wrapping")
	}
	if Is(wrapped, ErrCodeInvalidState) {
		t.Error("expected Is to compare codes")
	}
	if Is(fmt.Errorf("plain"), ErrCodeMissingField) {
		t.Error("plain errors carry no code")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrap_AppErrorPassthrough(t *testing.T) {
	orig := NotImplemented("responseXML")
	if got := Wrap(orig); got != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}
}

func TestWrap_PlainError(t *testing.T) {
	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = InvalidInput("base_url", "must be a URL")
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("stderrors.As should work with AppError")
	}
}

type classifiedError struct{}

func (classifiedError) Error() string           { return "classified" }
func (classifiedError) AppErrorCode() ErrorCode { return ErrCodeTimeout }

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"app error", MissingField("url"), ErrCodeMissingField},
		{"wrapped app error", fmt.Errorf("send: %w", InvalidState("send", "not opened")), ErrCodeInvalidState},
		{"classified", fmt.Errorf("do: %w", classifiedError{}), ErrCodeTimeout},
		{"plain", stderrors.New("boom"), ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Errorf("CodeOf() = %s, want %s", got, tc.want)
			}
		})
	}
}
