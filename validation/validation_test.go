package validation

import (
	"testing"

	"github.com/kbukum/xhrkit/errors"
)

type nestedConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type sampleConfig struct {
	Name   string       `mapstructure:"name" validate:"required"`
	Method string       `mapstructure:"method" validate:"omitempty,token"`
	Level  string       `mapstructure:"level" validate:"omitempty,oneof=debug info"`
	Wait   int          `mapstructure:"wait" validate:"gte=0"`
	HTTP   nestedConfig `mapstructure:"http"`
}

func TestValidate_Valid(t *testing.T) {
	cfg := sampleConfig{Name: "xhrget", Method: "GET", Level: "debug", HTTP: nestedConfig{BaseURL: "https://example.test"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	cfg := sampleConfig{Method: "GE T", Level: "loud", Wait: -1, HTTP: nestedConfig{BaseURL: "not a url"}}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"name":          "is required",
		"method":        "must be an HTTP token",
		"level":         "must be one of: debug info",
		"wait":          "must be greater than or equal to 0",
		"http.base_url": "must be a valid URL",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestValidator_Programmatic(t *testing.T) {
	v := New()
	v.Required("header", " ").Token("header", "bad name").Custom(false, "value", "must not contain newlines")
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 3 {
		t.Errorf("expected 3 errors, got %d", len(v.Errors()))
	}
	if !errors.Is(v.Validate(), errors.ErrCodeInvalidInput) {
		t.Error("expected INVALID_INPUT from Validate")
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().Required("header", "X-Trace").Token("header", "X-Trace")
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestIsToken(t *testing.T) {
	tests := map[string]bool{
		"GET":       true,
		"x-custom":  true,
		"PROPFIND":  true,
		"":          false,
		"GE T":      false,
		"bad:name":  false,
		"naïve":     false,
		"a\r\nb":    false,
		"!#$%&'*+.": true,
	}
	for in, want := range tests {
		if got := IsToken(in); got != want {
			t.Errorf("IsToken(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MaxResponseBytes"); got != "max_response_bytes" {
		t.Errorf("unexpected %q", got)
	}
}
