package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/batchkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("key", "users:joindate").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("key", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorMin(t *testing.T) {
	v := New().Min("batch", -1, 0)
	if !v.HasErrors() {
		t.Fatal("expected error for value below minimum")
	}
	if v.Errors()[0].Field != "batch" {
		t.Errorf("expected field batch, got %q", v.Errors()[0].Field)
	}
}

func TestValidatorError_NilWhenClean(t *testing.T) {
	v := New().Custom(true, "handler", "must be set")
	if err := v.Error(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidatorError_InvalidArgument(t *testing.T) {
	v := New().
		Custom(false, "handler", "must be set").
		Min("interval", -5, 0)

	err := v.Error()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
	if !strings.Contains(err.Error(), "handler: must be set") {
		t.Errorf("expected handler message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "interval: must be at least 0") {
		t.Errorf("expected interval message, got %q", err.Error())
	}
}

type sampleConfig struct {
	Size int    `mapstructure:"size" validate:"gte=0"`
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=redis sqlite"`
	Addr string `mapstructure:"addr" validate:"required"`
}

func TestValidate_StructTags(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sampleConfig
		wantErr string
	}{
		{"valid", sampleConfig{Size: 10, Mode: "redis", Addr: "x"}, ""},
		{"negative size", sampleConfig{Size: -1, Addr: "x"}, "size: must be >= 0"},
		{"bad mode", sampleConfig{Mode: "mongo", Addr: "x"}, "mode: must be one of"},
		{"missing addr", sampleConfig{}, "addr: is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected %q in %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("AlwaysStartAt"); got != "always_start_at" {
		t.Errorf("expected always_start_at, got %q", got)
	}
}
