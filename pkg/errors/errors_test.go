package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeParse, "line %d: unknown keyword %q", 7, "mvoes")

	if err.Code != ErrCodeParse {
		t.Errorf("code = %s, want %s", err.Code, ErrCodeParse)
	}
	want := `line 7: unknown keyword "mvoes"`
	if err.Message != want {
		t.Errorf("message = %q, want %q", err.Message, want)
	}
	if !strings.HasPrefix(err.Error(), "PARSE_ERROR: ") {
		t.Errorf("Error() = %q, want PARSE_ERROR prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrap(ErrCodeCompile, cause, "pdflatex failed")

	if err.Cause != cause {
		t.Error("cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should match wrapped cause")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeLayout, "no space"), ErrCodeLayout, true},
		{"Mismatch", New(ErrCodeLayout, "no space"), ErrCodeConfig, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeValidation, "bad iset")), ErrCodeValidation, true},
		{"Plain", fmt.Errorf("plain"), ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRaster, "dpi out of range")); got != ErrCodeRaster {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeRaster)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeConfig, "scale 150 above maximum 100")); got != "scale 150 above maximum 100" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage = %q", got)
	}
}
