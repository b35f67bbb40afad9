package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "unknown format: %s", "yaml")
	if got := err.Error(); got != "INVALID_FORMAT: unknown format: yaml" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeImportFailed, err, "decode payload")
	if !strings.Contains(wrapped.Error(), "INVALID_FORMAT") {
		t.Errorf("wrapped error lost cause: %q", wrapped.Error())
	}
	if !stderrors.Is(wrapped, err) {
		t.Error("errors.Is should unwrap to the cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeNotFound, "missing")

	if !Is(err, ErrCodeNotFound) {
		t.Error("Is failed to match code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("Is matched a plain error")
	}

	if got := GetCode(err); got != ErrCodeNotFound {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInternal, "boom")); got != "boom" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Valid", "out/map.svg", false},
		{"Empty", "", true},
		{"Traversal", "../secrets", true},
		{"ControlChar", "bad\x00path", true},
		{"TooLong", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeText(t *testing.T) {
	if err := ValidateNodeText("plain text"); err != nil {
		t.Errorf("valid text rejected: %v", err)
	}
	if err := ValidateNodeText("two\nlines"); err == nil {
		t.Error("line break accepted")
	}
}
