package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("disk on fire")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidInput, "bad value %d", 3), "INVALID_INPUT: bad value 3"},
		{"wrapped", Wrap(ErrCodeIO, cause, "read %s", "g.mtx"), "IO_ERROR: read g.mtx: disk on fire"},
		{"parse", Parse(7, "invalid character %q", 'x'), "PARSE_ERROR: line 7: invalid character 'x'"},
		{"parse without line", Parse(0, "empty file"), "PARSE_ERROR: empty file"},
		{"illegal state", IllegalState("read on closed scanner"), "ILLEGAL_STATE: read on closed scanner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(ErrCodeIO, cause, "read failed")
	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Errorf("Wrap() does not unwrap to its cause: %v", err)
	}
}

func TestClassification(t *testing.T) {
	parse := Parse(4, "unexpected token")
	tests := []struct {
		name     string
		err      error
		code     Code
		line     uint64
		hasLine  bool
		userText string
	}{
		{"coded", New(ErrCodeUnsupported, "no centrality for dot"), ErrCodeUnsupported, 0, false, "no centrality for dot"},
		{"parse", parse, ErrCodeParse, 4, true, "unexpected token"},
		{"outer code wins", Wrap(ErrCodeIO, parse, "outer"), ErrCodeIO, 0, false, "outer"},
		{"fmt wrapped", fmt.Errorf("ingest: %w", parse), ErrCodeParse, 4, true, "unexpected token"},
		{"plain", errors.New("plain error"), "", 0, false, "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
			line, ok := LineOf(tt.err)
			if line != tt.line || ok != tt.hasLine {
				t.Errorf("LineOf() = %d, %v, want %d, %v", line, ok, tt.line, tt.hasLine)
			}
			if got := UserMessage(tt.err); got != tt.userText {
				t.Errorf("UserMessage() = %q, want %q", got, tt.userText)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeParse) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
	if _, ok := LineOf(nil); ok {
		t.Error("nil error should carry no line")
	}
}
