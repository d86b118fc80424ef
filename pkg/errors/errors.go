// Package errors defines the coded errors every graphma layer returns.
//
// A [Code] tells callers what kind of failure occurred without matching on
// message text: a malformed file (PARSE_ERROR) is distinct from an unreadable
// one (IO_ERROR), a missing one (MISSING_SOURCE) or a misused traverser
// (ILLEGAL_STATE). Parse errors also carry the 1-based logical line they
// were found on.
//
//	if errors.Is(err, errors.ErrCodeParse) {
//	    line, _ := errors.LineOf(err)
//	    ...
//	}
//
// The package shadows the standard library name on purpose; import it as is
// and alias the standard package where both are needed.
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code classifies an [Error].
type Code string

const (
	ErrCodeMissingSource Code = "MISSING_SOURCE"
	ErrCodeParse         Code = "PARSE_ERROR"
	ErrCodeIO            Code = "IO_ERROR"
	ErrCodeIllegalState  Code = "ILLEGAL_STATE"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidRange  Code = "INVALID_RANGE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded failure, optionally caused by another error.
type Error struct {
	Code    Code
	Message string
	// Line is the logical line of a parse error, 0 when unknown.
	Line  uint64
	Cause error
}

// Error renders "CODE: [line N: ]message[: cause]".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Line > 0 {
		b.WriteString("line ")
		b.WriteString(strconv.FormatUint(e.Line, 10))
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Parse reports malformed input found on the given logical line.
func Parse(line uint64, format string, args ...any) *Error {
	return &Error{Code: ErrCodeParse, Message: fmt.Sprintf(format, args...), Line: line}
}

func IllegalState(format string, args ...any) *Error {
	return New(ErrCodeIllegalState, format, args...)
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// LineOf returns the line recorded by the outermost *Error in err's chain.
func LineOf(err error) (uint64, bool) {
	if e, ok := as(err); ok && e.Line > 0 {
		return e.Line, true
	}
	return 0, false
}

// UserMessage strips the code, line and cause from a coded error.
// Other errors are returned verbatim.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
