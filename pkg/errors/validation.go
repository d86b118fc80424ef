package errors

import (
	"strings"
	"unicode"
)

// MinBufferSize is the smallest scanner buffer accepted by [ValidateBufferSize].
const MinBufferSize = 16

// ValidateFormat checks that name is one of the supported edge-list dialects.
// Matching is case-sensitive to keep job files unambiguous.
func ValidateFormat(name string) error {
	switch name {
	case "mtx", "dot", "gml", "graphml":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: mtx, dot, gml, graphml)", name)
}

// ValidatePath validates a source file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path has leading or trailing whitespace")
	}

	return nil
}

// ValidateBufferSize rejects scanner buffers too small to hold a header line.
func ValidateBufferSize(size int) error {
	if size < MinBufferSize {
		return New(ErrCodeInvalidInput, "buffer size %d below minimum %d", size, MinBufferSize)
	}
	return nil
}

// ValidateRange checks the half-open window bounds lo <= hi.
func ValidateRange(lo, hi uint64) error {
	if lo > hi {
		return New(ErrCodeInvalidRange, "range lower bound %d exceeds upper bound %d", lo, hi)
	}
	return nil
}
