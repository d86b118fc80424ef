package scan

import (
	"math"

	"github.com/matzehuels/graphma/pkg/errors"
)

// FindDelimiter returns the index of the first space, tab, CR or LF in b at
// or after start, or len(b) when there is none.
func FindDelimiter(b []byte, start int) int {
	for i := start; i < len(b); i++ {
		if isSpace(b[i]) {
			return i
		}
	}
	return len(b)
}

// Fields splits line on runs of whitespace and appends the tokens to
// dst[:0]. The tokens alias line; passing a reused dst keeps the split
// allocation-free.
func Fields(line []byte, dst [][]byte) [][]byte {
	dst = dst[:0]
	i := 0
	for i < len(line) {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}
		j := FindDelimiter(line, i)
		dst = append(dst, line[i:j])
		i = j
	}
	return dst
}

// TrimSpace returns b without leading and trailing whitespace.
func TrimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ParseUint parses b as a base-10 unsigned integer. Empty input, any
// non-digit and overflow are PARSE_ERROR.
func ParseUint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, errors.New(errors.ErrCodeParse, "empty integer")
	}
	var n uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, errors.New(errors.ErrCodeParse, "invalid character %q in %q", c, b)
		}
		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, errors.New(errors.ErrCodeParse, "integer overflow in %q", b)
		}
		n = n*10 + d
	}
	return n, nil
}

// ParseInt parses b as a base-10 signed integer with at most one leading
// sign. Errors follow [ParseUint].
func ParseInt(b []byte) (int64, error) {
	neg := false
	digits := b
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		digits = b[1:]
	}
	mag, err := ParseUint(digits)
	if err != nil {
		return 0, err
	}
	if neg {
		if mag > 1<<63 {
			return 0, errors.New(errors.ErrCodeParse, "integer overflow in %q", b)
		}
		return -int64(mag), nil
	}
	if mag > math.MaxInt64 {
		return 0, errors.New(errors.ErrCodeParse, "integer overflow in %q", b)
	}
	return int64(mag), nil
}
