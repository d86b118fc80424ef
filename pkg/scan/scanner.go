// Package scan implements the buffered, incremental text scanner shared by
// every edge-list dialect.
//
// A [Scanner] owns one fixed-size byte buffer and one read handle. It hands
// out lines as views into that buffer, so the dialect parsers can tokenize
// and parse integers without allocating intermediate strings. Refills happen
// transparently: unread bytes are moved to the front of the buffer before the
// next read, so a line is never split across a refill. A line longer than the
// buffer is reported as an ILLEGAL_STATE error instead of being truncated.
//
// A Scanner is not safe for concurrent use. Independent scanners over the
// same file share nothing.
package scan

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/graphma/pkg/errors"
)

// DefaultBufferSize is the buffer capacity used when none is given.
const DefaultBufferSize = 8192

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// Scanner reads lines from a resource through a fixed-size buffer.
type Scanner struct {
	rc  io.ReadCloser
	buf []byte
	pos int // next unread byte
	end int // end of valid data in buf
	// mark is the buffer offset of the line last returned by NextLine,
	// or -1 when there is nothing to unread.
	mark    int
	line    uint64
	refills uint64
	eof     bool
	closed  bool
}

// New returns a scanner over rc with a buffer of size bytes.
// A non-positive size selects [DefaultBufferSize]. No data is read until
// the first call that needs it.
func New(rc io.ReadCloser, size int) *Scanner {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Scanner{rc: rc, buf: make([]byte, size), mark: -1}
}

// Open opens the file at path and returns a scanner over it.
// The caller owns the scanner and must Close it. A file that does not exist
// is reported as MISSING_SOURCE, any other failure as IO_ERROR.
func Open(path string, size int) (*Scanner, error) {
	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeMissingSource, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	return New(f, size), nil
}

// Refill moves unread bytes to the front of the buffer and reads into the
// remaining capacity. It returns the number of bytes read, or io.EOF once the
// resource has no more data.
//
// Refill fails with ILLEGAL_STATE when the buffer is already full of unread
// data, which means a single line does not fit, and with IO_ERROR when the
// read fails. Compaction invalidates any pending [Scanner.UnreadLine].
func (s *Scanner) Refill() (int, error) {
	if s.closed {
		return 0, errors.IllegalState("refill on closed scanner")
	}
	if s.eof {
		return 0, io.EOF
	}
	if s.pos > 0 {
		s.end = copy(s.buf, s.buf[s.pos:s.end])
		s.pos = 0
	}
	s.mark = -1
	if s.end == len(s.buf) {
		return 0, errors.IllegalState("line %d exceeds buffer of %d bytes", s.line+1, len(s.buf))
	}

	for empty := 0; empty < maxEmptyReads; empty++ {
		n, err := s.rc.Read(s.buf[s.end:])
		s.end += n
		switch {
		case err == io.EOF:
			s.eof = true
			if n > 0 {
				s.refills++
				return n, nil
			}
			return 0, io.EOF
		case err != nil:
			return n, errors.Wrap(errors.ErrCodeIO, err, "read")
		case n > 0:
			s.refills++
			return n, nil
		}
	}
	return 0, errors.Wrap(errors.ErrCodeIO, io.ErrNoProgress, "read")
}

// NextLine returns the next line without its terminator (LF or CRLF) and
// advances the logical line counter. The returned slice aliases the buffer
// and is only valid until the next call on the scanner. At the end of data
// NextLine returns io.EOF; a final line without terminator is still returned.
func (s *Scanner) NextLine() ([]byte, error) {
	if s.closed {
		return nil, errors.IllegalState("read on closed scanner")
	}
	for {
		if i := bytes.IndexByte(s.buf[s.pos:s.end], '\n'); i >= 0 {
			start := s.pos
			s.pos += i + 1
			return s.emit(start, start+i), nil
		}
		if s.eof {
			if s.pos < s.end {
				start := s.pos
				s.pos = s.end
				return s.emit(start, s.end), nil
			}
			return nil, io.EOF
		}
		if _, err := s.Refill(); err != nil && err != io.EOF {
			return nil, err
		}
	}
}

func (s *Scanner) emit(start, stop int) []byte {
	s.mark = start
	s.line++
	if stop > start && s.buf[stop-1] == '\r' {
		stop--
	}
	return s.buf[start:stop:stop]
}

// UnreadLine pushes back the line returned by the last NextLine call, so the
// next NextLine returns it again. It is a no-op when there is nothing to
// push back.
func (s *Scanner) UnreadLine() {
	if s.mark < 0 {
		return
	}
	s.pos = s.mark
	s.mark = -1
	s.line--
}

// AdvanceLine skips past the next line terminator and counts the line. Unlike
// NextLine it never fails on lines longer than the buffer, since skipped
// bytes are discarded rather than kept. It returns io.EOF when no data is
// left.
func (s *Scanner) AdvanceLine() error {
	if s.closed {
		return errors.IllegalState("read on closed scanner")
	}
	s.mark = -1
	consumed := false
	for {
		if i := bytes.IndexByte(s.buf[s.pos:s.end], '\n'); i >= 0 {
			s.pos += i + 1
			s.line++
			return nil
		}
		if s.pos < s.end {
			consumed = true
			s.pos = s.end
		}
		if s.eof {
			if consumed {
				s.line++
				return nil
			}
			return io.EOF
		}
		if _, err := s.Refill(); err != nil && err != io.EOF {
			return err
		}
	}
}

// Line returns the number of lines consumed so far.
func (s *Scanner) Line() uint64 { return s.line }

// Refills returns how many reads have filled the buffer so far.
func (s *Scanner) Refills() uint64 { return s.refills }

// Closed reports whether Close has been called.
func (s *Scanner) Closed() bool { return s.closed }

// Close releases the underlying handle. Only the first call closes it;
// later calls return nil.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mark = -1
	if err := s.rc.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close")
	}
	return nil
}
