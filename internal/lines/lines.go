// Package lines streams a byte source into lines separated by a configured
// delimiter, preserving byte offsets and optional CR stripping.
//
// The splitter never buffers more than one pending line: it reads in
// blocks and does not scan past the next delimiter. Byte offsets and line
// numbers always describe the unmodified source, even when a trailing CR
// is stripped from the returned view.
package lines

import (
	"bufio"
	"errors"
	"io"
)

// DefaultMaxLineLength bounds the longest single line the splitter will
// buffer before giving up, matching the teacher's grep package default.
const DefaultMaxLineLength = 10 * 1024 * 1024

// ErrLineTooLong is returned when a single line exceeds the configured
// maximum length.
var ErrLineTooLong = errors.New("lines: line exceeds maximum length")

// Line is one record produced by the Splitter.
type Line struct {
	Number   int    // 1-based, with respect to the configured delimiter
	Offset   int64  // byte offset of the first byte of Bytes in the source
	Bytes    []byte // raw content, without the delimiter (and CR if stripped)
	HasDelim bool   // false only for a trailing partial line at EOF
}

// Splitter turns a byte stream into a sequence of Line records.
type Splitter struct {
	r             *bufio.Reader
	delim         byte
	stripCR       bool
	maxLineLength int
	lineNo        int
	offset        int64
	err           error
	current       Line
}

// New creates a Splitter over r. delim is the line delimiter (0x0A unless
// --null-data requests 0x00). stripCR, when true, drops a trailing 0x0D
// from the returned view; the byte still counts toward offset math for the
// next line. maxLineLength bounds the longest buffered line; 0 selects
// DefaultMaxLineLength.
func New(r io.Reader, delim byte, stripCR bool, maxLineLength int) *Splitter {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	return &Splitter{
		r:             bufio.NewReaderSize(r, 64*1024),
		delim:         delim,
		stripCR:       stripCR,
		maxLineLength: maxLineLength,
	}
}

// Scan advances to the next line, returning false at EOF or on error. Call
// Err after Scan returns false to distinguish clean EOF from a real error.
func (s *Splitter) Scan() bool {
	if s.err != nil {
		return false
	}

	var buf []byte
	hasDelim := false
	for {
		frag, err := s.r.ReadSlice(s.delim)
		switch err {
		case nil:
			buf = append(buf, frag...)
			hasDelim = true
		case bufio.ErrBufferFull:
			buf = append(buf, frag...)
			if len(buf) > s.maxLineLength {
				s.err = ErrLineTooLong
				return false
			}
			continue
		case io.EOF:
			buf = append(buf, frag...)
			if len(buf) == 0 {
				s.err = io.EOF
				return false
			}
		default:
			s.err = err
			return false
		}
		break
	}
	if len(buf) > s.maxLineLength {
		s.err = ErrLineTooLong
		return false
	}

	offset := s.offset
	raw := buf
	if hasDelim {
		raw = buf[:len(buf)-1]
	}
	if s.stripCR && len(raw) > 0 && raw[len(raw)-1] == '\r' {
		raw = raw[:len(raw)-1]
	}

	s.lineNo++
	s.offset += int64(len(buf))
	s.current = Line{Number: s.lineNo, Offset: offset, Bytes: raw, HasDelim: hasDelim}
	return true
}

// Line returns the most recent line produced by Scan.
func (s *Splitter) Line() Line { return s.current }

// Err returns the first non-EOF error encountered, or nil.
func (s *Splitter) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
