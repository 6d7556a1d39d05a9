// Package scan drives one input source end-to-end: opening it, peeking a
// bounded prefix to classify binary content, and handing a buffered reader
// to the line splitter. Binary detection and the policy on what to do with
// a binary source both live here, per spec §4.3.
package scan

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// PeekSize is the bounded prefix examined for binary classification.
// A few KiB is typical; GNU grep itself inspects the first read buffer.
const PeekSize = 8000

// BinaryPolicy controls what happens when a source is classified binary.
type BinaryPolicy int

const (
	// PolicyBinary (default) emits one informational note on first match
	// and suppresses normal line output for that source.
	PolicyBinary BinaryPolicy = iota
	// PolicyText (-a) treats the source as ordinary text.
	PolicyText
	// PolicyWithoutMatch (-I) skips binary sources entirely.
	PolicyWithoutMatch
)

// Source is a single opened input: a named file, or the default stream.
type Source struct {
	// Path is the display name: a real file path, or the configured label
	// for the default stream ("(standard input)" unless overridden).
	Path            string
	IsDefaultStream bool

	rc io.ReadCloser
}

// Open opens path as a regular file source.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{Path: path, rc: f}, nil
}

// FromReader wraps an already-open reader (typically os.Stdin) as the
// default-stream source, labelled per the configured --label value.
func FromReader(label string, rc io.ReadCloser) *Source {
	return &Source{Path: label, IsDefaultStream: true, rc: rc}
}

// Reader returns a buffered reader over the source large enough that
// IsBinary's peek never forces a short read.
func (s *Source) Reader() *bufio.Reader {
	return bufio.NewReaderSize(s.rc, 64*1024)
}

// Close releases the underlying handle.
func (s *Source) Close() error {
	return s.rc.Close()
}

// IsBinary peeks up to PeekSize bytes from br without consuming them and
// reports whether the prefix contains a NUL byte. When delim is the NUL
// byte (--null-data), content is never classified binary, since NUL is the
// expected line terminator in that mode.
func IsBinary(br *bufio.Reader, delim byte) (bool, error) {
	if delim == 0x00 {
		return false, nil
	}
	peek, err := br.Peek(PeekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return false, err
	}
	return bytes.IndexByte(peek, 0) >= 0, nil
}
