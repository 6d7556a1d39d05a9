package lines

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Splitter) []Line {
	t.Helper()
	var out []Line
	for s.Scan() {
		l := s.Line()
		// copy Bytes since the splitter may reuse the underlying array
		b := append([]byte(nil), l.Bytes...)
		l.Bytes = b
		out = append(out, l)
	}
	require.NoError(t, s.Err())
	return out
}

func TestSplitter_BasicLines(t *testing.T) {
	s := New(strings.NewReader("alpha\nbeta\ngamma\n"), '\n', false, 0)
	got := collect(t, s)
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", string(got[0].Bytes))
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, int64(0), got[0].Offset)
	assert.Equal(t, "beta", string(got[1].Bytes))
	assert.Equal(t, int64(6), got[1].Offset)
	assert.Equal(t, "gamma", string(got[2].Bytes))
	assert.Equal(t, int64(11), got[2].Offset)
	for _, l := range got {
		assert.True(t, l.HasDelim)
	}
}

func TestSplitter_TrailingPartialLine(t *testing.T) {
	s := New(strings.NewReader("one\ntwo"), '\n', false, 0)
	got := collect(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, "two", string(got[1].Bytes))
	assert.False(t, got[1].HasDelim)
}

func TestSplitter_StripCR(t *testing.T) {
	s := New(strings.NewReader("a\r\nb\r\n"), '\n', true, 0)
	got := collect(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, "a", string(got[0].Bytes))
	// Offset math still accounts for the stripped CR byte.
	assert.Equal(t, int64(3), got[1].Offset)
}

func TestSplitter_NullDelimiter(t *testing.T) {
	s := New(strings.NewReader("a\x00b\x00"), 0x00, false, 0)
	got := collect(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, "a", string(got[0].Bytes))
	assert.Equal(t, "b", string(got[1].Bytes))
}

func TestSplitter_TooLong(t *testing.T) {
	s := New(strings.NewReader(strings.Repeat("x", 100)+"\n"), '\n', false, 10)
	ok := s.Scan()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrLineTooLong)
}

func TestSplitter_EmptyInput(t *testing.T) {
	s := New(strings.NewReader(""), '\n', false, 0)
	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())
}
