package scan

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinary_DetectsNUL(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader("hi\x00\nfoo\nhi\n"), 64*1024)
	bin, err := IsBinary(br, '\n')
	require.NoError(t, err)
	assert.True(t, bin)

	// peeking must not consume: the whole content is still readable after.
	all, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "hi\x00\nfoo\nhi\n", string(all))
}

func TestIsBinary_TextIsNotBinary(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader("alpha\nbeta\n"), 64*1024)
	bin, err := IsBinary(br, '\n')
	require.NoError(t, err)
	assert.False(t, bin)
}

func TestIsBinary_NullDelimiterNeverBinary(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader("a\x00b\x00"), 64*1024)
	bin, err := IsBinary(br, 0x00)
	require.NoError(t, err)
	assert.False(t, bin)
}

type closer struct{ io.Reader }

func (closer) Close() error { return nil }

func TestFromReader_DefaultStream(t *testing.T) {
	s := FromReader("(standard input)", closer{strings.NewReader("x")})
	assert.True(t, s.IsDefaultStream)
	assert.Equal(t, "(standard input)", s.Path)
}
