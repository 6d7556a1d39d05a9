package globset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SpaceSeparatedValues(t *testing.T) {
	got, err := Parse([]string{"*.go *.md", "*.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"*.go", "*.md", "*.txt"}, got)
}

func TestSet_Match(t *testing.T) {
	s, err := New([]string{"*.log"})
	require.NoError(t, err)
	ok, err := s.Match("a.log")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Match("a.tmp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet_DoubleStar(t *testing.T) {
	s, err := New([]string{"docs/**/*.md"})
	require.NoError(t, err)
	ok, err := s.Match("docs/a/b/c.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSet_Empty(t *testing.T) {
	var s *Set
	assert.True(t, s.Empty())
	ok, err := s.Match("anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]string{"["})
	assert.Error(t, err)
}
