package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_NoExpressions(t *testing.T) {
	_, err := Compile(nil, Options{})
	require.ErrorIs(t, err, ErrNoExpressions)
}

func TestCompile_Fixed(t *testing.T) {
	m, err := Compile([]string{"a.b"}, Options{Dialect: Fixed})
	require.NoError(t, err)
	assert.False(t, m.MatchesLine([]byte("axb")), "fixed strings must not treat '.' as wildcard")
	assert.True(t, m.MatchesLine([]byte("a.b")))
}

func TestCompile_Extended(t *testing.T) {
	m, err := Compile([]string{"go(od)?"}, Options{Dialect: Extended})
	require.NoError(t, err)
	assert.True(t, m.MatchesLine([]byte("go")))
	assert.True(t, m.MatchesLine([]byte("good")))
}

func TestCompile_BasicInvertsEscaping(t *testing.T) {
	// In BRE, unescaped parens/plus are literal; escaped ones are special.
	m, err := Compile([]string{`a\(b\)\+`}, Options{Dialect: Basic})
	require.NoError(t, err)
	assert.True(t, m.MatchesLine([]byte("abbb")))
	assert.False(t, m.MatchesLine([]byte("(b)")))

	literal, err := Compile([]string{`a(b)`}, Options{Dialect: Basic})
	require.NoError(t, err)
	assert.True(t, literal.MatchesLine([]byte("a(b)")))
	assert.False(t, literal.MatchesLine([]byte("ab")))
}

func TestCompile_IgnoreCase(t *testing.T) {
	m, err := Compile([]string{"HELLO"}, Options{Dialect: Extended, IgnoreCase: true})
	require.NoError(t, err)
	assert.True(t, m.MatchesLine([]byte("say hello there")))
}

func TestCompile_WordRegexp(t *testing.T) {
	m, err := Compile([]string{"cat"}, Options{Dialect: Extended, WordRegexp: true})
	require.NoError(t, err)
	assert.True(t, m.MatchesLine([]byte("a cat sat")))
	assert.False(t, m.MatchesLine([]byte("concatenate")))
}

func TestCompile_LineRegexp(t *testing.T) {
	m, err := Compile([]string{"exact"}, Options{Dialect: Extended, LineRegexp: true})
	require.NoError(t, err)
	assert.True(t, m.MatchesLine([]byte("exact")))
	assert.False(t, m.MatchesLine([]byte("not exact match")))
}

func TestFindAll_SpansSortedAndBounded(t *testing.T) {
	m, err := Compile([]string{"a+"}, Options{Dialect: Extended})
	require.NoError(t, err)
	line := []byte("aa b aaa")
	spans := m.FindAll(line)
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.GreaterOrEqual(t, s.Start, 0)
		assert.LessOrEqual(t, s.End, len(line))
		assert.Less(t, s.Start, s.End)
	}
	assert.Less(t, spans[0].Start, spans[1].Start)
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile([]string{"("}, Options{Dialect: Extended})
	assert.Error(t, err)
}

func TestMatcher_PureFunction(t *testing.T) {
	m, err := Compile([]string{"foo"}, Options{Dialect: Extended})
	require.NoError(t, err)
	line := []byte("foobar")
	first := m.FindAll(line)
	second := m.FindAll(line)
	assert.Equal(t, first, second)
}
