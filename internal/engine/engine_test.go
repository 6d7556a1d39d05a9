package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/globset"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/walk"
)

func globSet(t *testing.T, patterns []string) (*globset.Set, error) {
	t.Helper()
	return globset.New(patterns)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func baseConfig() Config {
	c := DefaultConfig()
	c.ColourMode = colour.Never
	return c
}

func TestExecute_BasicMatchSingleFile(t *testing.T) {
	path := writeTemp(t, "a.txt", "alpha\nbeta\ngamma\n")

	c := baseConfig()
	c.Expressions = []string{"et"}
	c.Paths = []string{path}

	var out bytes.Buffer
	res, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.True(t, res.MatchFound)
	assert.Equal(t, "beta\n", out.String())
}

func TestExecute_LineNumbersAndFileName(t *testing.T) {
	path := writeTemp(t, "a.txt", "alpha\nbeta\ngamma\n")

	c := baseConfig()
	c.Expressions = []string{"et"}
	c.Paths = []string{path}
	c.FileNameMode = FileNameAlways
	c.LineNumberOutput = true

	var out bytes.Buffer
	_, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, path+":2:beta\n", out.String())
}

func TestExecute_Context(t *testing.T) {
	content := "L1\nL2\nL3\nL4\nL5\nL6\nL7\n"
	path := writeTemp(t, "a.txt", content)

	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"L4"}
	c.Paths = []string{path}
	c.LineNumberOutput = true
	c.BeforeContext = 1
	c.AfterContext = 1

	var out bytes.Buffer
	_, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, "3-L3\n4:L4\n5-L5\n", out.String())
}

func TestExecute_MaxCountWithContext(t *testing.T) {
	var b bytes.Buffer
	for i := 1; i <= 10; i++ {
		if i == 2 || i == 5 {
			b.WriteString("hit\n")
		} else {
			b.WriteString("miss\n")
		}
	}
	path := writeTemp(t, "a.txt", b.String())

	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"hit"}
	c.Paths = []string{path}
	c.MaxCount = 1
	c.AfterContext = 2

	var out bytes.Buffer
	_, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, "hit\nmiss\nmiss\n", out.String())
}

func TestExecute_BinaryDefault(t *testing.T) {
	path := writeTemp(t, "bin.dat", "hi\x00\nfoo\nhi\n")

	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"hi"}
	c.Paths = []string{path}

	var out bytes.Buffer
	_, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, path+": binary file matches\n", out.String())
}

func TestExecute_RecursiveWithExcludes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("hit\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.tmp"), []byte("hit\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.log"), []byte("hit\n"), 0644))

	include, err := globSet(t, []string{"*.log"})
	require.NoError(t, err)
	excludeDir, err := globSet(t, []string{"sub"})
	require.NoError(t, err)

	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"hit"}
	c.Paths = []string{dir}
	c.DirectoryPolicy = walk.PolicyRecurse
	c.Include = include
	c.ExcludeDir = excludeDir
	c.FileNameMode = FileNameAlways

	var out bytes.Buffer
	_, err = Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "a.log")
	assert.NotContains(t, out.String(), "b.tmp")
	assert.NotContains(t, out.String(), "c.log")
}

func TestExecute_NoMatchExitCode(t *testing.T) {
	path := writeTemp(t, "a.txt", "alpha\n")

	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"zzz"}
	c.Paths = []string{path}

	var out bytes.Buffer
	res, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.MatchFound)
}

func TestExecute_OpenErrorIsOpenNote(t *testing.T) {
	c := baseConfig()
	c.Dialect = matcher.Fixed
	c.Expressions = []string{"x"}
	c.Paths = []string{filepath.Join(t.TempDir(), "missing.txt")}

	var out bytes.Buffer
	res, err := Execute(context.Background(), c, nil, &out, &out, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, KindOpen, res.Notes[0].Kind)
}

func TestExecute_CaptureCollectsLineRecords(t *testing.T) {
	path := writeTemp(t, "a.txt", "alpha\nbeta\ngamma\n")

	c := baseConfig()
	c.Expressions = []string{"et"}
	c.Paths = []string{path}

	var out bytes.Buffer
	res, err := Execute(context.Background(), c, nil, &out, &out, true)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "beta", res.Lines[0].Line)
	assert.Equal(t, 2, res.Lines[0].LineNumber)
}
