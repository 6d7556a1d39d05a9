package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestValidate_ColourAndBinary(t *testing.T) {
	c := &Config{Defaults: Defaults{Colour: "auto", Binary: "text"}}
	assert.NoError(t, c.Validate())

	c.Defaults.Colour = "loud"
	assert.ErrorIs(t, c.Validate(), ErrInvalidValue)
}

func TestValidate_NegativeContext(t *testing.T) {
	c := &Config{Defaults: Defaults{BeforeContext: intp(-1)}}
	assert.ErrorIs(t, c.Validate(), ErrInvalidValue)
}

func TestBeforeAfterContext_Defaults(t *testing.T) {
	c := &Config{}
	assert.Equal(t, 0, c.BeforeContext())
	assert.Equal(t, 0, c.AfterContext())

	c.Defaults.BeforeContext = intp(3)
	assert.Equal(t, 3, c.BeforeContext())
}

func TestLoadScope_MissingFileReturnsEmptyConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, 0, c.BeforeContext())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	c := &Config{Defaults: Defaults{Colour: "always", BeforeContext: intp(2)}}
	require.NoError(t, c.SaveScope(ScopeLocal))

	loaded, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "always", loaded.Defaults.Colour)
	assert.Equal(t, 2, loaded.BeforeContext())
}
