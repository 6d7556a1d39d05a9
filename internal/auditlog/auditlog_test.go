package auditlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_DefaultSinkDiscards(t *testing.T) {
	SetSink(nil)
	Event("cli:grep", "search").Path("a.txt").Write(nil)
	// No assertion possible beyond "does not panic" with the default sink.
}

func TestWrite_EmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(nil)

	Event("cli:grep", "search").
		RunID("abc").
		Path("a.txt").
		Detail("matches", 3).
		Write(nil)

	var e Entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e))
	assert.Equal(t, "cli:grep", e.Source)
	assert.Equal(t, "abc", e.RunID)
	assert.True(t, e.Success)
	assert.Equal(t, float64(3), e.Detail["matches"])
}

func TestWrite_RecordsFailure(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(nil)

	Event("cli:grep", "search").Write(errors.New("boom"))

	var e Entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e))
	assert.False(t, e.Success)
	assert.Equal(t, "boom", e.Error)
}
