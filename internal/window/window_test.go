package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(n int, match bool) Entry {
	return Entry{Number: n, Bytes: []byte("L"), IsMatch: match}
}

func TestWindow_NoContext(t *testing.T) {
	w := New(0, 0)
	var roles []Role
	for i := 1; i <= 3; i++ {
		for _, e := range w.Push(entry(i, i == 2)) {
			roles = append(roles, e.Role)
		}
	}
	require.Len(t, roles, 1)
	assert.Equal(t, RoleMatch, roles[0])
}

func TestWindow_BeforeAfterContext(t *testing.T) {
	// L1..L7, only L4 matches, before=1 after=1.
	w := New(1, 1)
	var got []Emission
	for i := 1; i <= 7; i++ {
		got = append(got, w.Push(entry(i, i == 4))...)
	}
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].Entry.Number)
	assert.Equal(t, RoleBefore, got[0].Role)
	assert.Equal(t, 4, got[1].Entry.Number)
	assert.Equal(t, RoleMatch, got[1].Role)
	assert.Equal(t, 5, got[2].Entry.Number)
	assert.Equal(t, RoleAfter, got[2].Role)
}

func TestWindow_GroupSeparatorBetweenDisjointWindows(t *testing.T) {
	// Matches at L2 and L10 with before=1 after=1: far enough apart that a
	// separator must appear between the two windows.
	w := New(1, 1)
	var got []Emission
	for i := 1; i <= 10; i++ {
		got = append(got, w.Push(entry(i, i == 2 || i == 10))...)
	}
	var seps int
	for _, e := range got {
		if e.Role == RoleGroupSeparator {
			seps++
		}
	}
	assert.Equal(t, 1, seps)
	// separator never appears first
	assert.NotEqual(t, RoleGroupSeparator, got[0].Role)
}

func TestWindow_NoSeparatorAtStart(t *testing.T) {
	w := New(2, 0)
	got := w.Push(entry(1, true))
	require.NotEmpty(t, got)
	assert.Equal(t, RoleMatch, got[0].Role)
}

func TestWindow_NoSeparatorWhenWindowsOverlap(t *testing.T) {
	// Matches at L1 and L2 with after=1: windows touch, no gap, no separator.
	w := New(0, 1)
	var got []Emission
	got = append(got, w.Push(entry(1, true))...)
	got = append(got, w.Push(entry(2, true))...)
	for _, e := range got {
		assert.NotEqual(t, RoleGroupSeparator, e.Role)
	}
}

func TestWindow_ResetAfterCountOnRematch(t *testing.T) {
	// Two matches one line apart with after=2: second match resets the
	// after-context counter instead of stacking.
	w := New(0, 2)
	var got []Emission
	got = append(got, w.Push(entry(1, true))...)
	got = append(got, w.Push(entry(2, true))...)
	got = append(got, w.Push(entry(3, false))...)
	got = append(got, w.Push(entry(4, false))...)
	got = append(got, w.Push(entry(5, false))...)
	var after int
	for _, e := range got {
		if e.Role == RoleAfter {
			after++
		}
	}
	assert.Equal(t, 2, after)
}
