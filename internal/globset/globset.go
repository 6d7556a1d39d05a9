// Package globset tests paths against shell-style glob patterns, extending
// the teacher's filepath.Match-based internal/glob package with full
// `**` support (via github.com/bmatcuk/doublestar/v4) and multi-pattern
// sets so --include/--exclude/--exclude-dir can each be repeated and each
// occurrence can itself carry several space-separated glob values, the way
// the original greplica argparse definitions accept `nargs='+', action='extend'`.
package globset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Set is an ordered collection of glob patterns tested as a disjunction:
// a path matches the set if it matches any pattern in it.
type Set struct {
	patterns []string
}

// New validates patterns and returns a Set. An empty pattern list yields a
// Set that matches nothing.
func New(patterns []string) (*Set, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("globset: invalid pattern %q", p)
		}
	}
	return &Set{patterns: patterns}, nil
}

// Parse splits each raw flag value on whitespace (mirroring --include/
// --exclude's `nargs='+'` behaviour, one flag occurrence can carry several
// values) and returns all resulting globs in order.
func Parse(rawValues []string) ([]string, error) {
	var out []string
	for _, raw := range rawValues {
		out = append(out, strings.Fields(raw)...)
	}
	return out, nil
}

// Empty reports whether the set has no patterns.
func (s *Set) Empty() bool {
	return s == nil || len(s.patterns) == 0
}

// Match reports whether name (typically filepath.Base(path), but full
// relative paths are also accepted for exclude-dir checks) matches any
// pattern in the set.
func (s *Set) Match(name string) (bool, error) {
	if s.Empty() {
		return false, nil
	}
	name = filepath.ToSlash(name)
	for _, p := range s.patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("globset: matching %q against %q: %w", name, p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
