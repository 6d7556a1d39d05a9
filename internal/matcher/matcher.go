// Package matcher compiles raw pattern strings plus a dialect/flag block
// into a single runtime matcher able to find all match spans within a line.
//
// Dialects are normalised at compile time, not at match time: fixed strings
// are escaped, basic-regexp metacharacter escaping is inverted to match
// extended-regexp/Go regexp semantics, and word/line/case modifiers are
// folded into the compiled pattern once. invert_match is deliberately not
// handled here; the source scanner (internal/engine) applies it as a
// predicate flip before feeding the window, so match spans remain
// available for colour output even on inverted runs.
package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects the pattern syntax family.
type Dialect int

const (
	// Basic is POSIX basic regular expression syntax (grep default).
	Basic Dialect = iota
	// Extended is POSIX extended regular expression syntax (-E).
	Extended
	// Fixed treats every pattern as a literal string (-F).
	Fixed
	// Perl is Perl-compatible syntax (-P). Go's RE2 engine is used under
	// the hood, so constructs requiring backtracking (backreferences,
	// lookaround) are not supported; this is a documented difference from
	// a reference PCRE engine, not a bug.
	Perl
)

// Options controls how patterns are folded into the compiled matcher.
type Options struct {
	Dialect    Dialect
	IgnoreCase bool
	WordRegexp bool // -w: wrap each disjunct in \b...\b
	LineRegexp bool // -x: anchor each disjunct to the whole line
}

// Span is a half-open byte interval [Start, End) within a line where the
// matcher reported a hit.
type Span struct {
	Start, End int
}

// ErrNoExpressions is returned when Compile is given zero patterns.
var ErrNoExpressions = errors.New("matcher: no expressions provided")

// Matcher is a compiled, immutable matcher: same input line always yields
// the same spans.
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a Matcher from the raw pattern list (already split out of
// -e, -f files, or the positional argument) and the dialect/flag block.
func Compile(patterns []string, opts Options) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, ErrNoExpressions
	}

	disjuncts := make([]string, len(patterns))
	for i, p := range patterns {
		switch opts.Dialect {
		case Fixed:
			disjuncts[i] = regexp.QuoteMeta(p)
		case Basic:
			disjuncts[i] = invertBasicEscaping(p)
		case Extended, Perl:
			disjuncts[i] = p
		default:
			disjuncts[i] = p
		}
		if opts.WordRegexp {
			disjuncts[i] = `\b(?:` + disjuncts[i] + `)\b`
		}
		if opts.LineRegexp {
			disjuncts[i] = `\A(?:` + disjuncts[i] + `)\z`
		}
	}

	pattern := disjuncts[0]
	if len(disjuncts) > 1 {
		pattern = "(?:" + strings.Join(disjuncts, "|") + ")"
	}
	if opts.IgnoreCase {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	return &Matcher{re: re}, nil
}

// FindAll returns every non-overlapping match span in line, sorted by
// start, or nil if there is no match.
func (m *Matcher) FindAll(line []byte) []Span {
	idx := m.re.FindAllIndex(line, -1)
	if idx == nil {
		return nil
	}
	spans := make([]Span, len(idx))
	for i, p := range idx {
		spans[i] = Span{Start: p[0], End: p[1]}
	}
	return spans
}

// MatchesLine reports whether line contains at least one match span.
func (m *Matcher) MatchesLine(line []byte) bool {
	return m.re.Match(line)
}

// invertBasicEscaping rewrites a basic-regexp pattern so that the seven
// characters with inverted meaning in BRE (`? + { } | ( )`) end up with the
// escaping Go's regexp engine (ERE-like) expects: a character that is
// literal-unless-escaped in BRE becomes escaped-to-be-literal here, and a
// character that is special-only-when-escaped in BRE becomes unescaped
// (and therefore special) here.
func invertBasicEscaping(pattern string) string {
	const special = `(){}+?|`
	var b strings.Builder
	b.Grow(len(pattern) + 8)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			if strings.IndexByte(special, next) >= 0 {
				// BRE: escaped -> special. Emit unescaped so the host
				// engine treats it as special too.
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
			continue
		}
		if strings.IndexByte(special, c) >= 0 {
			// BRE: unescaped -> literal. Escape it for the host engine.
			b.WriteByte('\\')
			b.WriteByte(c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
