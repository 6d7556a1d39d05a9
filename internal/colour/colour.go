// Package colour resolves the auto/always/never colour policy against the
// output sink's terminal capability and renders ANSI CSI escape sequences
// from a palette. The palette is seeded from a GREP_COLORS-style
// colon-delimited environment string, folding the zero-value default the
// same way the teacher's internal/diff package hardcodes its red/green/
// reset literals, but data-driven instead of hardcoded.
package colour

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode selects when colour codes are emitted.
type Mode int

const (
	// Auto emits codes iff the sink is a terminal.
	Auto Mode = iota
	// Always emits codes regardless of the sink.
	Always
	// Never never emits codes.
	Never
)

// reset is the SGR reset sequence appended after a coloured segment unless
// the palette's NoReset flag suppresses it.
const reset = "\x1b[0m"

// Palette is the resolved mapping of colour roles to ANSI parameter
// strings (the portion between "\x1b[" and "m").
type Palette struct {
	Match        string // ms: match text in a selected line
	MatchContext string // mc: match text in a context line
	SelectedLine string // sl: non-match portion of a selected line
	Context      string // cx: non-match portion of a context line
	FileName     string // fn
	LineNumber   string // ln
	ByteOffset   string // bn
	Separator    string // se
	NoReset      bool   // ne: suppress the reset sequence at end of segment
}

// Default returns the built-in palette, matching classic grep's defaults:
// ms=01;31, mc=01;31, sl='', cx='', fn=35, ln=32, bn=32, se=36, ne=false.
func Default() Palette {
	return Palette{
		Match:        "01;31",
		MatchContext: "01;31",
		SelectedLine: "",
		Context:      "",
		FileName:     "35",
		LineNumber:   "32",
		ByteOffset:   "32",
		Separator:    "36",
	}
}

// ParseEnv seeds a palette from a GREP_COLORS-style string: "key=value"
// pairs separated by ':'. Unknown keys are ignored; a key with no '='
// (a boolean flag like "rv" or "ne") is accepted for the two flag keys and
// ignored for any other. "mt", when present, sets both Match and
// MatchContext before any later ms/mc override is applied. "rv" swaps the
// sl/cx and ms/mc role pairs once, at parse time.
func ParseEnv(s string) Palette {
	p := Default()
	if s == "" {
		return p
	}

	var reverse bool
	for _, field := range strings.Split(s, ":") {
		if field == "" {
			continue
		}
		key, value, hasValue := strings.Cut(field, "=")
		switch key {
		case "mt":
			if hasValue {
				p.Match, p.MatchContext = value, value
			}
		case "ms":
			if hasValue {
				p.Match = value
			}
		case "mc":
			if hasValue {
				p.MatchContext = value
			}
		case "sl":
			if hasValue {
				p.SelectedLine = value
			}
		case "cx":
			if hasValue {
				p.Context = value
			}
		case "fn":
			if hasValue {
				p.FileName = value
			}
		case "ln":
			if hasValue {
				p.LineNumber = value
			}
		case "bn":
			if hasValue {
				p.ByteOffset = value
			}
		case "se":
			if hasValue {
				p.Separator = value
			}
		case "rv":
			reverse = true
		case "ne":
			p.NoReset = true
		}
		// Any other key, or a malformed "key=" with no recognised name,
		// is silently ignored per spec.
	}

	if reverse {
		p.SelectedLine, p.Context = p.Context, p.SelectedLine
		p.Match, p.MatchContext = p.MatchContext, p.Match
	}
	return p
}

// Enabled resolves the mode against w: Always/Never are unconditional;
// Auto checks whether w is a terminal (a capture buffer is never a
// terminal, so Auto behaves as Never there).
func (m Mode) Enabled(w io.Writer) bool {
	switch m {
	case Always:
		return true
	case Never:
		return false
	default:
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		return term.IsTerminal(int(f.Fd()))
	}
}

// Colorizer wraps text in the palette's ANSI codes when enabled, and
// passes it through unchanged otherwise.
type Colorizer struct {
	enabled bool
	palette Palette
}

// New resolves mode against w and binds palette for subsequent Wrap calls.
func New(mode Mode, w io.Writer, palette Palette) *Colorizer {
	return &Colorizer{enabled: mode.Enabled(w), palette: palette}
}

// Enabled reports whether this Colorizer emits ANSI codes.
func (c *Colorizer) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Colorizer) wrap(code, s string) string {
	if !c.Enabled() || code == "" {
		return s
	}
	r := reset
	if c.palette.NoReset {
		r = ""
	}
	return "\x1b[" + code + "m" + s + r
}

// Match colours a match span within a selected line.
func (c *Colorizer) Match(s string) string { return c.wrap(c.palette.Match, s) }

// MatchContext colours a match span within a context line.
func (c *Colorizer) MatchContext(s string) string { return c.wrap(c.palette.MatchContext, s) }

// Line colours the non-match portion of a selected line.
func (c *Colorizer) Line(s string) string { return c.wrap(c.palette.SelectedLine, s) }

// Context colours the non-match portion of a context line.
func (c *Colorizer) Context(s string) string { return c.wrap(c.palette.Context, s) }

// FileName colours a filename header segment.
func (c *Colorizer) FileName(s string) string { return c.wrap(c.palette.FileName, s) }

// LineNumber colours a line-number header segment.
func (c *Colorizer) LineNumber(s string) string { return c.wrap(c.palette.LineNumber, s) }

// ByteOffset colours a byte-offset header segment.
func (c *Colorizer) ByteOffset(s string) string { return c.wrap(c.palette.ByteOffset, s) }

// Separator colours a field separator.
func (c *Colorizer) Separator(s string) string { return c.wrap(c.palette.Separator, s) }
