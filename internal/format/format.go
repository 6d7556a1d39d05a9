// Package format renders one matched (or context) line into the output
// byte sequence, composing filename/line-number/byte-offset headers,
// separators, and colour segments in the fixed order spec §4.5 describes.
//
// This replaces the teacher's internal/format package (which rendered
// document lists, trees, and version-history diffs) with the single
// line-record renderer grep actually needs; the io.Writer-sink convention
// is carried over from it.
package format

import (
	"bytes"
	"io"
	"strconv"

	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/window"
)

// Record is one line (or group separator) ready to be rendered.
type Record struct {
	Path       string
	LineNumber int
	Offset     int64
	Line       []byte
	Spans      []matcher.Span // nil when WholeMatch is true
	WholeMatch bool           // true in --only-matching mode: Line itself is the payload
	Role       window.Role
}

// Options mirrors the separator/header/toggle portion of spec §3's
// Configuration, already resolved (escape sequences decoded, defaults
// applied).
type Options struct {
	FileName        bool
	LineNumber      bool
	ByteOffset      bool
	OnlyMatching    bool
	InitialTab      bool // -T: append a tab to every header separator value (not the group separator)
	NullAfterHeader bool // -Z: append 0x00 after the result separator

	ResultSep          string
	ContextResultSep   string
	NameNumSep         string
	NameByteSep        string
	ContextNameNumSep  string
	ContextNameByteSep string
	ContextGroupSep    string

	Delimiter byte // line terminator to append (0x0A, or 0x00 under -z)
}

// Write renders rec to w using opts and c. A group-separator record emits
// only ContextGroupSep (or nothing, if that separator is empty) and never
// consults any other field.
func Write(w io.Writer, rec Record, opts Options, c *colour.Colorizer) error {
	if rec.Role == window.RoleGroupSeparator {
		if opts.ContextGroupSep == "" {
			return nil
		}
		_, err := io.WriteString(w, opts.ContextGroupSep+string(rune(opts.Delimiter)))
		return err
	}

	isContext := rec.Role != window.RoleMatch

	var buf bytes.Buffer
	haveName := opts.FileName
	haveNum := opts.LineNumber
	haveByte := opts.ByteOffset

	if haveName {
		buf.WriteString(c.FileName(rec.Path))
	}
	if haveName && haveNum {
		buf.WriteString(c.Separator(sepTab(pick(isContext, opts.ContextNameNumSep, opts.NameNumSep), opts.InitialTab)))
	}
	if haveNum {
		buf.WriteString(c.LineNumber(strconv.Itoa(rec.LineNumber)))
	}
	if haveByte && (haveName || haveNum) {
		buf.WriteString(c.Separator(sepTab(pick(isContext, opts.ContextNameByteSep, opts.NameByteSep), opts.InitialTab)))
	}
	if haveByte {
		buf.WriteString(c.ByteOffset(strconv.FormatInt(rec.Offset, 10)))
	}

	// The result separator (and any -Z NUL byte after it) only appears
	// when at least one header field precedes it; with no headers enabled
	// the line payload is emitted bare.
	if haveName || haveNum || haveByte {
		resultSep := pick(isContext, opts.ContextResultSep, opts.ResultSep)
		buf.WriteString(c.Separator(sepTab(resultSep, opts.InitialTab)))
		if opts.NullAfterHeader {
			buf.WriteByte(0x00)
		}
	}

	lineColor, matchColor := c.Line, c.Match
	if isContext {
		lineColor, matchColor = c.Context, c.MatchContext
	}

	if rec.WholeMatch {
		buf.WriteString(matchColor(string(rec.Line)))
	} else {
		last := 0
		for _, s := range rec.Spans {
			buf.WriteString(lineColor(string(rec.Line[last:s.Start])))
			buf.WriteString(matchColor(string(rec.Line[s.Start:s.End])))
			last = s.End
		}
		buf.WriteString(lineColor(string(rec.Line[last:])))
	}
	buf.WriteByte(opts.Delimiter)

	_, err := w.Write(buf.Bytes())
	return err
}

func pick(isContext bool, contextVal, normalVal string) string {
	if isContext {
		return contextVal
	}
	return normalVal
}

func sepTab(sep string, initialTab bool) string {
	if initialTab {
		return sep + "\t"
	}
	return sep
}
