// Package engine is the result aggregator and top-level entry point: it
// wires the globset, matcher, scan, lines, window, and format packages
// into the single-threaded, cooperative pipeline described in spec §5,
// mirroring the teacher's grep.Run(ctx, w, svc, pattern, opts) top-level
// shape (internal/grep/grep.go) but generalised to the full data model.
package engine

import (
	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/globset"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/scan"
	"github.com/evanj-au/grepr/internal/walk"
)

// OutputMode selects one of grep's mutually-exclusive whole-output modes.
type OutputMode int

const (
	// OutputNormal prints selected and context lines as they are found.
	OutputNormal OutputMode = iota
	// OutputFilesWithMatches prints only the names of matching sources (-l).
	OutputFilesWithMatches
	// OutputFilesWithoutMatch prints only the names of non-matching sources (-L).
	OutputFilesWithoutMatch
	// OutputCountOnly prints only the per-source match count (-c).
	OutputCountOnly
)

// FileNameMode resolves the three-way state of filename output: left to the
// engine's own "more than one source" default, forced on, or forced off.
// A plain bool cannot express "explicitly off" distinctly from "unset", so
// -h/--no-filename would otherwise be silently overridden by the
// more-than-one-source default when searching multiple files.
type FileNameMode int

const (
	// FileNameAuto shows the filename iff more than one source is searched.
	FileNameAuto FileNameMode = iota
	// FileNameAlways always shows the filename (-H).
	FileNameAlways
	// FileNameNever never shows the filename (-h), even for multiple sources.
	FileNameNever
)

// Config is the immutable configuration value the whole engine run is
// driven by, covering every field spec §3's Configuration names.
type Config struct {
	// Expression compiler inputs.
	Dialect     matcher.Dialect
	IgnoreCase  bool
	WordRegexp  bool
	LineRegexp  bool
	InvertMatch bool
	Expressions []string

	MaxCount int // 0 = unlimited

	// Output toggles.
	FileNameMode     FileNameMode
	LineNumberOutput bool
	ByteOffsetOutput bool
	OnlyMatching     bool
	LineBuffered     bool
	Quiet            bool
	InitialTab       bool
	NullAfterHeader  bool // -Z

	// Separators, taken as raw strings. The CLI exposes no separator flags
	// and uses the DefaultConfig values; no escape sequences are decoded.
	ResultSep          string
	ContextResultSep   string
	NameNumSep         string
	NameByteSep        string
	ContextNameNumSep  string
	ContextNameByteSep string
	ContextGroupSep    string

	BeforeContext int
	AfterContext  int

	BinaryPolicy scan.BinaryPolicy

	DirectoryPolicy walk.Policy
	Include         *globset.Set
	Exclude         *globset.Set
	ExcludeDir      *globset.Set

	Label string // name used for the default-stream source

	Delimiter byte // end-of-line byte, default 0x0A
	StripCR   bool // strip a trailing CR from each line; off under -U

	ColourMode colour.Mode
	Palette    colour.Palette

	Paths []string // positional path arguments

	OutputMode OutputMode

	NoMessages bool // -s: suppress kind 2-4 messages to the error sink

	MaxLineLength int // 0 selects lines.DefaultMaxLineLength

	// RunID is the per-run correlation id threaded into audit-log entries
	// and the MCP tool surface. Left empty, Execute generates one.
	RunID string
}

// DefaultConfig returns a Config with the classic grep defaults applied:
// basic-regexp dialect, 0x0A delimiter, default separators and palette,
// read-only directory policy, binary-policy "binary", colour auto.
func DefaultConfig() Config {
	return Config{
		Dialect:            matcher.Basic,
		Delimiter:          '\n',
		StripCR:            true,
		ResultSep:          ":",
		ContextResultSep:   "-",
		NameNumSep:         ":",
		NameByteSep:        ":",
		ContextNameNumSep:  "-",
		ContextNameByteSep: "-",
		ContextGroupSep:    "--",
		BinaryPolicy:       scan.PolicyBinary,
		DirectoryPolicy:    walk.PolicyRead,
		Label:              "(standard input)",
		ColourMode:         colour.Auto,
		Palette:            colour.Default(),
		OutputMode:         OutputNormal,
	}
}
