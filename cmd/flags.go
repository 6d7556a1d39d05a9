// flags.go defines the CLI's flag surface and the config value it resolves
// to, following the teacher's separation of flag definitions (cmd/flags.go)
// from command wiring (cmd/root.go).
//
// Design: grep has no subcommands, so every flag lives on the single root
// command rather than being split into persistent vs. local flags the way
// the teacher's multi-command tree does. -l/-L/-c are mutually exclusive in
// spirit but classic grep resolves "more than one given" as last-wins;
// outputModeFromFlags approximates parse order by each flag's position in
// os.Args (flagOrdinal) so that rule applies without depending on pflag
// internals.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/config"
	"github.com/evanj-au/grepr/internal/engine"
	"github.com/evanj-au/grepr/internal/globset"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/scan"
	"github.com/evanj-au/grepr/internal/walk"
)

var (
	patternArgs  []string // -e/--regexp
	patternFiles []string // -f/--file
	positional   string   // positional pattern, when -e/-f are absent

	extendedRegexp bool
	basicRegexp    bool
	fixedStrings   bool
	perlRegexp     bool

	ignoreCase  bool
	wordRegexp  bool
	lineRegexp  bool
	invertMatch bool

	maxCount int

	lineNumber        bool
	withFilename      bool
	noFilename        bool
	byteOffset        bool
	onlyMatching      bool
	quiet             bool
	noMessages        bool
	initialTab        bool
	nullAfterHeader   bool
	lineBuffered      bool
	label             string
	filesWithMatches  bool
	filesWithoutMatch bool
	countOnly         bool

	afterContext  int
	beforeContext int
	contextBoth   int

	textBinary         bool
	binaryWithoutMatch bool
	binaryFilesFlag    string
	dosBinary          bool // -U/--binary: do not strip a trailing CR

	recursive            bool
	recursiveFollowLinks bool
	directoriesMode      string
	includePatterns      []string
	excludePatterns      []string
	excludeDirGlobs      []string

	nullData          bool
	lineDelimiterByte int

	colorFlag string

	showVersion bool
)

func bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.StringArrayVarP(&patternArgs, "regexp", "e", nil, "pattern to match (repeatable)")
	f.StringArrayVarP(&patternFiles, "file", "f", nil, "read patterns from file, one per line (repeatable)")

	f.BoolVarP(&extendedRegexp, "extended-regexp", "E", false, "PATTERN is an extended regular expression")
	f.BoolVarP(&basicRegexp, "basic-regexp", "G", false, "PATTERN is a basic regular expression (default)")
	f.BoolVarP(&fixedStrings, "fixed-strings", "F", false, "PATTERN is a set of literal strings")
	f.BoolVarP(&perlRegexp, "perl-regexp", "P", false, "PATTERN is a Perl-compatible regular expression (RE2 subset)")

	f.BoolVarP(&ignoreCase, "ignore-case", "i", false, "ignore case distinctions")
	f.BoolVarP(&wordRegexp, "word-regexp", "w", false, "match only whole words")
	f.BoolVarP(&lineRegexp, "line-regexp", "x", false, "match only whole lines")
	f.BoolVarP(&invertMatch, "invert-match", "v", false, "select non-matching lines")

	f.IntVarP(&maxCount, "max-count", "m", 0, "stop after NUM matches")

	f.BoolVarP(&lineNumber, "line-number", "n", false, "print line number with output lines")
	f.BoolVarP(&withFilename, "with-filename", "H", false, "print file name with output lines")
	f.BoolVarP(&noFilename, "no-filename", "h", false, "suppress file name prefix")
	f.BoolVarP(&byteOffset, "byte-offset", "b", false, "print byte offset with output lines")
	f.BoolVarP(&onlyMatching, "only-matching", "o", false, "print only the matched parts of a line")
	f.BoolVarP(&quiet, "quiet", "q", false, "suppress all normal output")
	f.BoolVar(&quiet, "silent", false, "alias for --quiet")
	f.BoolVarP(&noMessages, "no-messages", "s", false, "suppress error messages")
	f.BoolVarP(&initialTab, "initial-tab", "T", false, "widen separators with a trailing tab")
	f.BoolVarP(&nullAfterHeader, "null", "Z", false, "print a NUL after the header's result separator")
	f.BoolVar(&lineBuffered, "line-buffered", false, "flush output on every line")
	f.StringVar(&label, "label", "", "label to use for standard input")

	f.BoolVarP(&filesWithMatches, "files-with-matches", "l", false, "print only names of files containing matches")
	f.BoolVarP(&filesWithoutMatch, "files-without-match", "L", false, "print only names of files with no match")
	f.BoolVarP(&countOnly, "count", "c", false, "print only a count of matching lines per file")

	f.IntVarP(&afterContext, "after-context", "A", 0, "print NUM lines of trailing context")
	f.IntVarP(&beforeContext, "before-context", "B", 0, "print NUM lines of leading context")
	f.IntVarP(&contextBoth, "context", "C", 0, "print NUM lines of leading and trailing context")

	f.BoolVarP(&textBinary, "text", "a", false, "treat binary files as text")
	f.BoolVarP(&binaryWithoutMatch, "binary-without-match", "I", false, "skip binary files")
	f.StringVar(&binaryFilesFlag, "binary-files", "", "binary, text, or without-match")
	f.BoolVarP(&dosBinary, "binary", "U", false, "do not strip a trailing CR from lines (CRLF input)")

	f.BoolVarP(&recursive, "recursive", "r", false, "recurse into directories")
	f.BoolVarP(&recursiveFollowLinks, "dereference-recursive", "R", false, "recurse into directories, following symlinks")
	f.StringVarP(&directoriesMode, "directories", "d", "read", "read, skip, or recurse")
	f.StringArrayVar(&includePatterns, "include", nil, "only search files matching GLOB (repeatable, space-separated)")
	f.StringArrayVar(&excludePatterns, "exclude", nil, "skip files matching GLOB (repeatable, space-separated)")
	f.StringArrayVar(&excludeDirGlobs, "exclude-dir", nil, "skip directories matching GLOB (repeatable, space-separated)")

	f.BoolVarP(&nullData, "null-data", "z", false, "lines are terminated by a zero byte")
	f.IntVar(&lineDelimiterByte, "line-delimiter-byte", 0, "use this byte value (1-255) as the line delimiter instead of newline; 0 keeps newline")

	f.StringVar(&colorFlag, "color", "", "auto, always, or never")
	f.StringVar(&colorFlag, "colour", "", "alias for --color")

	f.BoolVar(&showVersion, "version", false, "print version information and exit")
	f.Bool("guide", false, "show the grepr usage guide")
}

// resolvedDialect picks the dialect flag seen, defaulting to basic; -E/-F/-P
// each win over -G the way reference grep's last-flag-wins applies across
// dialect flags too, but since only one is expected in practice we simply
// check in a fixed priority order matching the flag list above.
func resolvedDialect() matcher.Dialect {
	switch {
	case perlRegexp:
		return matcher.Perl
	case fixedStrings:
		return matcher.Fixed
	case extendedRegexp:
		return matcher.Extended
	default:
		return matcher.Basic
	}
}

func resolvedBinaryPolicy() (scan.BinaryPolicy, error) {
	switch {
	case binaryFilesFlag != "":
		switch binaryFilesFlag {
		case "binary":
			return scan.PolicyBinary, nil
		case "text":
			return scan.PolicyText, nil
		case "without-match":
			return scan.PolicyWithoutMatch, nil
		default:
			return scan.PolicyBinary, fmt.Errorf("invalid --binary-files value %q: want binary, text, or without-match", binaryFilesFlag)
		}
	case textBinary:
		return scan.PolicyText, nil
	case binaryWithoutMatch:
		return scan.PolicyWithoutMatch, nil
	default:
		return scan.PolicyBinary, nil
	}
}

func resolvedDirectoryPolicy() (walk.Policy, error) {
	if recursiveFollowLinks {
		return walk.PolicyRecurseFollowSymlinks, nil
	}
	if recursive {
		return walk.PolicyRecurse, nil
	}
	switch directoriesMode {
	case "", "read":
		return walk.PolicyRead, nil
	case "skip":
		return walk.PolicySkip, nil
	case "recurse":
		return walk.PolicyRecurse, nil
	default:
		return walk.PolicyRead, fmt.Errorf("invalid --directories value %q: want read, skip, or recurse", directoriesMode)
	}
}

func resolvedColourMode() (colour.Mode, error) {
	switch colorFlag {
	case "", "auto":
		return colour.Auto, nil
	case "always":
		return colour.Always, nil
	case "never":
		return colour.Never, nil
	default:
		return colour.Auto, fmt.Errorf("invalid --color value %q: want auto, always, or never", colorFlag)
	}
}

func collectExpressions() ([]string, error) {
	var patterns []string
	patterns = append(patterns, patternArgs...)
	for _, path := range patternFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line != "" {
				patterns = append(patterns, line)
			}
		}
	}
	if len(patterns) == 0 && positional != "" {
		patterns = append(patterns, positional)
	}
	return patterns, nil
}

// resolvedDefaults layers an optional config file under explicit flag
// values: a flag the user actually set always wins; otherwise a configured
// default (colour mode, context counts, binary policy, palette overrides)
// is applied before GREP_COLORS and the built-in defaults.
func resolvedDefaults(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cmd.Flags().Changed("color") && !cmd.Flags().Changed("colour") && cfg.Defaults.Colour != "" {
		colorFlag = cfg.Defaults.Colour
	}
	if !cmd.Flags().Changed("before-context") && !cmd.Flags().Changed("context") {
		beforeContext = cfg.BeforeContext()
	}
	if !cmd.Flags().Changed("after-context") && !cmd.Flags().Changed("context") {
		afterContext = cfg.AfterContext()
	}
	if !cmd.Flags().Changed("binary-files") && cfg.Defaults.Binary != "" {
		binaryFilesFlag = cfg.Defaults.Binary
	}
	return cfg, nil
}

func applyPalette(base colour.Palette, overrides map[string]string) colour.Palette {
	if len(overrides) == 0 {
		return base
	}
	var b strings.Builder
	for k, v := range overrides {
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	// GREP_COLORS goes after the overrides so its keys win over them.
	if env := os.Getenv("GREP_COLORS"); env != "" {
		b.WriteByte(':')
		b.WriteString(env)
	}
	return colour.ParseEnv(b.String())
}

func delimiterByte() (byte, error) {
	if nullData {
		return 0x00, nil
	}
	if lineDelimiterByte != 0 {
		if lineDelimiterByte < 0 || lineDelimiterByte > 255 {
			return 0, fmt.Errorf("--line-delimiter-byte must be 0-255, got %d", lineDelimiterByte)
		}
		return byte(lineDelimiterByte), nil
	}
	return '\n', nil
}

func parseGlobFlag(raw []string) (*globset.Set, error) {
	values, err := globset.Parse(raw)
	if err != nil {
		return nil, err
	}
	return globset.New(values)
}

// outputModeFromFlags applies -l/-L/-c with last-wins semantics, ordering
// them by their position in os.Args (see flagOrdinal).
func outputModeFromFlags(cmd *cobra.Command) engine.OutputMode {
	type tagged struct {
		mode    engine.OutputMode
		ordinal int
	}
	var modes []tagged
	if filesWithMatches {
		modes = append(modes, tagged{engine.OutputFilesWithMatches, flagOrdinal(cmd, "files-with-matches")})
	}
	if filesWithoutMatch {
		modes = append(modes, tagged{engine.OutputFilesWithoutMatch, flagOrdinal(cmd, "files-without-match")})
	}
	if countOnly {
		modes = append(modes, tagged{engine.OutputCountOnly, flagOrdinal(cmd, "count")})
	}
	if len(modes) == 0 {
		return engine.OutputNormal
	}
	winner := modes[0]
	for _, m := range modes[1:] {
		if m.ordinal > winner.ordinal {
			winner = m
		}
	}
	return winner.mode
}

// flagOrdinal approximates command-line parse order via the flag's
// position in os.Args, since pflag does not expose parse order directly.
func flagOrdinal(_ *cobra.Command, name string) int {
	for i, arg := range os.Args {
		if arg == "--"+name || strings.HasPrefix(arg, "--"+name+"=") {
			return i
		}
	}
	// Short-flag forms (-l, -L, -c) are matched by their known single
	// character, since they may be bundled with other short flags.
	short := map[string]byte{"files-with-matches": 'l', "files-without-match": 'L', "count": 'c'}[name]
	for i, arg := range os.Args {
		if len(arg) >= 2 && arg[0] == '-' && arg[1] != '-' && strings.IndexByte(arg[1:], short) >= 0 {
			return i
		}
	}
	return -1
}
