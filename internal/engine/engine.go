package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/evanj-au/grepr/internal/auditlog"
	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/format"
	"github.com/evanj-au/grepr/internal/lines"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/scan"
	"github.com/evanj-au/grepr/internal/walk"
	"github.com/evanj-au/grepr/internal/window"
)

// Kind classifies a Note the way spec §7 defines error kinds.
type Kind int

const (
	// KindConfiguration covers bad flag combinations or an uncompilable
	// pattern: the run never starts scanning.
	KindConfiguration Kind = iota
	// KindOpen covers a source that could not be opened (missing file,
	// permission denied).
	KindOpen
	// KindRead covers an I/O failure partway through a source, including
	// reading a directory given under the "read" directory policy. A line
	// exceeding the configured maximum length is reported through
	// FileSummary.Truncated instead.
	KindRead
	// KindTraversal covers informational directory-walk notes (a directory
	// skipped under the "skip" policy, a symlink loop). Walk errors, such
	// as an unreadable subdirectory, are recorded as KindOpen.
	KindTraversal
)

// Note is one non-fatal or fatal message produced during a run.
type Note struct {
	Kind    Kind
	Path    string
	Message string
}

// LineRecord is one selected or context line surfaced in a captured Result,
// mirroring spec §3's Line record.
type LineRecord struct {
	Path       string
	LineNumber int
	Offset     int64
	Line       string
	Spans      []matcher.Span
	IsMatch    bool
}

// FileSummary is the per-source tally spec §3 calls the per-file summary.
type FileSummary struct {
	Path      string
	Matches   int
	IsBinary  bool
	Truncated bool // a line exceeded the maximum length; scanning of the source stopped there
}

// Result is the result bundle returned by Execute.
type Result struct {
	RunID       string
	Files       []FileSummary
	Lines       []LineRecord // only populated when Execute's capture is true
	Notes       []Note
	MatchFound  bool
	ExitCode    int // 0 = match(es) found, 1 = none found, 2 = an error occurred
}

// Execute runs one grep invocation end to end: compiling the matcher,
// expanding the path list, scanning each source, and writing formatted
// output to stdout (unless c.Quiet, or an output mode suppresses per-line
// output). When capture is true every selected and context line is also
// collected into Result.Lines, for library and MCP callers that want
// structured data rather than formatted text.
func Execute(ctx context.Context, c Config, stdin io.Reader, stdout, stderr io.Writer, capture bool) (Result, error) {
	runID := c.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	res := Result{RunID: runID}

	logEvent := auditlog.Event("cli:grep", "search").RunID(runID)

	m, err := matcher.Compile(c.Expressions, matcher.Options{
		Dialect:    c.Dialect,
		IgnoreCase: c.IgnoreCase,
		WordRegexp: c.WordRegexp,
		LineRegexp: c.LineRegexp,
	})
	if err != nil {
		res.Notes = append(res.Notes, Note{Kind: KindConfiguration, Message: err.Error()})
		res.ExitCode = 2
		logEvent.Detail("files", 0).Write(err)
		return res, fmt.Errorf("compiling pattern: %w", err)
	}

	col := colour.New(c.ColourMode, stdout, c.Palette)

	out := bufferedStdout(stdout, c.LineBuffered)
	if bw, ok := out.(*bufio.Writer); ok {
		defer bw.Flush()
	}

	var entries []walk.Entry
	walk.Expand(c.Paths, walk.Options{
		Policy:     c.DirectoryPolicy,
		Include:    c.Include,
		Exclude:    c.Exclude,
		ExcludeDir: c.ExcludeDir,
	}, walk.Visitor{
		Entry: func(e walk.Entry) { entries = append(entries, e) },
		Note: func(n walk.Note) {
			kind := KindTraversal
			if n.IsError {
				kind = KindOpen
			}
			res.Notes = append(res.Notes, Note{Kind: kind, Path: n.Path, Message: n.Message})
		},
	})

	multiSource := len(entries) > 1
	showFileName := c.FileNameMode == FileNameAlways ||
		(c.FileNameMode == FileNameAuto && multiSource)

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if c.Quiet && res.MatchFound {
			break
		}
		summary, recs, werr := scanOne(c, entry, m, col, stdin, out, showFileName, capture)
		if werr != nil {
			kind := KindRead
			if errors.Is(werr, os.ErrNotExist) || errors.Is(werr, os.ErrPermission) {
				kind = KindOpen
			}
			res.Notes = append(res.Notes, Note{Kind: kind, Path: summary.Path, Message: werr.Error()})
		}
		res.Files = append(res.Files, summary)
		res.Lines = append(res.Lines, recs...)
		if summary.Matches > 0 {
			res.MatchFound = true
		}
	}

	if res.MatchFound {
		res.ExitCode = 0
	} else {
		res.ExitCode = 1
	}
	if hasFatalNote(res.Notes) {
		res.ExitCode = 2
	}

	logEvent.Detail("files", len(res.Files)).Detail("matched", res.MatchFound).Write(nil)
	return res, nil
}

func hasFatalNote(notes []Note) bool {
	for _, n := range notes {
		if n.Kind == KindOpen || n.Kind == KindRead || n.Kind == KindConfiguration {
			return true
		}
	}
	return false
}

// scanOne scans a single source end to end and, unless c.Quiet or an
// output mode other than OutputNormal suppresses it, writes formatted
// output to stdout.
func scanOne(c Config, entry walk.Entry, m *matcher.Matcher, col *colour.Colorizer, stdin io.Reader, stdout io.Writer, showFileName bool, capture bool) (FileSummary, []LineRecord, error) {
	var src *scan.Source
	var err error
	displayPath := entry.Path
	if entry.IsDefaultStream {
		displayPath = c.Label
		src = scan.FromReader(displayPath, io.NopCloser(stdin))
	} else {
		src, err = scan.Open(entry.Path)
		if err != nil {
			return FileSummary{Path: displayPath}, nil, err
		}
	}
	defer src.Close()

	summary := FileSummary{Path: displayPath}

	br := src.Reader()
	isBinary, err := scan.IsBinary(br, c.Delimiter)
	if err != nil {
		return summary, nil, err
	}
	summary.IsBinary = isBinary

	if isBinary && c.BinaryPolicy == scan.PolicyWithoutMatch {
		return summary, nil, nil
	}

	maxLineLength := c.MaxLineLength
	sp := lines.New(br, c.Delimiter, c.StripCR, maxLineLength)
	win := window.New(c.BeforeContext, c.AfterContext)

	var recs []LineRecord
	selected := 0
	binaryMatchReported := false

	for sp.Scan() {
		ln := sp.Line()
		spans := m.FindAll(ln.Bytes)
		isMatch := len(spans) > 0
		if c.InvertMatch {
			// spans are kept so matching text in context lines can still
			// be coloured.
			isMatch = !isMatch
		}

		// A match arriving while the last match's after-context drains ends
		// the source rather than being selected past max_count.
		if isMatch && c.MaxCount > 0 && selected >= c.MaxCount {
			break
		}

		if isMatch {
			summary.Matches++
		}

		if isBinary && c.BinaryPolicy == scan.PolicyBinary {
			if isMatch && !binaryMatchReported {
				binaryMatchReported = true
			}
			if isMatch && c.MaxCount > 0 && summary.Matches >= c.MaxCount {
				break
			}
			continue
		}

		emissions := win.Push(window.Entry{
			Number:  ln.Number,
			Offset:  ln.Offset,
			Bytes:   ln.Bytes,
			Spans:   spans,
			IsMatch: isMatch,
		})

		for _, em := range emissions {
			if em.Role == window.RoleMatch {
				selected++
			}
			if capture && em.Role != window.RoleGroupSeparator {
				recs = append(recs, LineRecord{
					Path:       displayPath,
					LineNumber: em.Entry.Number,
					Offset:     em.Entry.Offset,
					Line:       string(em.Entry.Bytes),
					Spans:      em.Entry.Spans,
					IsMatch:    em.Role == window.RoleMatch,
				})
			}
			if !c.Quiet && c.OutputMode == OutputNormal {
				writeEmission(stdout, c, displayPath, em, showFileName, col)
			}
		}

		if c.MaxCount > 0 && selected >= c.MaxCount && win.Closed() {
			break
		}
		if c.Quiet && summary.Matches > 0 {
			break
		}
	}

	if err := sp.Err(); err != nil {
		if errors.Is(err, lines.ErrLineTooLong) {
			summary.Truncated = true
		} else {
			return summary, recs, err
		}
	}

	if isBinary && c.BinaryPolicy == scan.PolicyBinary && binaryMatchReported {
		fmt.Fprintf(stdout, "%s: binary file matches\n", displayPath)
	}

	emitSummaryLine(stdout, c, displayPath, summary, showFileName)

	return summary, recs, nil
}

// writeEmission renders one window emission through the format package.
func writeEmission(w io.Writer, c Config, path string, em window.Emission, showFileName bool, col *colour.Colorizer) {
	opts := format.Options{
		FileName:           showFileName,
		LineNumber:         c.LineNumberOutput,
		ByteOffset:         c.ByteOffsetOutput,
		OnlyMatching:       c.OnlyMatching,
		InitialTab:         c.InitialTab,
		NullAfterHeader:    c.NullAfterHeader,
		ResultSep:          c.ResultSep,
		ContextResultSep:   c.ContextResultSep,
		NameNumSep:         c.NameNumSep,
		NameByteSep:        c.NameByteSep,
		ContextNameNumSep:  c.ContextNameNumSep,
		ContextNameByteSep: c.ContextNameByteSep,
		ContextGroupSep:    c.ContextGroupSep,
		Delimiter:          c.Delimiter,
	}

	if em.Role == window.RoleGroupSeparator {
		_ = format.Write(w, format.Record{Role: em.Role}, opts, col)
		return
	}

	if c.OnlyMatching && em.Role == window.RoleMatch {
		for _, s := range em.Entry.Spans {
			rec := format.Record{
				Path:       path,
				LineNumber: em.Entry.Number,
				Offset:     em.Entry.Offset + int64(s.Start),
				Line:       em.Entry.Bytes[s.Start:s.End],
				WholeMatch: true,
				Role:       em.Role,
			}
			_ = format.Write(w, rec, opts, col)
		}
		return
	}

	rec := format.Record{
		Path:       path,
		LineNumber: em.Entry.Number,
		Offset:     em.Entry.Offset,
		Line:       em.Entry.Bytes,
		Spans:      em.Entry.Spans,
		Role:       em.Role,
	}
	_ = format.Write(w, rec, opts, col)
}

// emitSummaryLine handles the whole-output modes that print one line per
// source instead of per match: -l, -L, -c.
func emitSummaryLine(w io.Writer, c Config, path string, summary FileSummary, showFileName bool) {
	if c.Quiet {
		return
	}
	switch c.OutputMode {
	case OutputFilesWithMatches:
		if summary.Matches > 0 {
			fmt.Fprintln(w, path)
		}
	case OutputFilesWithoutMatch:
		if summary.Matches == 0 {
			fmt.Fprintln(w, path)
		}
	case OutputCountOnly:
		if showFileName {
			fmt.Fprintf(w, "%s:%d\n", path, summary.Matches)
		} else {
			fmt.Fprintf(w, "%d\n", summary.Matches)
		}
	}
}

// bufferedStdout wraps w in a buffered writer unless c.LineBuffered
// disables buffering, matching grep's --line-buffered behaviour.
func bufferedStdout(w io.Writer, lineBuffered bool) io.Writer {
	if lineBuffered {
		return w
	}
	return bufio.NewWriterSize(w, 64*1024)
}
