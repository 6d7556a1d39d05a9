// Package auditlog provides a fluent builder API for structured run
// logging, directly grounded on the teacher's internal/log package.
//
// The teacher backs this with a SQLite file under ~/.llmd/log so audit
// entries survive across invocations and projects. This system declares
// "Persisted state: None", so the sink here is a plain io.Writer instead:
// it defaults to io.Discard (a CLI run with no sink attached logs nothing)
// and, when attached (under test, or by an embedding caller), writes one
// newline-delimited JSON object per entry.
package auditlog

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

var (
	mu   sync.Mutex
	sink io.Writer = io.Discard
)

// Entry is a single audit log record.
type Entry struct {
	Source string `json:"source"` // e.g. "cli:grep", "mcp:grep"
	Action string `json:"action"` // "search"
	RunID  string `json:"run_id,omitempty"`

	Path string `json:"path,omitempty"`

	Start int64 `json:"start"`
	End   int64 `json:"end"`

	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Builder constructs an Entry using a fluent API. Create with [Event],
// chain setters, then call [Builder.Write] to emit the entry.
type Builder struct {
	entry Entry
}

// Event starts a new entry for the given source ("cli:grep", "mcp:grep")
// and action ("search").
func Event(source, action string) *Builder {
	return &Builder{entry: Entry{Source: source, Action: action, Start: time.Now().Unix()}}
}

// RunID attaches the per-run correlation id (see internal/engine).
func (b *Builder) RunID(id string) *Builder {
	b.entry.RunID = id
	return b
}

// Path records the primary input path for this run, when there is a
// single unambiguous one (e.g. a default-stream run).
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Detail adds operation-specific data: pattern counts, files scanned,
// lines selected, and so on.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write finalises and emits the entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	emit(b.entry)
}

// SetSink attaches w as the destination for subsequent entries. A nil w
// restores the default (io.Discard, i.e. no logging).
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	sink = w
}

func emit(e Entry) {
	mu.Lock()
	w := sink
	mu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	b = append(b, '\n')
	_, _ = w.Write(b)
}
