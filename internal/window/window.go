// Package window implements the per-source context state machine: it
// interleaves pre-context, match, post-context, and group-separator
// records the way the classic grep window does, and is grounded on the
// ring-buffer-plus-gap-detection shape of a context matcher, generalised
// here into an explicit two-state machine (Idle / InAfter) that a caller
// drives one scanned line at a time.
//
// Max-count termination is deliberately not owned by the window: the
// caller (the source scanner) stops feeding it lines once enough have been
// selected and the window is Closed (or the next matching line arrives),
// which is what lets after-context for the last match be emitted before
// the source is closed.
package window

import "github.com/evanj-au/grepr/internal/matcher"

// Role tags what an emitted record represents.
type Role int

const (
	// RoleMatch is a selected (matching) line.
	RoleMatch Role = iota
	// RoleBefore is a before-context line.
	RoleBefore
	// RoleAfter is an after-context line.
	RoleAfter
	// RoleGroupSeparator marks a gap between two disjoint context windows.
	// Its Entry field is the zero value and carries no content.
	RoleGroupSeparator
)

// Entry is one line fed into the Window by the caller.
type Entry struct {
	Number  int
	Offset  int64
	Bytes   []byte
	Spans   []matcher.Span // this line's own match spans, nil for a non-match
	IsMatch bool           // predicate(line) XOR invert_match, computed by the caller
}

// Emission is one record the Window decided to release, in order.
type Emission struct {
	Entry Entry
	Role  Role
}

type state int

const (
	stateIdle state = iota
	stateInAfter
)

// Window is the per-source context state machine described in spec §4.4.
type Window struct {
	before, after  int
	ring           []Entry
	remainingAfter int
	state          state
	emittedAny     bool
	needSeparator  bool
}

// New creates a Window with the given before/after context sizes.
func New(before, after int) *Window {
	return &Window{before: before, after: after}
}

// Push feeds the next scanned line and returns the emissions it produces,
// in order. It may return zero, one, or several emissions (a group
// separator followed by drained before-context lines followed by the
// match, for example).
func (w *Window) Push(e Entry) []Emission {
	var out []Emission

	switch w.state {
	case stateIdle:
		if e.IsMatch {
			before := w.ring
			w.ring = nil
			out = append(out, w.maybeSeparator()...)
			for _, b := range before {
				out = append(out, Emission{Entry: b, Role: RoleBefore})
			}
			out = append(out, Emission{Entry: e, Role: RoleMatch})
			w.emittedAny = true
			w.remainingAfter = w.after
			if w.after > 0 {
				w.state = stateInAfter
			}
		} else {
			w.pushBefore(e)
		}

	case stateInAfter:
		if e.IsMatch {
			out = append(out, Emission{Entry: e, Role: RoleMatch})
			w.emittedAny = true
			w.remainingAfter = w.after
		} else {
			out = append(out, Emission{Entry: e, Role: RoleAfter})
			w.emittedAny = true
			w.remainingAfter--
			if w.remainingAfter <= 0 {
				w.state = stateIdle
				w.ring = nil
				w.needSeparator = true
			}
		}
	}

	return out
}

// Closed reports whether the window is currently idle: no after-context is
// pending. A caller enforcing max_count should stop feeding lines only
// once both the selection cap is reached and Closed is true, so the final
// match's after-context still gets a chance to drain.
func (w *Window) Closed() bool {
	return w.state == stateIdle
}

func (w *Window) pushBefore(e Entry) {
	if w.before == 0 {
		return
	}
	w.ring = append(w.ring, e)
	if len(w.ring) > w.before {
		w.ring = w.ring[1:]
	}
}

// maybeSeparator consumes the pending separator flag (if any) and returns
// a single group-separator emission, suppressed at the start of a file and
// back-to-back with another separator.
func (w *Window) maybeSeparator() []Emission {
	if w.needSeparator && w.emittedAny {
		w.needSeparator = false
		return []Emission{{Role: RoleGroupSeparator}}
	}
	w.needSeparator = false
	return nil
}
