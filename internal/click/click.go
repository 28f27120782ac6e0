// Package click classifies sequences of clicks on tree entries as preview
// or commit intent. It is deliberately not the toolkit's generic double-click
// detection: the emitted intent drives document-view policy downstream, so
// the state machine is explicit and owns its timers through tokens rather
// than captured closures, which keeps it testable without wall-clock delays.
package click

import "time"

// Intent is the classification of a click sequence on one entry.
type Intent int

const (
	IntentNone Intent = iota
	IntentPreview
	IntentCommit
)

func (i Intent) String() string {
	switch i {
	case IntentPreview:
		return "preview"
	case IntentCommit:
		return "commit"
	default:
		return "none"
	}
}

// DefaultWindow is the time a first click waits for a second one.
const DefaultWindow = 250 * time.Millisecond

// Result is the outcome of feeding one click into the machine. When
// ScheduleTimeout is set the caller must arrange for Timeout(key, Token) to
// be called after Window elapses; the token makes late timers harmless.
type Result struct {
	Intent          Intent
	ScheduleTimeout bool
	Token           uint64
}

// Disambiguator runs one two-state machine (idle, pending-single) per entry
// key. Entries are independent: a pending click on one entry is unaffected
// by clicks on others. All methods are called from the event loop.
type Disambiguator struct {
	window    time.Duration
	nextToken uint64
	pending   map[string]uint64
}

// New creates a disambiguator with the given double-click window. A zero or
// negative window falls back to DefaultWindow.
func New(window time.Duration) *Disambiguator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Disambiguator{
		window:  window,
		pending: make(map[string]uint64),
	}
}

// Window returns the interval after which a scheduled timeout should fire.
func (d *Disambiguator) Window() time.Duration { return d.window }

// Click feeds one click on the entry identified by key. A first click asks
// the caller to schedule a timeout; a second click before that timeout
// resolves to commit intent and invalidates the outstanding timer.
func (d *Disambiguator) Click(key string) Result {
	if _, ok := d.pending[key]; ok {
		delete(d.pending, key)
		return Result{Intent: IntentCommit}
	}
	d.nextToken++
	d.pending[key] = d.nextToken
	return Result{ScheduleTimeout: true, Token: d.nextToken}
}

// Timeout resolves a scheduled timer. It emits preview intent only when the
// token still matches the entry's live pending click; timers invalidated by
// a second click or a Cancel resolve to no intent.
func (d *Disambiguator) Timeout(key string, token uint64) Intent {
	if live, ok := d.pending[key]; ok && live == token {
		delete(d.pending, key)
		return IntentPreview
	}
	return IntentNone
}

// Cancel drops any pending click for key without emitting an intent. Used
// when the entry disappears (pruned by reconciliation) before its timer
// fires.
func (d *Disambiguator) Cancel(key string) {
	delete(d.pending, key)
}

// Pending reports whether a click on key is awaiting disambiguation.
func (d *Disambiguator) Pending(key string) bool {
	_, ok := d.pending[key]
	return ok
}
