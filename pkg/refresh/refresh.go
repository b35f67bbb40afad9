// Package refresh coordinates text-driven regeneration.
//
// The textual and graphical views share one live document, and a
// programmatic write to the textual view must not re-trigger the listener
// that produced it, otherwise text→graph→text feedback loops occur.
// [Guard] suppresses such self-triggered updates by tagging the origin of
// each mutation. [Debouncer] holds back regeneration triggered by
// free-form editing until a quiet period passes, so the graph is not
// rebuilt on every keystroke; a newer trigger supersedes a pending one.
package refresh

import (
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
)

// Origin tags the source of a mutation so listeners can distinguish
// user-driven changes from the system's own writes.
type Origin int

const (
	// OriginUser marks a mutation caused by direct user input.
	OriginUser Origin = iota
	// OriginSystem marks a programmatic write derived from a graph
	// mutation. Listeners must ignore these.
	OriginSystem
)

// Guard tracks whether the system is currently writing a derived update.
// Listeners check Active before reacting to a change; changes observed
// while the guard is active are the system's own and must be dropped.
//
// The guard nests: concurrent or re-entrant Do calls stay suppressed
// until the outermost one returns.
type Guard struct {
	writes atomic.Int32
}

// Do runs fn as a system-originated write. Any listener firing during fn
// observes Active() == true.
func (g *Guard) Do(fn func()) {
	g.writes.Add(1)
	defer g.writes.Add(-1)
	fn()
}

// Active reports whether a system-originated write is in progress.
func (g *Guard) Active() bool { return g.writes.Load() > 0 }

// Origin returns the origin a listener should attribute to a change
// observed right now.
func (g *Guard) Origin() Origin {
	if g.Active() {
		return OriginSystem
	}
	return OriginUser
}

// DefaultQuiet is the debounce quiet period for text-driven regeneration.
const DefaultQuiet = 300 * time.Millisecond

// Debouncer defers a regeneration callback until a quiet period passes
// with no further triggers. Only the most recent callback runs; a newer
// trigger supersedes any pending one. There is no cancellation beyond
// that supersession.
type Debouncer struct {
	fire func(func())
}

// NewDebouncer creates a Debouncer with the given quiet period.
// A non-positive duration falls back to [DefaultQuiet].
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{fire: debounce.New(quiet)}
}

// Trigger schedules fn to run after the quiet period, replacing any
// pending callback.
func (d *Debouncer) Trigger(fn func()) { d.fire(fn) }
