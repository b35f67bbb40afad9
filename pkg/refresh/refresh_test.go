package refresh

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestGuard(t *testing.T) {
	var g Guard

	if g.Active() {
		t.Error("fresh guard reports active")
	}
	if g.Origin() != OriginUser {
		t.Error("fresh guard origin != user")
	}

	g.Do(func() {
		if !g.Active() {
			t.Error("guard inactive during Do")
		}
		if g.Origin() != OriginSystem {
			t.Error("origin during Do != system")
		}
		// Nested system writes stay suppressed.
		g.Do(func() {
			if !g.Active() {
				t.Error("guard inactive in nested Do")
			}
		})
		if !g.Active() {
			t.Error("guard released too early after nested Do")
		}
	})

	if g.Active() {
		t.Error("guard still active after Do returned")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var runs atomic.Int32
	for range 10 {
		d.Trigger(func() { runs.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 (rapid triggers must coalesce)", got)
	}
}

func TestDebouncerNewerSupersedes(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var got atomic.Int32
	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })

	time.Sleep(100 * time.Millisecond)
	if got.Load() != 2 {
		t.Errorf("got = %d, want 2 (latest trigger wins)", got.Load())
	}
}

func TestDebouncerSeparateQuietPeriods(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(50 * time.Millisecond)

	if got := runs.Load(); got != 2 {
		t.Errorf("runs = %d, want 2 (separate quiet periods both fire)", got)
	}
}
