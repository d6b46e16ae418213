// Package clock provides the game time source and the timer primitives
// (cooldown gates, repeating timers, deferred effect queues) built on it.
//
// Game time is a time.Duration measured from the start of the clock. It never
// decreases, and it stands still while the clock is paused.
package clock

import "time"

// Clock reports monotonic game time.
type Clock interface {
	Now() time.Duration
}

// Pausable is implemented by clocks that can be frozen (pause menu).
type Pausable interface {
	Clock
	Pause()
	Resume()
	Paused() bool
}

// Millis converts a game timestamp to whole milliseconds.
func Millis(t time.Duration) int64 {
	return t.Milliseconds()
}

// FromMillis converts milliseconds to a game timestamp.
func FromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Monotonic is a wall-clock backed Clock. Time spent paused is excluded.
type Monotonic struct {
	source   func() time.Time
	start    time.Time
	pausedAt time.Time
	excluded time.Duration // Total time spent paused
	paused   bool
	last     time.Duration
}

// NewMonotonic creates a clock starting at zero now.
func NewMonotonic() *Monotonic {
	return NewMonotonicFrom(time.Now)
}

// NewMonotonicFrom creates a clock reading wall time from source.
func NewMonotonicFrom(source func() time.Time) *Monotonic {
	return &Monotonic{
		source: source,
		start:  source(),
	}
}

// Now returns game time since the clock started, excluding paused spans.
func (m *Monotonic) Now() time.Duration {
	ref := m.source()
	if m.paused {
		ref = m.pausedAt
	}
	t := ref.Sub(m.start) - m.excluded
	if t < m.last {
		return m.last
	}
	m.last = t
	return t
}

// Pause freezes the clock. Pausing twice is a no-op.
func (m *Monotonic) Pause() {
	if m.paused {
		return
	}
	m.paused = true
	m.pausedAt = m.source()
}

// Resume unfreezes the clock. Resuming a running clock is a no-op.
func (m *Monotonic) Resume() {
	if !m.paused {
		return
	}
	m.excluded += m.source().Sub(m.pausedAt)
	m.paused = false
}

// Paused reports whether the clock is frozen.
func (m *Monotonic) Paused() bool {
	return m.paused
}

// Manual is a Clock advanced explicitly. Used by tests and replays.
type Manual struct {
	now    time.Duration
	paused bool
}

// NewManual creates a manual clock at the given time.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Advance moves the clock forward by d. Negative values and advances while
// paused are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 || m.paused {
		return
	}
	m.now += d
}

// Set moves the clock to t if t is later than the current time.
func (m *Manual) Set(t time.Duration) {
	if t > m.now && !m.paused {
		m.now = t
	}
}

func (m *Manual) Pause()       { m.paused = true }
func (m *Manual) Resume()      { m.paused = false }
func (m *Manual) Paused() bool { return m.paused }

var (
	_ Pausable = (*Monotonic)(nil)
	_ Pausable = (*Manual)(nil)
)
