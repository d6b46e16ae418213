package clock

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when a gate is built with a non-positive interval.
var ErrInvalidInterval = errors.New("clock: interval must be positive")

// Gate admits at most one use per interval.
type Gate struct {
	interval time.Duration
	lastUse  time.Duration
	used     bool
}

// NewGate creates a gate that opens interval after each successful use.
// A gate that has never been used is open.
func NewGate(interval time.Duration) (*Gate, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Gate{interval: interval}, nil
}

// TryConsume records now as the last use and returns true iff at least one
// interval has passed since the previous use. Otherwise it changes nothing.
func (g *Gate) TryConsume(now time.Duration) bool {
	if g.used && now-g.lastUse < g.interval {
		return false
	}
	g.lastUse = now
	g.used = true
	return true
}

// Remaining returns how long until the gate opens again (0 if open).
func (g *Gate) Remaining(now time.Duration) time.Duration {
	if !g.used {
		return 0
	}
	if left := g.interval - (now - g.lastUse); left > 0 {
		return left
	}
	return 0
}

// LastUse returns the time of the last successful use.
func (g *Gate) LastUse() (time.Duration, bool) {
	return g.lastUse, g.used
}

// Interval returns the gate interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
