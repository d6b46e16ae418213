package clock

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned when a repeating timer has a non-positive period.
var ErrInvalidPeriod = errors.New("clock: period must be positive")

// Repeater is a looping timer polled once per tick.
type Repeater struct {
	period time.Duration
	next   time.Duration
}

// NewRepeater creates a timer that first fires one period after start.
func NewRepeater(period, start time.Duration) (*Repeater, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return &Repeater{period: period, next: start + period}, nil
}

// Due returns how many periods have elapsed up to now and advances the
// deadline past now. Missed periods are reported, not skipped.
func (r *Repeater) Due(now time.Duration) int {
	if now < r.next {
		return 0
	}
	n := int((now-r.next)/r.period) + 1
	r.next += time.Duration(n) * r.period
	return n
}

// Next returns the time of the next firing.
func (r *Repeater) Next() time.Duration {
	return r.next
}

// Period returns the timer period.
func (r *Repeater) Period() time.Duration {
	return r.period
}
