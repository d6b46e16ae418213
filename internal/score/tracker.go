package score

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Tracker holds the session score and the high score. Every new high score
// is written through to the store; store failures are logged and never
// affect the in-memory values.
type Tracker struct {
	store   Store
	log     *log.Logger
	timeout time.Duration
	current int
	high    int
}

// NewTracker loads the high score from store. If the load fails the high
// score starts at 0.
func NewTracker(ctx context.Context, store Store, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &Tracker{store: store, log: logger, timeout: 2 * time.Second}
	if store == nil {
		return t
	}
	high, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load high score, starting from 0", "err", err)
		return t
	}
	t.high = max(high, 0)
	return t
}

// Add increases the score by amount and reports whether it set a new high
// score. Non-positive amounts are ignored.
func (t *Tracker) Add(amount int) bool {
	if amount <= 0 {
		return false
	}
	t.current += amount
	if t.current <= t.high {
		return false
	}
	t.high = t.current
	t.persist()
	return true
}

func (t *Tracker) persist() {
	if t.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := t.store.Save(ctx, t.high); err != nil {
		t.log.Warn("failed to save high score", "score", t.high, "err", err)
	}
}

// Reset zeroes the session score. The high score is kept.
func (t *Tracker) Reset() {
	t.current = 0
}

// Current returns the session score.
func (t *Tracker) Current() int { return t.current }

// High returns the high score.
func (t *Tracker) High() int { return t.high }
