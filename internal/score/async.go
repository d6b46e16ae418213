package score

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// AsyncStore makes Save and RecordSession return immediately. A single
// background writer forwards them to the wrapped store. Pending saves are
// coalesced to the highest value.
type AsyncStore struct {
	inner   Store
	log     *log.Logger
	timeout time.Duration

	writeMu sync.Mutex // Serializes Flush with the writer goroutine

	mu       sync.Mutex
	pending  int
	hasSave  bool
	highest  int // Highest value ever queued
	records  []Record
	closed   bool
	wake     chan struct{}
	quit     chan struct{}
	done     chan struct{}
	closeErr error
	once     sync.Once
}

// NewAsyncStore starts the writer goroutine. Close stops it after flushing.
func NewAsyncStore(inner Store, logger *log.Logger) *AsyncStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &AsyncStore{
		inner:   inner,
		log:     logger,
		timeout: 5 * time.Second,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Load reads through to the wrapped store, taking values still in flight
// into account.
func (s *AsyncStore) Load(ctx context.Context) (int, error) {
	high, err := s.inner.Load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(high, s.highest), err
}

// Save queues score and returns without waiting for I/O.
func (s *AsyncStore) Save(_ context.Context, score int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.hasSave || score > s.pending {
		s.pending = score
		s.hasSave = true
	}
	s.highest = max(s.highest, score)
	s.mu.Unlock()
	s.signal()
	return nil
}

// RecordSession queues rec for stores that keep a history.
func (s *AsyncStore) RecordSession(_ context.Context, rec Record) error {
	if _, ok := s.inner.(Recorder); !ok {
		return nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.records = append(s.records, rec)
	s.mu.Unlock()
	s.signal()
	return nil
}

// TopSessions reads through when the wrapped store keeps a history.
func (s *AsyncStore) TopSessions(ctx context.Context, limit int) ([]Record, error) {
	if h, ok := s.inner.(History); ok {
		return h.TopSessions(ctx, limit)
	}
	return nil, nil
}

// Flush blocks until everything queued before the call has been written.
func (s *AsyncStore) Flush() {
	s.flush()
}

// Close flushes pending writes, stops the writer and closes the wrapped store.
func (s *AsyncStore) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.quit)
		<-s.done
		s.closeErr = s.inner.Close()
	})
	return s.closeErr
}

func (s *AsyncStore) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *AsyncStore) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *AsyncStore) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	score, hasSave := s.pending, s.hasSave
	records := s.records
	s.hasSave = false
	s.records = nil
	s.mu.Unlock()

	if !hasSave && len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if hasSave {
		if err := s.inner.Save(ctx, score); err != nil {
			s.log.Warn("high score save failed", "score", score, "err", err)
		}
	}
	if rec, ok := s.inner.(Recorder); ok {
		for _, r := range records {
			if err := rec.RecordSession(ctx, r); err != nil {
				s.log.Warn("session record failed", "session", r.SessionID, "err", err)
			}
		}
	}
}
