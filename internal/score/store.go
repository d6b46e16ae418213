// Package score keeps the session score and persists the high score.
package score

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("score: unknown backend")

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("score: store closed")

// Store persists the high score. Implementations are safe for concurrent use.
type Store interface {
	// Load returns the saved high score, or 0 if none was saved.
	Load(ctx context.Context) (int, error)
	// Save records a new high score.
	Save(ctx context.Context, score int) error
	Close() error
}

// Record describes a finished session.
type Record struct {
	SessionID uuid.UUID
	Score     int
	Duration  time.Duration
	EndedAt   time.Time
}

// Recorder is implemented by stores that keep a session history.
type Recorder interface {
	RecordSession(ctx context.Context, rec Record) error
}

// History is implemented by stores that can list past sessions, best first.
type History interface {
	TopSessions(ctx context.Context, limit int) ([]Record, error)
}

// Backend names accepted by Open.
const (
	BackendGData  = "gdata"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	AppName    string // gdata application name
	SQLitePath string
	Logger     *log.Logger
}

// Open creates the configured store. A gdata directory that cannot be opened
// degrades to an in-memory store with a warning, as a missing save location
// must not stop the game.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendGData, "":
		m, err := gdata.Open(gdata.Config{AppName: opts.AppName})
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("gdata unavailable, high score will not persist", "err", err)
			}
			return NewGDataStore(nil), nil
		}
		return NewGDataStore(m), nil
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath)
	case BackendMemory:
		return NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// MemoryStore keeps the high score in memory.
type MemoryStore struct {
	mu      sync.Mutex
	high    int
	records []Record
	saves   int
}

// NewMemoryStore creates a store holding high.
func NewMemoryStore(high int) *MemoryStore {
	return &MemoryStore{high: high}
}

func (m *MemoryStore) Load(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high, nil
}

func (m *MemoryStore) Save(_ context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.high = max(m.high, score)
	return nil
}

func (m *MemoryStore) RecordSession(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Records returns the recorded sessions.
func (m *MemoryStore) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...)
}

// TopSessions returns up to limit recorded sessions, highest score first.
func (m *MemoryStore) TopSessions(_ context.Context, limit int) ([]Record, error) {
	recs := m.Records()
	slices.SortStableFunc(recs, func(a, b Record) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return a.EndedAt.Compare(b.EndedAt)
	})
	return recs[:min(max(limit, 0), len(recs))], nil
}

func (m *MemoryStore) Close() error { return nil }

var (
	_ Recorder = (*MemoryStore)(nil)
	_ History  = (*MemoryStore)(nil)
	_ Recorder = (*SQLiteStore)(nil)
	_ History  = (*SQLiteStore)(nil)
	_ Recorder = (*AsyncStore)(nil)
	_ History  = (*AsyncStore)(nil)
)
