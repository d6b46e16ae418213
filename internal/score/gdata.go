package score

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	gdataObject   = "score"
	gdataProperty = "high"
)

type gdataRecord struct {
	HighScore int       `yaml:"highScore"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// GDataStore saves the high score as YAML in the per-user application data
// directory. A nil manager puts it in degraded mode: loads return 0 and
// saves are dropped.
type GDataStore struct {
	mu      sync.Mutex
	manager *gdata.Manager
}

// NewGDataStore wraps an opened gdata manager, which may be nil.
func NewGDataStore(m *gdata.Manager) *GDataStore {
	return &GDataStore{manager: m}
}

// Degraded reports whether the store has nowhere to persist.
func (s *GDataStore) Degraded() bool {
	return s.manager == nil
}

func (s *GDataStore) Load(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return 0, err
	}
	return rec.HighScore, nil
}

func (s *GDataStore) load() (gdataRecord, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(gdataObject, gdataProperty) {
		return gdataRecord{}, nil
	}
	data, err := s.manager.LoadObjectProp(gdataObject, gdataProperty)
	if err != nil {
		return gdataRecord{}, fmt.Errorf("failed to load high score: %w", err)
	}
	var rec gdataRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return gdataRecord{}, fmt.Errorf("failed to unmarshal high score: %w", err)
	}
	return rec, nil
}

// Save writes score unless a higher one is already stored.
func (s *GDataStore) Save(_ context.Context, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manager == nil {
		return nil
	}
	// A corrupt record is overwritten.
	if prev, err := s.load(); err == nil && prev.HighScore >= score {
		return nil
	}
	data, err := yaml.Marshal(gdataRecord{HighScore: score, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal high score: %w", err)
	}
	if err := s.manager.SaveObjectProp(gdataObject, gdataProperty, data); err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

func (s *GDataStore) Close() error { return nil }
