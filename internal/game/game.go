// Package game sequences a session from Playing to GameOver and runs the
// per-tick pipeline over the other core packages.
package game

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/astral-shooter/internal/clock"
	"github.com/tomz197/astral-shooter/internal/collision"
	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/effect"
	"github.com/tomz197/astral-shooter/internal/physics"
	"github.com/tomz197/astral-shooter/internal/registry"
	"github.com/tomz197/astral-shooter/internal/score"
	"github.com/tomz197/astral-shooter/internal/spawn"
)

// Rand is the random source of the engine. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Options configures an Engine. Zero fields get defaults.
type Options struct {
	Tuning *config.Tuning
	Clock  clock.Pausable
	Store  score.Store
	Rand   Rand
	Logger *log.Logger
}

type deferredKind uint8

const (
	deferredShotExpiry deferredKind = iota
	deferredShieldBlink
	deferredShieldClear
)

type deferredEffect struct {
	kind deferredKind
	id   uint64 // Entity ID or buff generation
}

// Engine runs sessions one at a time. It is not safe for concurrent use;
// run one engine per player.
type Engine struct {
	cfg      config.Tuning
	clock    clock.Pausable
	store    score.Store
	rng      Rand
	log      *log.Logger
	resolver collision.Resolver
	bounds   physics.Rect
	field    physics.Rect
	deferred *clock.Queue[deferredEffect]
	current  *Session
}

// NewEngine validates the tuning and creates an engine.
func NewEngine(opts Options) (*Engine, error) {
	cfg := config.Default()
	if opts.Tuning != nil {
		cfg = *opts.Tuning
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewMonotonic()
	}
	if opts.Store == nil {
		opts.Store = score.NewMemoryStore(0)
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	p := cfg.Playfield
	return &Engine{
		cfg:      cfg,
		clock:    opts.Clock,
		store:    opts.Store,
		rng:      opts.Rand,
		log:      opts.Logger.With("component", "game"),
		resolver: collision.NewResolver(cfg.Scoring),
		bounds:   physics.Rect{MinX: p.ShipMinX, MinY: p.ShipMinY, MaxX: p.ShipMaxX, MaxY: p.ShipMaxY},
		field:    physics.Rect{MaxX: p.Width, MaxY: p.Height},
		deferred: clock.NewQueue[deferredEffect](),
	}, nil
}

// Tuning returns the engine's tuning.
func (e *Engine) Tuning() config.Tuning { return e.cfg }

// Current returns the session that Step currently drives.
func (e *Engine) Current() *Session { return e.current }

// NewSession starts a fresh session and makes it current. Deferred effects
// of the previous session are cancelled.
func (e *Engine) NewSession(ctx context.Context) (*Session, error) {
	if prev := e.current; prev != nil {
		if n := e.deferred.Cancel(prev.id); n > 0 {
			e.log.Debug("cancelled deferred effects", "session", prev.id, "count", n)
		}
	}

	spawner, err := spawn.NewScheduler(e.cfg.Spawn, e.rng, 0)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	gate, err := clock.NewGate(e.cfg.Ship.FireInterval)
	if err != nil {
		return nil, fmt.Errorf("game: fire gate: %w", err)
	}

	id := uuid.New()
	s := &Session{
		id:      id,
		state:   StatePlaying,
		origin:  e.clock.Now(),
		log:     e.log.With("session", id.String()[:8]),
		reg:     registry.New(),
		spawner: spawner,
		effects: effect.NewManager(e.cfg.Effects),
		score:   score.NewTracker(ctx, e.store, e.log),
		gate:    gate,
	}
	s.ship = s.reg.CreateShip(physics.Vec{X: e.cfg.Ship.StartX, Y: e.cfg.Ship.StartY})
	s.emitEntity(EventEntityCreated, s.ship, CauseNone)

	e.current = s
	s.log.Debug("session started", "high", s.score.High())
	return s, nil
}

// DeathAnimationComplete is called by the renderer when the ship explosion
// has finished. It moves a dying session to GameOver, records the session
// and reports whether the transition happened.
func (e *Engine) DeathAnimationComplete(ctx context.Context, s *Session) bool {
	if s == nil || s != e.current || !s.dying || s.state == StateGameOver {
		return false
	}
	s.state = StateGameOver
	e.deferred.Cancel(s.id)
	s.emit(Event{Kind: EventGameOver, Score: s.score.Current(), High: s.score.High()})

	if rec, ok := e.store.(score.Recorder); ok {
		err := rec.RecordSession(ctx, score.Record{
			SessionID: s.id,
			Score:     s.score.Current(),
			Duration:  s.deathAt,
			EndedAt:   time.Now().UTC(),
		})
		if err != nil {
			s.log.Warn("failed to record session", "err", err)
		}
	}
	s.log.Info("game over", "score", s.score.Current(), "high", s.score.High(), "duration", s.deathAt)
	return true
}

// Pause freezes game time.
func (e *Engine) Pause() { e.clock.Pause() }

// Resume unfreezes game time.
func (e *Engine) Resume() { e.clock.Resume() }

// Paused reports whether game time is frozen.
func (e *Engine) Paused() bool { return e.clock.Paused() }

// PendingDeferred returns the number of queued deferred effects.
func (e *Engine) PendingDeferred() int { return e.deferred.Len() }
