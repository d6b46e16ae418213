package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/astral-shooter/internal/clock"
	"github.com/tomz197/astral-shooter/internal/effect"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
	"github.com/tomz197/astral-shooter/internal/registry"
	"github.com/tomz197/astral-shooter/internal/score"
	"github.com/tomz197/astral-shooter/internal/spawn"
)

// State is the session state.
type State uint8

const (
	StatePlaying State = iota
	StateGameOver
)

func (s State) String() string {
	if s == StateGameOver {
		return "game_over"
	}
	return "playing"
}

// Session is one run of the game from spawn to game over. Its time is
// measured from its own start.
type Session struct {
	id      uuid.UUID
	state   State
	dying   bool
	origin  time.Duration // Engine clock reading at session start
	now     time.Duration
	deathAt time.Duration
	ticks   uint64
	dropped int
	events  []Event
	log     *log.Logger

	reg     *registry.Registry
	ship    *object.Ship
	spawner *spawn.Scheduler
	effects *effect.Manager
	score   *score.Tracker
	gate    *clock.Gate
}

// PlayerState is a snapshot of the player for HUDs and tests.
type PlayerState struct {
	Position        physics.Vec
	Alive           bool
	DoubleShot      bool
	DoubleShotUntil time.Duration
	Shield          bool
	ShieldUntil     time.Duration
	LastShot        time.Duration
	HasShot         bool
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns Playing or GameOver.
func (s *Session) State() State { return s.state }

// Dying reports whether the death sequence has started.
func (s *Session) Dying() bool { return s.dying }

// Now returns the session time sampled by the last tick.
func (s *Session) Now() time.Duration { return s.now }

// Ticks returns how many ticks were stepped.
func (s *Session) Ticks() uint64 { return s.ticks }

// Registry exposes the live entities for rendering and collision detection.
// Callers must not keep entity pointers across ticks.
func (s *Session) Registry() *registry.Registry { return s.reg }

// Ship returns the session's ship, including after its death.
func (s *Session) Ship() *object.Ship { return s.ship }

// Effects exposes buff state for rendering.
func (s *Session) Effects() *effect.Manager { return s.effects }

// Score returns the current score.
func (s *Session) Score() int { return s.score.Current() }

// HighScore returns the high score.
func (s *Session) HighScore() int { return s.score.High() }

// Dropped returns the number of malformed collision events discarded.
func (s *Session) Dropped() int { return s.dropped }

// Player returns a snapshot of the player state.
func (s *Session) Player() PlayerState {
	p := PlayerState{
		Position: s.ship.Pos,
		Alive:    !s.dying && s.ship.Interactive(),
	}
	p.DoubleShotUntil, p.DoubleShot = s.effects.Until(object.PowerUpDoubleShot)
	p.ShieldUntil, p.Shield = s.effects.Until(object.PowerUpShield)
	p.LastShot, p.HasShot = s.gate.LastUse()
	return p
}

// Drain returns and clears the pending notifications.
func (s *Session) Drain() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Session) emit(ev Event) {
	ev.At = s.now
	s.events = append(s.events, ev)
}

func (s *Session) emitEntity(kind EventKind, e object.Entity, cause Cause) {
	s.emit(Event{
		Kind:     kind,
		Entity:   e.EntityID(),
		Category: e.Category(),
		Pos:      e.Position(),
		Cause:    cause,
	})
}
