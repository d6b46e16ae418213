package game

import (
	"time"

	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// EventKind classifies notifications for the rendering and audio side.
type EventKind uint8

const (
	EventEntityCreated EventKind = iota
	EventEntityDestroyed
	EventShot
	EventExplosion
	EventScoreChanged
	EventHighScore
	EventBuffActivated
	EventBuffExpired
	EventShieldBlinkStarted
	EventShieldCleared
	EventDeathStarted
	EventGameOver
)

var eventKindNames = [...]string{
	EventEntityCreated:      "entity_created",
	EventEntityDestroyed:    "entity_destroyed",
	EventShot:               "shot",
	EventExplosion:          "explosion",
	EventScoreChanged:       "score_changed",
	EventHighScore:          "high_score",
	EventBuffActivated:      "buff_activated",
	EventBuffExpired:        "buff_expired",
	EventShieldBlinkStarted: "shield_blink_started",
	EventShieldCleared:      "shield_cleared",
	EventDeathStarted:       "death_started",
	EventGameOver:           "game_over",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Cause says why an entity was destroyed.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseCollision
	CauseExpired
	CauseOffScreen
	CauseCollected
)

func (c Cause) String() string {
	switch c {
	case CauseCollision:
		return "collision"
	case CauseExpired:
		return "expired"
	case CauseOffScreen:
		return "off_screen"
	case CauseCollected:
		return "collected"
	default:
		return "none"
	}
}

// Event is a notification produced by a tick. Fields not relevant to Kind
// are zero.
type Event struct {
	Kind     EventKind
	At       time.Duration
	Entity   object.ID
	Category object.Category
	Pos      physics.Vec
	Cause    Cause
	Score    int
	High     int
	Buff     object.PowerUpKind
}
