package object

import (
	"time"

	"github.com/tomz197/astral-shooter/internal/physics"
)

// EnemyKind selects enemy reward and speed.
type EnemyKind uint8

const (
	EnemyNormal EnemyKind = iota
	EnemyFast
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyNormal:
		return "normal"
	case EnemyFast:
		return "fast"
	default:
		return "unknown"
	}
}

// Enemy flies in a straight line from its spawn point to ToX.
type Enemy struct {
	Body
	Kind      EnemyKind
	From      physics.Vec
	ToX       float64
	SpawnedAt time.Duration
	Traversal time.Duration
}

// NewEnemy creates an enemy at from that reaches x=toX after traversal.
func NewEnemy(id ID, kind EnemyKind, from physics.Vec, toX float64, spawnedAt, traversal time.Duration) *Enemy {
	return &Enemy{
		Body:      Body{ID: id, Pos: from},
		Kind:      kind,
		From:      from,
		ToX:       toX,
		SpawnedAt: spawnedAt,
		Traversal: traversal,
	}
}

func (e *Enemy) Category() Category { return CategoryEnemy }

// Advance moves the enemy to its position at now and reports whether the
// traversal is complete.
func (e *Enemy) Advance(now time.Duration) bool {
	elapsed := now - e.SpawnedAt
	if e.Traversal <= 0 || elapsed >= e.Traversal {
		e.Pos = physics.Vec{X: e.ToX, Y: e.From.Y}
		return true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	frac := float64(elapsed) / float64(e.Traversal)
	e.Pos = physics.Vec{X: e.From.X + (e.ToX-e.From.X)*frac, Y: e.From.Y}
	return false
}
