package object

import (
	"time"

	"github.com/tomz197/astral-shooter/internal/physics"
)

// PowerUpKind is the buff granted on collection.
type PowerUpKind uint8

const (
	PowerUpDoubleShot PowerUpKind = iota
	PowerUpShield
)

// NumPowerUpKinds is the number of power-up kinds.
const NumPowerUpKinds = int(PowerUpShield) + 1

// PowerUpKinds lists every power-up kind.
var PowerUpKinds = []PowerUpKind{PowerUpDoubleShot, PowerUpShield}

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpDoubleShot:
		return "double_shot"
	case PowerUpShield:
		return "shield"
	default:
		return "unknown"
	}
}

// PowerUp drifts down the screen until collected or out of the playfield.
type PowerUp struct {
	Body
	Kind PowerUpKind
	Vel  physics.Vec
}

// NewPowerUp creates a power-up at pos.
func NewPowerUp(id ID, kind PowerUpKind, pos, vel physics.Vec) *PowerUp {
	return &PowerUp{Body: Body{ID: id, Pos: pos}, Kind: kind, Vel: vel}
}

func (p *PowerUp) Category() Category { return CategoryPowerUp }

// Advance applies the drift for dt.
func (p *PowerUp) Advance(dt time.Duration) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt.Seconds()))
}

var (
	_ Entity = (*Ship)(nil)
	_ Entity = (*Enemy)(nil)
	_ Entity = (*PlayerProjectile)(nil)
	_ Entity = (*EnemyProjectile)(nil)
	_ Entity = (*PowerUp)(nil)
)
