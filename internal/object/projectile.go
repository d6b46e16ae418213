package object

import (
	"time"

	"github.com/tomz197/astral-shooter/internal/physics"
)

// PlayerProjectile is a shot fired by the ship. It lives for TTL.
type PlayerProjectile struct {
	Body
	Vel       physics.Vec // Pixels per second
	CreatedAt time.Duration
	TTL       time.Duration
}

// NewPlayerProjectile creates a player shot at pos.
func NewPlayerProjectile(id ID, pos, vel physics.Vec, createdAt, ttl time.Duration) *PlayerProjectile {
	return &PlayerProjectile{
		Body:      Body{ID: id, Pos: pos},
		Vel:       vel,
		CreatedAt: createdAt,
		TTL:       ttl,
	}
}

func (p *PlayerProjectile) Category() Category { return CategoryPlayerProjectile }

// Advance applies velocity for dt.
func (p *PlayerProjectile) Advance(dt time.Duration) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt.Seconds()))
}

// ExpiresAt returns the time the projectile times out.
func (p *PlayerProjectile) ExpiresAt() time.Duration {
	return p.CreatedAt + p.TTL
}

// Expired reports whether the TTL has run out at now.
func (p *PlayerProjectile) Expired(now time.Duration) bool {
	return now >= p.ExpiresAt()
}

// EnemyProjectile is a shot aimed once at the ship when spawned.
type EnemyProjectile struct {
	Body
	Vel physics.Vec
}

// NewEnemyProjectile creates an enemy shot at pos.
func NewEnemyProjectile(id ID, pos, vel physics.Vec) *EnemyProjectile {
	return &EnemyProjectile{Body: Body{ID: id, Pos: pos}, Vel: vel}
}

func (p *EnemyProjectile) Category() Category { return CategoryEnemyProjectile }

// Advance applies velocity for dt.
func (p *EnemyProjectile) Advance(dt time.Duration) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt.Seconds()))
}
