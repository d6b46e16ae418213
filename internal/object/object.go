// Package object defines the game entities. The set of variants is closed:
// every entity is one of Ship, Enemy, PlayerProjectile, EnemyProjectile or
// PowerUp, identified by its Category.
package object

import "github.com/tomz197/astral-shooter/internal/physics"

// ID identifies a live entity within a registry. Zero is never allocated.
type ID uint64

// Category is the variant tag of an entity.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryShip
	CategoryEnemy
	CategoryPlayerProjectile
	CategoryEnemyProjectile
	CategoryPowerUp
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryShip,
	CategoryEnemy,
	CategoryPlayerProjectile,
	CategoryEnemyProjectile,
	CategoryPowerUp,
}

func (c Category) String() string {
	switch c {
	case CategoryShip:
		return "ship"
	case CategoryEnemy:
		return "enemy"
	case CategoryPlayerProjectile:
		return "player_projectile"
	case CategoryEnemyProjectile:
		return "enemy_projectile"
	case CategoryPowerUp:
		return "power_up"
	default:
		return "none"
	}
}

// Valid reports whether c names a real entity variant.
func (c Category) Valid() bool {
	return c >= CategoryShip && c <= CategoryPowerUp
}

// Destructible is implemented by entities that can be destroyed.
type Destructible interface {
	// MarkDestroyed flags the entity as dead. It returns true only for the
	// call that performed the alive to dead transition.
	MarkDestroyed() bool
	// IsDestroyed returns true once the entity is dead.
	IsDestroyed() bool
}

// Entity is implemented by the five entity variants and nothing else.
type Entity interface {
	Destructible
	EntityID() ID
	Category() Category
	Position() physics.Vec
	entity()
}

// Body holds the attributes shared by all entities.
type Body struct {
	ID        ID
	Pos       physics.Vec
	destroyed bool
}

func (b *Body) EntityID() ID          { return b.ID }
func (b *Body) Position() physics.Vec { return b.Pos }
func (b *Body) IsDestroyed() bool     { return b.destroyed }
func (b *Body) entity()               {}

// MarkDestroyed marks the entity dead. Subsequent calls are no-ops.
func (b *Body) MarkDestroyed() bool {
	if b.destroyed {
		return false
	}
	b.destroyed = true
	return true
}

// Intent is the abstract per-tick player input.
type Intent struct {
	Left, Right, Up, Down bool
	Fire                  bool
}

// Direction returns the unit step implied by the held directions, per axis.
func (i Intent) Direction() physics.Vec {
	var d physics.Vec
	if i.Left {
		d.X--
	}
	if i.Right {
		d.X++
	}
	if i.Up {
		d.Y--
	}
	if i.Down {
		d.Y++
	}
	return d
}

// ShouldRenderBlink returns true if an object blinking at the given period
// should be drawn at elapsed time into the blink.
func ShouldRenderBlink(elapsedMs, periodMs int64) bool {
	if periodMs <= 0 || elapsedMs < 0 {
		return true
	}
	return (elapsedMs/periodMs)%2 == 0
}
