// Package registry owns the live entities of one game session.
package registry

import (
	"slices"
	"time"

	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// Registry holds every live entity, indexed by ID and kept per category in
// creation order. Destroyed entities are removed immediately, so lookups and
// iteration never return them.
type Registry struct {
	nextID object.ID
	byID   map[object.ID]object.Entity

	ship              *object.Ship
	enemies           []*object.Enemy
	playerProjectiles []*object.PlayerProjectile
	enemyProjectiles  []*object.EnemyProjectile
	powerUps          []*object.PowerUp
}

// New creates an empty registry. IDs start at 1.
func New() *Registry {
	return &Registry{
		nextID: 1,
		byID:   make(map[object.ID]object.Entity),
	}
}

func (r *Registry) allocate() object.ID {
	id := r.nextID
	r.nextID++
	return id
}

// CreateShip creates the ship. A previous live ship is destroyed first.
func (r *Registry) CreateShip(pos physics.Vec) *object.Ship {
	if r.ship != nil {
		r.Destroy(r.ship.ID)
	}
	s := object.NewShip(r.allocate(), pos)
	r.ship = s
	r.byID[s.ID] = s
	return s
}

// CreateEnemy adds an enemy travelling from `from` to x=toX.
func (r *Registry) CreateEnemy(kind object.EnemyKind, from physics.Vec, toX float64, now, traversal time.Duration) *object.Enemy {
	e := object.NewEnemy(r.allocate(), kind, from, toX, now, traversal)
	r.enemies = append(r.enemies, e)
	r.byID[e.ID] = e
	return e
}

// CreatePlayerProjectile adds a player shot.
func (r *Registry) CreatePlayerProjectile(pos, vel physics.Vec, now, ttl time.Duration) *object.PlayerProjectile {
	p := object.NewPlayerProjectile(r.allocate(), pos, vel, now, ttl)
	r.playerProjectiles = append(r.playerProjectiles, p)
	r.byID[p.ID] = p
	return p
}

// CreateEnemyProjectile adds an enemy shot.
func (r *Registry) CreateEnemyProjectile(pos, vel physics.Vec) *object.EnemyProjectile {
	p := object.NewEnemyProjectile(r.allocate(), pos, vel)
	r.enemyProjectiles = append(r.enemyProjectiles, p)
	r.byID[p.ID] = p
	return p
}

// CreatePowerUp adds a power-up.
func (r *Registry) CreatePowerUp(kind object.PowerUpKind, pos, vel physics.Vec) *object.PowerUp {
	p := object.NewPowerUp(r.allocate(), kind, pos, vel)
	r.powerUps = append(r.powerUps, p)
	r.byID[p.ID] = p
	return p
}

// Destroy kills the entity and removes it. It returns the entity and true
// only when this call performed the removal; unknown or already destroyed
// IDs are a no-op.
func (r *Registry) Destroy(id object.ID) (object.Entity, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	e.MarkDestroyed()

	switch v := e.(type) {
	case *object.Ship:
		// The ship pointer stays readable so the renderer can place the
		// explosion; Ship() reports it only while alive.
	case *object.Enemy:
		r.enemies = removeEntity(r.enemies, v)
	case *object.PlayerProjectile:
		r.playerProjectiles = removeEntity(r.playerProjectiles, v)
	case *object.EnemyProjectile:
		r.enemyProjectiles = removeEntity(r.enemyProjectiles, v)
	case *object.PowerUp:
		r.powerUps = removeEntity(r.powerUps, v)
	}
	return e, true
}

func removeEntity[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

// Lookup returns the live entity with the given ID.
func (r *Registry) Lookup(id object.ID) (object.Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Ship returns the live ship, or nil.
func (r *Registry) Ship() *object.Ship {
	if r.ship == nil || r.ship.IsDestroyed() {
		return nil
	}
	return r.ship
}

// LastShip returns the most recent ship even if destroyed.
func (r *Registry) LastShip() *object.Ship {
	return r.ship
}

// Enemies returns a snapshot of the live enemies in creation order.
func (r *Registry) Enemies() []*object.Enemy { return slices.Clone(r.enemies) }

// PlayerProjectiles returns a snapshot of the live player shots.
func (r *Registry) PlayerProjectiles() []*object.PlayerProjectile {
	return slices.Clone(r.playerProjectiles)
}

// EnemyProjectiles returns a snapshot of the live enemy shots.
func (r *Registry) EnemyProjectiles() []*object.EnemyProjectile {
	return slices.Clone(r.enemyProjectiles)
}

// PowerUps returns a snapshot of the live power-ups.
func (r *Registry) PowerUps() []*object.PowerUp { return slices.Clone(r.powerUps) }

// Count returns the number of live entities of category c.
func (r *Registry) Count(c object.Category) int {
	switch c {
	case object.CategoryShip:
		if r.Ship() != nil {
			return 1
		}
		return 0
	case object.CategoryEnemy:
		return len(r.enemies)
	case object.CategoryPlayerProjectile:
		return len(r.playerProjectiles)
	case object.CategoryEnemyProjectile:
		return len(r.enemyProjectiles)
	case object.CategoryPowerUp:
		return len(r.powerUps)
	default:
		return 0
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.byID)
}

// All returns every live entity ordered by ID, which is creation order.
func (r *Registry) All() []object.Entity {
	all := make([]object.Entity, 0, len(r.byID))
	for _, e := range r.byID {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b object.Entity) int {
		switch {
		case a.EntityID() < b.EntityID():
			return -1
		case a.EntityID() > b.EntityID():
			return 1
		default:
			return 0
		}
	})
	return all
}
