// Package spawn decides when and where enemies and enemy shots appear.
package spawn

import (
	"fmt"
	"time"

	"github.com/tomz197/astral-shooter/internal/clock"
	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
	"github.com/tomz197/astral-shooter/internal/registry"
)

// Scheduler runs the enemy timer and the enemy-shot timer.
type Scheduler struct {
	cfg        config.SpawnTuning
	rng        Rand
	kinds      *Distribution[object.EnemyKind]
	enemyTimer *clock.Repeater
	shotTimer  *clock.Repeater
}

// NewScheduler creates a scheduler whose timers start at start.
func NewScheduler(cfg config.SpawnTuning, rng Rand, start time.Duration) (*Scheduler, error) {
	kinds, err := NewDistribution(
		Weighted[object.EnemyKind]{Value: object.EnemyNormal, Weight: cfg.NormalWeight},
		Weighted[object.EnemyKind]{Value: object.EnemyFast, Weight: cfg.FastWeight},
	)
	if err != nil {
		return nil, fmt.Errorf("enemy kinds: %w", err)
	}
	enemyTimer, err := clock.NewRepeater(cfg.EnemyPeriod, start)
	if err != nil {
		return nil, fmt.Errorf("enemy timer: %w", err)
	}
	shotTimer, err := clock.NewRepeater(cfg.ShotPeriod, start)
	if err != nil {
		return nil, fmt.Errorf("enemy shot timer: %w", err)
	}
	return &Scheduler{
		cfg:        cfg,
		rng:        rng,
		kinds:      kinds,
		enemyTimer: enemyTimer,
		shotTimer:  shotTimer,
	}, nil
}

// Kinds returns the enemy kind table.
func (s *Scheduler) Kinds() *Distribution[object.EnemyKind] {
	return s.kinds
}

// Update fires every due timer period and returns the entities created.
// Enemies are spawned before enemy shots.
func (s *Scheduler) Update(now time.Duration, reg *registry.Registry, target physics.Vec) []object.Entity {
	var created []object.Entity
	for range s.enemyTimer.Due(now) {
		created = append(created, s.SpawnEnemy(now, reg))
	}
	for range s.shotTimer.Due(now) {
		if p := s.SpawnEnemyProjectile(reg, target); p != nil {
			created = append(created, p)
		}
	}
	return created
}

// SpawnEnemy creates one enemy past the right edge.
func (s *Scheduler) SpawnEnemy(now time.Duration, reg *registry.Registry) *object.Enemy {
	kind := s.kinds.Draw(s.rng)
	from := physics.Vec{
		X: float64(between(s.rng, s.cfg.EnemyMinX, s.cfg.EnemyMaxX)),
		Y: float64(between(s.rng, s.cfg.EnemyMinY, s.cfg.EnemyMaxY)),
	}
	traversal := s.cfg.NormalTraversal
	if kind == object.EnemyFast {
		traversal = s.cfg.FastTraversal
	}
	return reg.CreateEnemy(kind, from, s.cfg.ExitX, now, traversal)
}

// SpawnEnemyProjectile fires from a random live enemy towards target. It
// returns nil when no enemy is alive.
func (s *Scheduler) SpawnEnemyProjectile(reg *registry.Registry, target physics.Vec) *object.EnemyProjectile {
	enemies := reg.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	shooter := enemies[s.rng.IntN(len(enemies))]
	from := shooter.Position()
	dir, ok := target.Sub(from).Normalize()
	if !ok {
		dir = physics.Vec{X: -1}
	}
	return reg.CreateEnemyProjectile(from, dir.Scale(s.cfg.EnemyShotSpeed))
}

// between returns an integer uniformly in [lo, hi].
func between(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
