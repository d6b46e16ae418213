package collision

import (
	"testing"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

var (
	ship       = Subject{Category: object.CategoryShip}
	normal     = Subject{Category: object.CategoryEnemy, Enemy: object.EnemyNormal}
	fast       = Subject{Category: object.CategoryEnemy, Enemy: object.EnemyFast}
	playerShot = Subject{Category: object.CategoryPlayerProjectile}
	enemyShot  = Subject{Category: object.CategoryEnemyProjectile}
	shieldUp   = Subject{Category: object.CategoryPowerUp, PowerUp: object.PowerUpShield}
)

func TestResolveTable(t *testing.T) {
	r := NewResolver(config.Default().Scoring)
	tests := []struct {
		name   string
		a, b   Subject
		shield bool
		want   Outcome
	}{
		{"ship enemy", ship, normal, false,
			Outcome{Rule: RuleShipEnemy, DestroyA: true, DestroyB: true, Fatal: true}},
		{"shielded ship enemy", ship, fast, true,
			Outcome{Rule: RuleShieldedShipEnemy, DestroyB: true, HaltShip: true}},
		{"ship enemy shot", ship, enemyShot, false,
			Outcome{Rule: RuleShipProjectile, DestroyB: true, Fatal: true}},
		{"shielded ship enemy shot", ship, enemyShot, true,
			Outcome{Rule: RuleShieldedShipProjectile, DestroyB: true}},
		{"hit normal", playerShot, normal, false,
			Outcome{Rule: RulePlayerHit, DestroyA: true, DestroyB: true, ScoreDelta: 5, RollDrop: true}},
		{"hit fast", playerShot, fast, true,
			Outcome{Rule: RulePlayerHit, DestroyA: true, DestroyB: true, ScoreDelta: 15, RollDrop: true}},
		{"collect", ship, shieldUp, false,
			Outcome{Rule: RuleCollect, DestroyB: true, Collect: true, Buff: object.PowerUpShield}},
		{"enemy enemy", normal, fast, false, Outcome{}},
		{"shot shot", playerShot, enemyShot, false, Outcome{}},
		{"enemy power-up", normal, shieldUp, false, Outcome{}},
		{"shot power-up", playerShot, shieldUp, false, Outcome{}},
		{"unknown category", Subject{}, normal, false, Outcome{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.a, tt.b, Buffs{Shield: tt.shield}); got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveIsOrderInsensitive(t *testing.T) {
	r := NewResolver(config.Default().Scoring)
	subjects := []Subject{ship, normal, fast, playerShot, enemyShot, shieldUp}
	for _, a := range subjects {
		for _, b := range subjects {
			for _, shield := range []bool{false, true} {
				ab := r.Resolve(a, b, Buffs{Shield: shield})
				ba := r.Resolve(b, a, Buffs{Shield: shield})
				ab.DestroyA, ab.DestroyB = ab.DestroyB, ab.DestroyA
				if ab != ba {
					t.Errorf("Resolve(%v,%v) and reverse disagree: %+v vs %+v", a.Category, b.Category, ab, ba)
				}
			}
		}
	}
}

func TestSubjectOf(t *testing.T) {
	e := object.NewEnemy(1, object.EnemyFast, physics.Vec{}, 0, 0, 1)
	if got := SubjectOf(e); got != fast {
		t.Fatalf("SubjectOf(enemy) = %+v", got)
	}
	if got := SubjectOf(nil); got.Category != object.CategoryNone {
		t.Fatalf("SubjectOf(nil) = %+v", got)
	}
}
