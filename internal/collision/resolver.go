// Package collision decides collision outcomes and detects overlaps.
package collision

import (
	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
)

// Rule names the row of the outcome table that applied.
type Rule uint8

const (
	RuleNone Rule = iota
	RuleShipEnemy
	RuleShieldedShipEnemy
	RuleShipProjectile
	RuleShieldedShipProjectile
	RulePlayerHit
	RuleCollect
)

func (r Rule) String() string {
	switch r {
	case RuleShipEnemy:
		return "ship_enemy"
	case RuleShieldedShipEnemy:
		return "shielded_ship_enemy"
	case RuleShipProjectile:
		return "ship_projectile"
	case RuleShieldedShipProjectile:
		return "shielded_ship_projectile"
	case RulePlayerHit:
		return "player_hit"
	case RuleCollect:
		return "collect"
	default:
		return "none"
	}
}

// Subject is what the resolver needs to know about one side of a collision.
type Subject struct {
	Category object.Category
	Enemy    object.EnemyKind   // Set for CategoryEnemy
	PowerUp  object.PowerUpKind // Set for CategoryPowerUp
}

// SubjectOf describes a live entity.
func SubjectOf(e object.Entity) Subject {
	switch v := e.(type) {
	case *object.Enemy:
		return Subject{Category: object.CategoryEnemy, Enemy: v.Kind}
	case *object.PowerUp:
		return Subject{Category: object.CategoryPowerUp, PowerUp: v.Kind}
	case nil:
		return Subject{}
	default:
		return Subject{Category: e.Category()}
	}
}

// Buffs is the player buff state relevant to collisions.
type Buffs struct {
	Shield bool
}

// Outcome is the decision for one collision. DestroyA and DestroyB refer to
// the arguments in the order they were passed to Resolve.
type Outcome struct {
	Rule       Rule
	DestroyA   bool
	DestroyB   bool
	Fatal      bool // Ship death sequence begins
	ScoreDelta int
	RollDrop   bool // Caller rolls the power-up drop at the enemy position
	Collect    bool
	Buff       object.PowerUpKind // Valid when Collect
	HaltShip   bool               // Ship velocity forced to zero while shielded
}

// Resolver maps collision pairs to outcomes. It holds no state.
type Resolver struct {
	scoring config.ScoringTuning
}

// NewResolver creates a resolver with the given rewards.
func NewResolver(scoring config.ScoringTuning) Resolver {
	return Resolver{scoring: scoring}
}

// Resolve decides the outcome of a and b colliding. The pair is order
// insensitive. Pairs with no rule yield RuleNone and change nothing.
func (r Resolver) Resolve(a, b Subject, buffs Buffs) Outcome {
	swapped := a.Category > b.Category
	lo, hi := a, b
	if swapped {
		lo, hi = b, a
	}

	out := r.resolveOrdered(lo, hi, buffs)
	if swapped {
		out.DestroyA, out.DestroyB = out.DestroyB, out.DestroyA
	}
	return out
}

// resolveOrdered handles pairs with lo.Category <= hi.Category.
func (r Resolver) resolveOrdered(lo, hi Subject, buffs Buffs) Outcome {
	switch lo.Category {
	case object.CategoryShip:
		switch hi.Category {
		case object.CategoryEnemy:
			if buffs.Shield {
				return Outcome{Rule: RuleShieldedShipEnemy, DestroyB: true, HaltShip: true}
			}
			return Outcome{Rule: RuleShipEnemy, DestroyA: true, DestroyB: true, Fatal: true}
		case object.CategoryEnemyProjectile:
			if buffs.Shield {
				return Outcome{Rule: RuleShieldedShipProjectile, DestroyB: true}
			}
			return Outcome{Rule: RuleShipProjectile, DestroyB: true, Fatal: true}
		case object.CategoryPowerUp:
			return Outcome{Rule: RuleCollect, DestroyB: true, Collect: true, Buff: hi.PowerUp}
		case object.CategoryShip, object.CategoryPlayerProjectile:
			return Outcome{}
		}
	case object.CategoryEnemy:
		switch hi.Category {
		case object.CategoryPlayerProjectile:
			return Outcome{
				Rule:       RulePlayerHit,
				DestroyA:   true,
				DestroyB:   true,
				ScoreDelta: r.reward(lo.Enemy),
				RollDrop:   true,
			}
		case object.CategoryEnemy, object.CategoryEnemyProjectile, object.CategoryPowerUp:
			return Outcome{}
		}
	case object.CategoryPlayerProjectile, object.CategoryEnemyProjectile, object.CategoryPowerUp:
		return Outcome{}
	}
	return Outcome{}
}

func (r Resolver) reward(kind object.EnemyKind) int {
	switch kind {
	case object.EnemyFast:
		return r.scoring.FastEnemy
	default:
		return r.scoring.NormalEnemy
	}
}
