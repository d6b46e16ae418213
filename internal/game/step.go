package game

import (
	"math"
	"time"

	"github.com/tomz197/astral-shooter/internal/collision"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// Frame is the collaborator input for one tick.
type Frame struct {
	Intent     object.Intent
	Collisions []collision.Event
}

// Step advances s by one tick. The clock is sampled once; deferred effects,
// buff expiry, movement, spawning, input and collisions then run in that
// order against the sample. Steps on a session that is not current, is in
// GameOver or is dying change nothing but the sampled time.
func (e *Engine) Step(s *Session, f Frame) {
	if s == nil {
		return
	}
	now := e.clock.Now() - s.origin
	dt := max(now-s.now, 0)
	s.now = now
	s.ticks++

	if s != e.current || s.state == StateGameOver || s.dying {
		return
	}

	e.fireDeferred(s, now)
	e.expireBuffs(s)
	e.move(s, now, dt)
	e.spawn(s, now)
	e.applyIntent(s, now, dt, f.Intent)
	e.resolveCollisions(s, f.Collisions)
}

func (e *Engine) fireDeferred(s *Session, now time.Duration) {
	for _, d := range e.deferred.PopDue(now, s.id) {
		switch d.kind {
		case deferredShotExpiry:
			if ent, ok := s.reg.Destroy(object.ID(d.id)); ok {
				s.emitEntity(EventEntityDestroyed, ent, CauseExpired)
			}
		case deferredShieldBlink:
			if s.effects.BeginBlink(d.id) {
				s.emit(Event{Kind: EventShieldBlinkStarted, Buff: object.PowerUpShield})
			}
		case deferredShieldClear:
			if s.effects.ClearIndicator(d.id) {
				s.emit(Event{Kind: EventShieldCleared, Buff: object.PowerUpShield})
			}
		}
	}
}

func (e *Engine) expireBuffs(s *Session) {
	for _, kind := range s.effects.Expire(s.now) {
		s.emit(Event{Kind: EventBuffExpired, Buff: kind})
	}
}

func (e *Engine) move(s *Session, now, dt time.Duration) {
	for _, en := range s.reg.Enemies() {
		if en.Advance(now) {
			e.destroy(s, en, CauseOffScreen)
		}
	}
	for _, p := range s.reg.PlayerProjectiles() {
		p.Advance(dt)
	}
	margin := e.cfg.Spawn.ShotExitMargin
	for _, p := range s.reg.EnemyProjectiles() {
		p.Advance(dt)
		if !e.field.Contains(p.Pos, margin) {
			e.destroy(s, p, CauseOffScreen)
		}
	}
	for _, p := range s.reg.PowerUps() {
		p.Advance(dt)
		if p.Pos.Y > e.field.MaxY+e.cfg.Hitbox.PowerUp {
			e.destroy(s, p, CauseOffScreen)
		}
	}
}

func (e *Engine) spawn(s *Session, now time.Duration) {
	for _, ent := range s.spawner.Update(now, s.reg, s.ship.Pos) {
		s.emitEntity(EventEntityCreated, ent, CauseNone)
	}
}

func (e *Engine) applyIntent(s *Session, now, dt time.Duration, in object.Intent) {
	ship := s.ship
	ship.Vel = in.Direction().Scale(e.cfg.Ship.Speed)
	ship.Pos = e.bounds.Clamp(ship.Pos.Add(ship.Vel.Scale(dt.Seconds())))

	if in.Fire && s.gate.TryConsume(now) {
		e.fire(s, now)
	}
}

func (e *Engine) fire(s *Session, now time.Duration) {
	sc := e.cfg.Ship
	muzzle := s.ship.Pos.Add(physics.Vec{X: sc.MuzzleOffsetX})
	if s.effects.Active(object.PowerUpDoubleShot) {
		spread := sc.DoubleShotSpread * math.Pi / 180
		e.shoot(s, now, muzzle.Add(physics.Vec{Y: -sc.DoubleShotOffsetY}), physics.FromAngle(-spread, sc.ShotSpeed))
		e.shoot(s, now, muzzle.Add(physics.Vec{Y: sc.DoubleShotOffsetY}), physics.FromAngle(spread, sc.ShotSpeed))
	} else {
		e.shoot(s, now, muzzle, physics.Vec{X: sc.ShotSpeed})
	}
	s.emit(Event{Kind: EventShot, Pos: muzzle})
}

func (e *Engine) shoot(s *Session, now time.Duration, pos, vel physics.Vec) {
	p := s.reg.CreatePlayerProjectile(pos, vel, now, e.cfg.Ship.ShotTTL)
	e.deferred.Schedule(p.ExpiresAt(), s.id, deferredEffect{kind: deferredShotExpiry, id: uint64(p.ID)})
	s.emitEntity(EventEntityCreated, p, CauseNone)
}

func (e *Engine) resolveCollisions(s *Session, events []collision.Event) {
	for _, ev := range events {
		if s.dying {
			return // The rest of the tick is void once the death sequence starts
		}
		a, b, ok := e.lookupPair(s, ev)
		if !ok {
			continue
		}
		buffs := collision.Buffs{Shield: s.effects.Active(object.PowerUpShield)}
		out := e.resolver.Resolve(collision.SubjectOf(a), collision.SubjectOf(b), buffs)
		e.apply(s, a, b, out)
	}
}

// lookupPair validates an event and returns its live entities. Malformed
// events are counted; events naming dead entities are silently ignored.
func (e *Engine) lookupPair(s *Session, ev collision.Event) (object.Entity, object.Entity, bool) {
	if !ev.A.Valid() || !ev.B.Valid() || ev.IDA == 0 || ev.IDB == 0 || ev.IDA == ev.IDB {
		e.dropEvent(s, ev)
		return nil, nil, false
	}
	a, okA := s.reg.Lookup(ev.IDA)
	b, okB := s.reg.Lookup(ev.IDB)
	if (okA && a.Category() != ev.A) || (okB && b.Category() != ev.B) {
		e.dropEvent(s, ev)
		return nil, nil, false
	}
	if !okA || !okB {
		return nil, nil, false
	}
	return a, b, true
}

func (e *Engine) dropEvent(s *Session, ev collision.Event) {
	s.dropped++
	s.log.Debug("dropped malformed collision event", "a", ev.A, "b", ev.B, "ida", ev.IDA, "idb", ev.IDB)
}

func (e *Engine) apply(s *Session, a, b object.Entity, out collision.Outcome) {
	if out.Rule == collision.RuleNone {
		return
	}
	enemyPos := enemyPosition(a, b)

	if out.Fatal {
		e.beginDeath(s)
	}
	if out.DestroyA {
		e.destroy(s, a, CauseCollision)
	}
	if out.DestroyB {
		cause := CauseCollision
		if out.Collect {
			cause = CauseCollected
		}
		e.destroy(s, b, cause)
	}
	if out.HaltShip {
		s.ship.Vel = physics.Vec{}
	}
	if out.ScoreDelta > 0 {
		high := s.score.Add(out.ScoreDelta)
		s.emit(Event{Kind: EventScoreChanged, Score: s.score.Current(), High: s.score.High()})
		if high {
			s.emit(Event{Kind: EventHighScore, Score: s.score.Current(), High: s.score.High()})
		}
	}
	if out.RollDrop {
		e.rollDrop(s, enemyPos)
	}
	if out.Collect {
		e.collect(s, out.Buff)
	}
}

func enemyPosition(a, b object.Entity) physics.Vec {
	if a.Category() == object.CategoryEnemy {
		return a.Position()
	}
	return b.Position()
}

// destroy removes ent and emits the notifications. Enemies and the ship
// explode.
func (e *Engine) destroy(s *Session, ent object.Entity, cause Cause) {
	if _, ok := s.reg.Destroy(ent.EntityID()); !ok {
		return
	}
	s.emitEntity(EventEntityDestroyed, ent, cause)
	if cause == CauseCollision && (ent.Category() == object.CategoryEnemy || ent.Category() == object.CategoryShip) {
		s.emit(Event{Kind: EventExplosion, Entity: ent.EntityID(), Category: ent.Category(), Pos: ent.Position()})
	}
}

func (e *Engine) beginDeath(s *Session) {
	if s.dying {
		return
	}
	s.dying = true
	s.deathAt = s.now
	s.ship.Visible = false
	s.ship.Vel = physics.Vec{}
	s.emit(Event{Kind: EventDeathStarted, Entity: s.ship.ID, Category: object.CategoryShip, Pos: s.ship.Pos})
	s.log.Debug("death sequence started", "score", s.score.Current())
}

func (e *Engine) rollDrop(s *Session, pos physics.Vec) {
	if e.rng.Float64() >= e.cfg.Scoring.DropChance {
		return
	}
	kind := object.PowerUpKinds[e.rng.IntN(len(object.PowerUpKinds))]
	p := s.reg.CreatePowerUp(kind, pos, physics.Vec{Y: e.cfg.Spawn.PowerUpDrift})
	s.emitEntity(EventEntityCreated, p, CauseNone)
}

func (e *Engine) collect(s *Session, kind object.PowerUpKind) {
	act := s.effects.Activate(kind, s.now)
	s.emit(Event{Kind: EventBuffActivated, Buff: kind})
	if kind == object.PowerUpShield {
		e.deferred.Schedule(act.BlinkAt, s.id, deferredEffect{kind: deferredShieldBlink, id: act.Gen})
		e.deferred.Schedule(act.VisualUntil, s.id, deferredEffect{kind: deferredShieldClear, id: act.Gen})
	}
}
