package loop

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/astral-shooter/internal/draw"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// maxParticles caps the live particles of one terminal.
const maxParticles = 512

// particle is a purely visual speck. It never takes part in the game.
type particle struct {
	pos     physics.Vec
	vel     physics.Vec
	life    time.Duration // Remaining
	maxLife time.Duration
	drag    float64 // Velocity kept per 1/60 s
}

// particles is a render-side particle system with its own random source so
// it cannot disturb the engine's seeded sequence.
type particles struct {
	rng  *rand.Rand
	live []particle
}

func newParticles(seed uint64) *particles {
	return &particles{rng: rand.New(rand.NewPCG(seed, seed^0x5DEECE66D))}
}

func (ps *particles) add(p particle) {
	if len(ps.live) < maxParticles {
		ps.live = append(ps.live, p)
	}
}

// burst scatters count particles from pos in random directions. Speeds vary
// from half to one and a half of speed, lifetimes from half to all of life.
func (ps *particles) burst(pos physics.Vec, count int, speed float64, life time.Duration) {
	for range count {
		angle := ps.rng.Float64() * 2 * math.Pi
		l := time.Duration(float64(life) * (0.5 + ps.rng.Float64()*0.5))
		ps.add(particle{
			pos:     pos,
			vel:     physics.FromAngle(angle, speed*(0.5+ps.rng.Float64())),
			life:    l,
			maxLife: l,
			drag:    0.95,
		})
	}
}

// thrust emits exhaust opposite to the ship's velocity.
func (ps *particles) thrust(pos, vel physics.Vec) {
	dir, ok := vel.Normalize()
	if !ok {
		return
	}
	back := math.Atan2(-dir.Y, -dir.X)
	for range 1 + ps.rng.IntN(2) {
		angle := back + (ps.rng.Float64()-0.5)*0.5
		l := 100*time.Millisecond + time.Duration(ps.rng.Int64N(int64(150*time.Millisecond)))
		ps.add(particle{
			pos:     pos.Add(physics.FromAngle(back, 30)),
			vel:     physics.FromAngle(angle, 120+ps.rng.Float64()*60),
			life:    l,
			maxLife: l,
			drag:    0.85,
		})
	}
}

// update ages and moves the particles by dt, dropping expired ones.
func (ps *particles) update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	kept := ps.live[:0]
	for _, p := range ps.live {
		p.life -= dt
		if p.life <= 0 {
			continue
		}
		p.vel = p.vel.Scale(math.Pow(p.drag, dt.Seconds()*60))
		p.pos = p.pos.Add(p.vel.Scale(dt.Seconds()))
		kept = append(kept, p)
	}
	ps.live = kept
}

// draw plots the particles that are not yet fading out.
func (ps *particles) draw(c *draw.Canvas) {
	for _, p := range ps.live {
		if p.life*4 < p.maxLife {
			continue
		}
		c.Plot(p.pos)
	}
}

func (ps *particles) reset() {
	ps.live = ps.live[:0]
}
