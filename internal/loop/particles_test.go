package loop

import (
	"testing"
	"time"

	"github.com/tomz197/astral-shooter/internal/physics"
)

func TestBurstExpires(t *testing.T) {
	ps := newParticles(1)
	ps.burst(physics.Vec{X: 100, Y: 100}, 20, 200, time.Second)
	if len(ps.live) != 20 {
		t.Fatalf("live = %d, want 20", len(ps.live))
	}

	ps.update(100 * time.Millisecond)
	for _, p := range ps.live {
		if p.pos == (physics.Vec{X: 100, Y: 100}) {
			t.Fatal("particle did not move")
		}
	}
	ps.update(time.Second)
	if len(ps.live) != 0 {
		t.Fatalf("%d particles outlived their lifetime", len(ps.live))
	}
}

func TestThrustNeedsVelocity(t *testing.T) {
	ps := newParticles(1)
	ps.thrust(physics.Vec{X: 100, Y: 100}, physics.Vec{})
	if len(ps.live) != 0 {
		t.Fatal("thrust from a resting ship")
	}
	ps.thrust(physics.Vec{X: 100, Y: 100}, physics.Vec{X: 300})
	if len(ps.live) == 0 {
		t.Fatal("no exhaust from a moving ship")
	}
	for _, p := range ps.live {
		if p.vel.X >= 0 {
			t.Fatalf("exhaust velocity %v points forward", p.vel)
		}
	}
}

func TestParticleCap(t *testing.T) {
	ps := newParticles(1)
	ps.burst(physics.Vec{}, maxParticles+50, 100, time.Second)
	if len(ps.live) != maxParticles {
		t.Fatalf("live = %d, want cap %d", len(ps.live), maxParticles)
	}
}
