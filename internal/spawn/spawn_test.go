package spawn

import (
	"errors"
	"math"
	"math/bits"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
	"github.com/tomz197/astral-shooter/internal/registry"
)

// weylRand keeps one golden-ratio Weyl sequence per range size, so draws
// for the enemy kind are evenly spread no matter how many position draws
// are interleaved.
type weylRand struct {
	counters map[int]uint64
}

func (w *weylRand) IntN(n int) int {
	if w.counters == nil {
		w.counters = make(map[int]uint64)
	}
	w.counters[n]++
	hi, _ := bits.Mul64(w.counters[n]*0x9E3779B97F4A7C15, uint64(n))
	return int(hi)
}

func newScheduler(t *testing.T, rng Rand) *Scheduler {
	t.Helper()
	s, err := NewScheduler(config.Default().Spawn, rng, 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDistributionTable(t *testing.T) {
	d, err := NewDistribution(
		Weighted[object.EnemyKind]{Value: object.EnemyNormal, Weight: 2},
		Weighted[object.EnemyKind]{Value: object.EnemyFast, Weight: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	if p := d.Probability(object.EnemyFast); math.Abs(p-1.0/3) > 1e-12 {
		t.Fatalf("P(fast) = %v, want 1/3", p)
	}
	if p := d.Probability(object.EnemyNormal); math.Abs(p-2.0/3) > 1e-12 {
		t.Fatalf("P(normal) = %v, want 2/3", p)
	}
}

func TestDistributionRejectsBadTables(t *testing.T) {
	if _, err := NewDistribution[int](); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("empty table error = %v", err)
	}
	if _, err := NewDistribution(Weighted[int]{1, -1}, Weighted[int]{2, 3}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("negative weight error = %v", err)
	}
	if _, err := NewDistribution(Weighted[int]{1, 0}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("zero total error = %v", err)
	}
}

func TestHundredEnemiesAboutOneThirdFast(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, &weylRand{})

	fast := 0
	for i := range 100 {
		if s.SpawnEnemy(time.Duration(i)*time.Second, reg).Kind == object.EnemyFast {
			fast++
		}
	}
	if fast < 25 || fast > 41 {
		t.Fatalf("fast enemies = %d of 100, want 25..41", fast)
	}
}

func TestFastProportionConverges(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, rand.New(rand.NewPCG(7, 11)))

	const n = 3000
	fast := 0
	for range n {
		if s.SpawnEnemy(0, reg).Kind == object.EnemyFast {
			fast++
		}
	}
	if got := float64(fast) / n; got < 0.30 || got > 0.37 {
		t.Fatalf("fast proportion = %.3f, want about 1/3", got)
	}
}

func TestSpawnEnemyPositionAndTraversal(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, rand.New(rand.NewPCG(1, 2)))

	for range 500 {
		e := s.SpawnEnemy(time.Second, reg)
		if e.Pos.X < 1200 || e.Pos.X > 1280 || e.Pos.Y < 50 || e.Pos.Y > 670 {
			t.Fatalf("enemy spawned at %v", e.Pos)
		}
		want := 4000 * time.Millisecond
		if e.Kind == object.EnemyFast {
			want = 2500 * time.Millisecond
		}
		if e.Traversal != want || e.ToX != -50 || e.SpawnedAt != time.Second {
			t.Fatalf("%v enemy traversal %v to %v at %v", e.Kind, e.Traversal, e.ToX, e.SpawnedAt)
		}
	}
}

func TestUpdateRunsBothTimers(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, rand.New(rand.NewPCG(3, 4)))
	ship := physics.Vec{X: 640, Y: 360}

	if got := s.Update(999*time.Millisecond, reg, ship); len(got) != 0 {
		t.Fatalf("spawned %d before the first period", len(got))
	}
	if got := s.Update(time.Second, reg, ship); len(got) != 1 {
		t.Fatalf("spawned %d at 1s, want 1 enemy", len(got))
	}
	got := s.Update(7*time.Second, reg, ship)
	enemies, shots := 0, 0
	for _, e := range got {
		switch e.Category() {
		case object.CategoryEnemy:
			enemies++
		case object.CategoryEnemyProjectile:
			shots++
		}
	}
	if enemies != 6 || shots != 1 {
		t.Fatalf("at 7s spawned %d enemies and %d shots, want 6 and 1", enemies, shots)
	}
}

func TestEnemyProjectileAimedOnce(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, rand.New(rand.NewPCG(5, 6)))

	if p := s.SpawnEnemyProjectile(reg, physics.Vec{}); p != nil {
		t.Fatal("shot spawned with no enemies alive")
	}

	reg.CreateEnemy(object.EnemyNormal, physics.Vec{X: 1000, Y: 400}, -50, 0, 4*time.Second)
	p := s.SpawnEnemyProjectile(reg, physics.Vec{X: 700, Y: 0})
	if p == nil {
		t.Fatal("no shot with a live enemy")
	}
	if p.Pos != (physics.Vec{X: 1000, Y: 400}) {
		t.Fatalf("shot origin = %v", p.Pos)
	}
	if math.Abs(p.Vel.X+180) > 1e-9 || math.Abs(p.Vel.Y+240) > 1e-9 {
		t.Fatalf("shot velocity = %v, want (-180, -240)", p.Vel)
	}
}

func TestEnemyProjectileOnTopOfShip(t *testing.T) {
	reg := registry.New()
	s := newScheduler(t, rand.New(rand.NewPCG(5, 6)))
	reg.CreateEnemy(object.EnemyNormal, physics.Vec{X: 600, Y: 300}, -50, 0, 4*time.Second)

	p := s.SpawnEnemyProjectile(reg, physics.Vec{X: 600, Y: 300})
	if p.Vel != (physics.Vec{X: -300}) {
		t.Fatalf("fallback velocity = %v, want (-300, 0)", p.Vel)
	}
}
