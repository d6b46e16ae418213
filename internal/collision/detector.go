package collision

import (
	"slices"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
	"github.com/tomz197/astral-shooter/internal/registry"
)

// Event reports that two entities overlap this tick.
type Event struct {
	A, B     object.Category
	IDA, IDB object.ID
}

// EventOf builds the event for a pair of entities.
func EventOf(a, b object.Entity) Event {
	return Event{A: a.Category(), B: b.Category(), IDA: a.EntityID(), IDB: b.EntityID()}
}

// Detector finds overlapping pairs with circle hitboxes. Only pairs that
// have an outcome rule are reported.
type Detector struct {
	hit     config.HitboxTuning
	grid    *physics.SpatialGrid
	targets []object.Entity // Reused between ticks
}

// NewDetector creates a detector for a playfield of the given size.
func NewDetector(hit config.HitboxTuning, width, height float64) *Detector {
	return &Detector{
		hit:  hit,
		grid: physics.NewSpatialGrid(width, height, hit.CellSize),
	}
}

// Radius returns the hit circle radius of e.
func (d *Detector) Radius(e object.Entity) float64 {
	switch v := e.(type) {
	case *object.Ship:
		return d.hit.Ship
	case *object.Enemy:
		if v.Kind == object.EnemyFast {
			return d.hit.FastEnemy
		}
		return d.hit.Enemy
	case *object.PlayerProjectile:
		return d.hit.PlayerShot
	case *object.EnemyProjectile:
		return d.hit.EnemyShot
	case *object.PowerUp:
		return d.hit.PowerUp
	default:
		return 0
	}
}

// Detect returns the overlap events of the live entities in reg. Ship
// events come first, then player shot hits.
func (d *Detector) Detect(reg *registry.Registry) []Event {
	d.targets = d.targets[:0]
	for _, e := range reg.Enemies() {
		d.targets = append(d.targets, e)
	}
	for _, p := range reg.EnemyProjectiles() {
		d.targets = append(d.targets, p)
	}
	for _, p := range reg.PowerUps() {
		d.targets = append(d.targets, p)
	}

	d.grid.Clear()
	for i, t := range d.targets {
		d.grid.Insert(t.Position(), i)
	}

	var events []Event
	if ship := reg.Ship(); ship != nil && ship.Interactive() {
		events = d.collect(events, ship, func(object.Entity) bool { return true })
	}
	enemiesOnly := func(t object.Entity) bool { return t.Category() == object.CategoryEnemy }
	for _, p := range reg.PlayerProjectiles() {
		events = d.collect(events, p, enemiesOnly)
	}
	return events
}

func (d *Detector) collect(events []Event, src object.Entity, match func(object.Entity) bool) []Event {
	pos, r := src.Position(), d.Radius(src)
	var hits []int
	d.grid.QueryAround(pos, func(i int) bool {
		t := d.targets[i]
		if match(t) && physics.CirclesOverlap(pos, r, t.Position(), d.Radius(t)) {
			hits = append(hits, i)
		}
		return false
	})
	// Grid order is by cell
	slices.Sort(hits)
	for _, i := range hits {
		events = append(events, EventOf(src, d.targets[i]))
	}
	return events
}
