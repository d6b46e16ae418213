package object

import "github.com/tomz197/astral-shooter/internal/physics"

// Ship is the player-controlled craft.
type Ship struct {
	Body
	Vel     physics.Vec // Pixels per second, set from intent each tick
	Visible bool        // False once the death sequence started
}

// NewShip creates a visible ship at pos.
func NewShip(id ID, pos physics.Vec) *Ship {
	return &Ship{Body: Body{ID: id, Pos: pos}, Visible: true}
}

func (s *Ship) Category() Category { return CategoryShip }

// Interactive reports whether the ship still takes input and collides.
func (s *Ship) Interactive() bool {
	return s.Visible && !s.IsDestroyed()
}
