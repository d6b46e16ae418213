// Package effect tracks the time-boxed player buffs.
package effect

import (
	"time"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/object"
)

// Indicator is the visual phase of the shield.
type Indicator uint8

const (
	IndicatorHidden Indicator = iota
	IndicatorSolid
	IndicatorBlinking
)

func (i Indicator) String() string {
	switch i {
	case IndicatorSolid:
		return "solid"
	case IndicatorBlinking:
		return "blinking"
	default:
		return "hidden"
	}
}

// Activation describes the deadlines set by a collection. Gen identifies
// this activation; deferred callbacks carrying an older Gen are ignored.
type Activation struct {
	Kind        object.PowerUpKind
	At          time.Duration
	Until       time.Duration
	Gen         uint64
	Refreshed   bool          // The buff was already active
	BlinkAt     time.Duration // Shield only
	VisualUntil time.Duration // Shield only
}

type buff struct {
	active bool
	until  time.Duration
	gen    uint64
}

// Manager holds at most one buff of each kind.
type Manager struct {
	cfg   config.EffectTuning
	buffs [object.NumPowerUpKinds]buff
	gen   uint64

	indicator   Indicator
	blinkAt     time.Duration
	visualUntil time.Duration
}

// NewManager creates a manager with no active buffs.
func NewManager(cfg config.EffectTuning) *Manager {
	return &Manager{cfg: cfg}
}

func (m *Manager) duration(kind object.PowerUpKind) time.Duration {
	if kind == object.PowerUpShield {
		return m.cfg.Shield
	}
	return m.cfg.DoubleShot
}

// Activate starts or refreshes the buff. A refresh replaces the deadline;
// it never adds to it.
func (m *Manager) Activate(kind object.PowerUpKind, now time.Duration) Activation {
	if int(kind) >= len(m.buffs) {
		return Activation{}
	}
	m.gen++
	b := &m.buffs[kind]
	a := Activation{
		Kind:      kind,
		At:        now,
		Until:     now + m.duration(kind),
		Gen:       m.gen,
		Refreshed: b.active,
	}
	*b = buff{active: true, until: a.Until, gen: m.gen}

	if kind == object.PowerUpShield {
		m.indicator = IndicatorSolid
		m.blinkAt = now + m.cfg.Shield
		m.visualUntil = now + m.cfg.ShieldVisual
		a.BlinkAt = m.blinkAt
		a.VisualUntil = m.visualUntil
	}
	return a
}

// Expire turns off every buff whose deadline is at or before now and
// returns their kinds in declaration order.
func (m *Manager) Expire(now time.Duration) []object.PowerUpKind {
	var expired []object.PowerUpKind
	for i := range m.buffs {
		b := &m.buffs[i]
		if b.active && now >= b.until {
			b.active = false
			expired = append(expired, object.PowerUpKind(i))
		}
	}
	return expired
}

// Active reports whether the buff currently applies to gameplay.
func (m *Manager) Active(kind object.PowerUpKind) bool {
	return int(kind) < len(m.buffs) && m.buffs[kind].active
}

// Until returns the deadline of an active buff.
func (m *Manager) Until(kind object.PowerUpKind) (time.Duration, bool) {
	if !m.Active(kind) {
		return 0, false
	}
	return m.buffs[kind].until, true
}

// Gen returns the generation of the latest activation of kind.
func (m *Manager) Gen(kind object.PowerUpKind) uint64 {
	if int(kind) >= len(m.buffs) {
		return 0
	}
	return m.buffs[kind].gen
}

// BeginBlink switches the shield indicator to blinking if gen is still the
// latest shield activation.
func (m *Manager) BeginBlink(gen uint64) bool {
	if gen != m.buffs[object.PowerUpShield].gen || m.indicator != IndicatorSolid {
		return false
	}
	m.indicator = IndicatorBlinking
	return true
}

// ClearIndicator hides the shield indicator if gen is still the latest
// shield activation.
func (m *Manager) ClearIndicator(gen uint64) bool {
	if gen != m.buffs[object.PowerUpShield].gen || m.indicator == IndicatorHidden {
		return false
	}
	m.indicator = IndicatorHidden
	return true
}

// Indicator returns the shield indicator phase.
func (m *Manager) Indicator() Indicator {
	return m.indicator
}

// ShieldIndicator reports whether the shield graphic exists and whether it
// is drawn at now. While blinking it toggles every blink period.
func (m *Manager) ShieldIndicator(now time.Duration) (shown, visible bool) {
	switch m.indicator {
	case IndicatorSolid:
		return true, true
	case IndicatorBlinking:
		elapsed := (now - m.blinkAt).Milliseconds()
		return true, object.ShouldRenderBlink(elapsed, m.cfg.ShieldBlinkPeriod.Milliseconds())
	default:
		return false, false
	}
}
