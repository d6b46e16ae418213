package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds every gameplay parameter. Default returns the stock game;
// LoadTuning overlays a YAML file on top of it.
type Tuning struct {
	Playfield PlayfieldTuning `yaml:"playfield"`
	Ship      ShipTuning      `yaml:"ship"`
	Spawn     SpawnTuning     `yaml:"spawn"`
	Effects   EffectTuning    `yaml:"effects"`
	Scoring   ScoringTuning   `yaml:"scoring"`
	Hitbox    HitboxTuning    `yaml:"hitbox"`
}

// PlayfieldTuning describes the logical screen and where the ship may go.
type PlayfieldTuning struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	ShipMinX float64 `yaml:"shipMinX"`
	ShipMaxX float64 `yaml:"shipMaxX"`
	ShipMinY float64 `yaml:"shipMinY"`
	ShipMaxY float64 `yaml:"shipMaxY"`
}

// ShipTuning covers movement and firing.
type ShipTuning struct {
	StartX            float64       `yaml:"startX"`
	StartY            float64       `yaml:"startY"`
	Speed             float64       `yaml:"speed"`
	FireInterval      time.Duration `yaml:"fireInterval"`
	ShotSpeed         float64       `yaml:"shotSpeed"`
	ShotTTL           time.Duration `yaml:"shotTTL"`
	MuzzleOffsetX     float64       `yaml:"muzzleOffsetX"`
	DoubleShotOffsetY float64       `yaml:"doubleShotOffsetY"`
	DoubleShotSpread  float64       `yaml:"doubleShotSpread"` // Degrees
}

// SpawnTuning covers the enemy and enemy-shot timers.
type SpawnTuning struct {
	EnemyPeriod     time.Duration `yaml:"enemyPeriod"`
	ShotPeriod      time.Duration `yaml:"shotPeriod"`
	EnemyMinX       int           `yaml:"enemyMinX"`
	EnemyMaxX       int           `yaml:"enemyMaxX"`
	EnemyMinY       int           `yaml:"enemyMinY"`
	EnemyMaxY       int           `yaml:"enemyMaxY"`
	ExitX           float64       `yaml:"exitX"`
	NormalTraversal time.Duration `yaml:"normalTraversal"`
	FastTraversal   time.Duration `yaml:"fastTraversal"`
	NormalWeight    int           `yaml:"normalWeight"`
	FastWeight      int           `yaml:"fastWeight"`
	EnemyShotSpeed  float64       `yaml:"enemyShotSpeed"`
	ShotExitMargin  float64       `yaml:"shotExitMargin"`
	PowerUpDrift    float64       `yaml:"powerUpDrift"`
}

// EffectTuning covers buff lifetimes.
type EffectTuning struct {
	DoubleShot        time.Duration `yaml:"doubleShot"`
	Shield            time.Duration `yaml:"shield"`
	ShieldVisual      time.Duration `yaml:"shieldVisual"`
	ShieldBlinkPeriod time.Duration `yaml:"shieldBlinkPeriod"`
}

// ScoringTuning covers rewards.
type ScoringTuning struct {
	NormalEnemy int     `yaml:"normalEnemy"`
	FastEnemy   int     `yaml:"fastEnemy"`
	DropChance  float64 `yaml:"dropChance"`
}

// HitboxTuning holds collision circle radii.
type HitboxTuning struct {
	Ship       float64 `yaml:"ship"`
	Enemy      float64 `yaml:"enemy"`
	FastEnemy  float64 `yaml:"fastEnemy"`
	PlayerShot float64 `yaml:"playerShot"`
	EnemyShot  float64 `yaml:"enemyShot"`
	PowerUp    float64 `yaml:"powerUp"`
	CellSize   float64 `yaml:"cellSize"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Playfield: PlayfieldTuning{
			Width:    PlayfieldWidth,
			Height:   PlayfieldHeight,
			ShipMinX: ShipMinX,
			ShipMaxX: ShipMaxX,
			ShipMinY: ShipMinY,
			ShipMaxY: ShipMaxY,
		},
		Ship: ShipTuning{
			StartX:            ShipStartX,
			StartY:            ShipStartY,
			Speed:             ShipSpeed,
			FireInterval:      FireInterval,
			ShotSpeed:         ShotSpeed,
			ShotTTL:           ShotTTL,
			MuzzleOffsetX:     MuzzleOffsetX,
			DoubleShotOffsetY: DoubleShotOffsetY,
			DoubleShotSpread:  DoubleShotSpread,
		},
		Spawn: SpawnTuning{
			EnemyPeriod:     EnemySpawnPeriod,
			ShotPeriod:      EnemyShotPeriod,
			EnemyMinX:       EnemySpawnMinX,
			EnemyMaxX:       EnemySpawnMaxX,
			EnemyMinY:       EnemySpawnMinY,
			EnemyMaxY:       EnemySpawnMaxY,
			ExitX:           EnemyExitX,
			NormalTraversal: NormalTraversal,
			FastTraversal:   FastTraversal,
			NormalWeight:    NormalWeight,
			FastWeight:      FastWeight,
			EnemyShotSpeed:  EnemyShotSpeed,
			ShotExitMargin:  EnemyShotExitMargin,
			PowerUpDrift:    PowerUpDriftSpeed,
		},
		Effects: EffectTuning{
			DoubleShot:        DoubleShotDuration,
			Shield:            ShieldDuration,
			ShieldVisual:      ShieldVisualLife,
			ShieldBlinkPeriod: ShieldBlinkInterval,
		},
		Scoring: ScoringTuning{
			NormalEnemy: ScoreNormalEnemy,
			FastEnemy:   ScoreFastEnemy,
			DropChance:  PowerUpDropChance,
		},
		Hitbox: HitboxTuning{
			Ship:       ShipRadius,
			Enemy:      EnemyRadius,
			FastEnemy:  FastEnemyRadius,
			PlayerShot: PlayerShotRadius,
			EnemyShot:  EnemyShotRadius,
			PowerUp:    PowerUpRadius,
			CellSize:   CollisionGridCellSize,
		},
	}
}

// LoadTuning reads a YAML file and overlays it on Default. Keys absent from
// the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// Validate checks the tuning for values the game cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	p := t.Playfield
	check(p.Width > 0 && p.Height > 0, "playfield must have positive size, got %vx%v", p.Width, p.Height)
	check(p.ShipMinX <= p.ShipMaxX && p.ShipMinY <= p.ShipMaxY, "ship bounds are inverted")

	s := t.Ship
	check(s.FireInterval > 0, "ship.fireInterval must be positive, got %v", s.FireInterval)
	check(s.ShotTTL > 0, "ship.shotTTL must be positive, got %v", s.ShotTTL)
	check(s.Speed >= 0 && s.ShotSpeed >= 0, "ship speeds must not be negative")

	sp := t.Spawn
	check(sp.EnemyPeriod > 0, "spawn.enemyPeriod must be positive, got %v", sp.EnemyPeriod)
	check(sp.ShotPeriod > 0, "spawn.shotPeriod must be positive, got %v", sp.ShotPeriod)
	check(sp.EnemyMinX <= sp.EnemyMaxX && sp.EnemyMinY <= sp.EnemyMaxY, "spawn area is inverted")
	check(sp.NormalTraversal > 0 && sp.FastTraversal > 0, "enemy traversal times must be positive")
	check(sp.NormalWeight >= 0 && sp.FastWeight >= 0, "enemy weights must not be negative")
	check(sp.NormalWeight+sp.FastWeight > 0, "enemy weights must not all be zero")

	e := t.Effects
	check(e.DoubleShot > 0 && e.Shield > 0, "buff durations must be positive")
	check(e.ShieldVisual >= e.Shield, "effects.shieldVisual (%v) must be at least effects.shield (%v)", e.ShieldVisual, e.Shield)
	check(e.ShieldBlinkPeriod > 0, "effects.shieldBlinkPeriod must be positive")

	sc := t.Scoring
	check(sc.NormalEnemy > 0 && sc.FastEnemy > 0, "enemy rewards must be positive")
	check(sc.DropChance >= 0 && sc.DropChance <= 1, "scoring.dropChance must be in [0,1], got %v", sc.DropChance)

	h := t.Hitbox
	check(h.Ship > 0 && h.Enemy > 0 && h.FastEnemy > 0 && h.PlayerShot > 0 && h.EnemyShot > 0 && h.PowerUp > 0,
		"hitbox radii must be positive")
	maxReach := h.Ship + max(h.Enemy, h.FastEnemy, h.EnemyShot, h.PowerUp)
	check(h.CellSize >= maxReach, "hitbox.cellSize (%v) must cover the largest contact distance (%v)", h.CellSize, maxReach)

	return errors.Join(errs...)
}

// TuningFromEnv loads the file named by ASTRAL_CONFIG, or returns Default
// if the variable is unset.
func TuningFromEnv() (Tuning, error) {
	path := GetEnv("ASTRAL_CONFIG", "")
	if path == "" {
		return Default(), nil
	}
	return LoadTuning(path)
}
