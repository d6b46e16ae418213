package config

import "time"

// Playfield in logical pixels. The terminal renderer scales it to fit.
const (
	PlayfieldWidth  = 1280
	PlayfieldHeight = 720
)

// Ship bounds and movement
const (
	ShipMinX   = 88
	ShipMaxX   = 1192
	ShipMinY   = 48
	ShipMaxY   = 672
	ShipStartX = 640
	ShipStartY = 360
	ShipSpeed  = 300.0 // Pixels per second per held direction
)

// Player fire
const (
	FireInterval      = 1000 * time.Millisecond
	ShotSpeed         = 400.0
	ShotTTL           = 3000 * time.Millisecond
	MuzzleOffsetX     = 70.0
	DoubleShotOffsetY = 10.0
	DoubleShotSpread  = 5.0 // Degrees either side of the heading
)

// Spawning
const (
	EnemySpawnPeriod    = 1000 * time.Millisecond
	EnemyShotPeriod     = 7000 * time.Millisecond
	EnemySpawnMinX      = 1200
	EnemySpawnMaxX      = 1280
	EnemySpawnMinY      = 50
	EnemySpawnMaxY      = 670
	EnemyExitX          = -50.0
	NormalTraversal     = 4000 * time.Millisecond
	FastTraversal       = 2500 * time.Millisecond
	NormalWeight        = 2
	FastWeight          = 1
	EnemyShotSpeed      = 300.0
	EnemyShotExitMargin = 64.0
	PowerUpDriftSpeed   = 50.0
)

// Buffs
const (
	DoubleShotDuration  = 15000 * time.Millisecond
	ShieldDuration      = 10000 * time.Millisecond
	ShieldVisualLife    = 15000 * time.Millisecond
	ShieldBlinkInterval = 100 * time.Millisecond
)

// Scoring
const (
	ScoreNormalEnemy  = 5
	ScoreFastEnemy    = 15
	PowerUpDropChance = 0.01
)

// Hit circles
const (
	ShipRadius            = 40.0
	EnemyRadius           = 36.0
	FastEnemyRadius       = 34.0
	PlayerShotRadius      = 12.0
	EnemyShotRadius       = 8.0
	PowerUpRadius         = 8.0
	CollisionGridCellSize = 80.0
)

// Death sequence: 9 explosion frames at 3 fps.
const (
	DeathAnimationFrames = 9
	DeathAnimationFPS    = 3
	DeathAnimationTime   = DeathAnimationFrames * time.Second / DeathAnimationFPS
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MinTermWidth          = 40
	MinTermHeight         = 12
)
