// Package loop runs the terminal frame loop: it reads input, detects
// collisions, steps the engine and renders the session.
package loop

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/astral-shooter/internal/collision"
	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/draw"
	"github.com/tomz197/astral-shooter/internal/game"
	"github.com/tomz197/astral-shooter/internal/input"
	"github.com/tomz197/astral-shooter/internal/logging"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// hudRows is the number of text rows above the playfield.
const hudRows = 1

// Explosion lengths. The ship plays the full death animation.
const (
	enemyExplosionTime = time.Second
	shipExplosionTime  = config.DeathAnimationTime
)

type screen uint8

const (
	screenTitle screen = iota
	screenPlaying
)

// Options configures a Runner.
type Options struct {
	Engine   *game.Engine
	TermSize draw.TermSizeFunc
	Logger   *log.Logger
	// FrameTime defaults to config.ClientTargetFrameTime.
	FrameTime time.Duration
	// IdleTimeout ends the loop after this long without input. Zero disables it.
	IdleTimeout time.Duration
}

type explosion struct {
	pos    physics.Vec
	at     time.Duration
	length time.Duration
	size   float64
}

// Runner drives one engine for one terminal. It is not safe for concurrent
// use.
type Runner struct {
	eng      *game.Engine
	detector *collision.Detector
	stream   *input.Stream
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	termSize draw.TermSizeFunc
	log      *log.Logger

	frameTime   time.Duration
	idleTimeout time.Duration

	session    *game.Session
	screen     screen
	running    bool
	dirty      bool // Clear the terminal before the next frame
	wasPaused  bool
	tooSmall   bool
	termCols   int
	termRows   int
	offCol     int
	offRow     int
	explosions []explosion
	fx         *particles
	deathAt    time.Duration
	lastInput  time.Time
	idle       bool
	lastScore  int
	games      int
}

// New creates a runner reading keys from r and drawing to w.
func New(r io.Reader, w io.Writer, opts Options) *Runner {
	if opts.TermSize == nil {
		opts.TermSize = draw.DefaultTermSizeFunc
	}
	if opts.FrameTime <= 0 {
		opts.FrameTime = config.ClientTargetFrameTime
	}
	if opts.Engine == nil {
		opts.Engine, _ = game.NewEngine(game.Options{Logger: opts.Logger}) // Defaults always validate
	}
	cfg := opts.Engine.Tuning()
	return &Runner{
		eng:         opts.Engine,
		detector:    collision.NewDetector(cfg.Hitbox, cfg.Playfield.Width, cfg.Playfield.Height),
		stream:      input.StartStream(r),
		canvas:      draw.NewCanvas(0, 0, cfg.Playfield.Width, cfg.Playfield.Height),
		cw:          draw.NewChunkWriter(w),
		termSize:    opts.TermSize,
		log:         logging.Component(opts.Logger, "loop"),
		frameTime:   opts.FrameTime,
		idleTimeout: opts.IdleTimeout,
		fx:          newParticles(uint64(time.Now().UnixNano())),
		running:     true,
		dirty:       true,
		lastInput:   time.Now(),
	}
}

// Run plays until the player quits, the input closes, the idle timeout
// passes or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	draw.EnterScreen(r.cw)
	defer func() {
		draw.LeaveScreen(r.cw)
		_ = r.cw.Flush()
	}()

	for r.running {
		frameStart := time.Now()
		if ctx.Err() != nil {
			return nil
		}

		in := r.stream.Read(frameStart)
		r.trackIdle(in, frameStart)
		r.tick(ctx, in)
		if err := r.draw(); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < r.frameTime {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.frameTime - elapsed):
			}
		}
	}
	return nil
}

func (r *Runner) trackIdle(in input.Input, now time.Time) {
	if len(in.Pressed) > 0 {
		r.lastInput = now
		if r.idle {
			r.idle = false
			r.dirty = true
		}
		return
	}
	if r.idleTimeout <= 0 {
		return
	}
	switch quiet := now.Sub(r.lastInput); {
	case quiet >= r.idleTimeout:
		r.log.Info("disconnecting idle player", "idle", quiet.Round(time.Second))
		r.running = false
	case quiet >= r.idleTimeout*3/4 && !r.idle:
		r.idle = true
		r.dirty = true
	}
}

// tick applies one frame of input.
func (r *Runner) tick(ctx context.Context, in input.Input) {
	if in.Quit || in.Closed {
		r.running = false
		return
	}
	r.layout()

	switch r.screen {
	case screenTitle:
		if in.Fire || in.Enter {
			r.start(ctx)
		}
	case screenPlaying:
		r.play(ctx, in)
	}
}

// start begins a new session.
func (r *Runner) start(ctx context.Context) {
	s, err := r.eng.NewSession(ctx)
	if err != nil {
		r.log.Error("failed to start session", "err", err)
		r.running = false
		return
	}
	s.Drain()
	r.session = s
	r.explosions = r.explosions[:0]
	r.fx.reset()
	if r.screen != screenPlaying {
		r.screen = screenPlaying
		r.dirty = true
	}
}

func (r *Runner) play(ctx context.Context, in input.Input) {
	if in.Pause {
		if r.eng.Paused() {
			r.eng.Resume()
		} else {
			r.eng.Pause()
		}
	}
	if paused := r.eng.Paused(); paused != r.wasPaused {
		r.wasPaused = paused
		r.dirty = true
	}
	if r.eng.Paused() {
		return
	}

	s := r.session
	var collisions []collision.Event
	if !s.Dying() {
		collisions = r.detector.Detect(s.Registry())
	}
	prev := s.Now()
	r.eng.Step(s, game.Frame{Intent: in.Intent(), Collisions: collisions})
	r.handle(s.Drain())
	r.pruneExplosions(s.Now())
	r.fx.update(s.Now() - prev)
	if ship := s.Registry().Ship(); ship != nil && ship.Interactive() {
		r.fx.thrust(ship.Pos, ship.Vel)
	}

	if s.Dying() && s.Now()-r.deathAt >= shipExplosionTime {
		if r.eng.DeathAnimationComplete(ctx, s) {
			s.Drain()
			r.lastScore = s.Score()
			r.games++
			r.start(ctx)
		}
	}
}

func (r *Runner) handle(events []game.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case game.EventExplosion:
			if ev.Category == object.CategoryEnemy {
				r.explosions = append(r.explosions, explosion{pos: ev.Pos, at: ev.At, length: enemyExplosionTime, size: 60})
				r.fx.burst(ev.Pos, 14, 160, 700*time.Millisecond)
			}
		case game.EventDeathStarted:
			r.deathAt = ev.At
			r.explosions = append(r.explosions, explosion{pos: ev.Pos, at: ev.At, length: shipExplosionTime, size: 110})
			r.fx.burst(ev.Pos, 40, 220, 2*time.Second)
		case game.EventHighScore:
			r.log.Debug("new high score", "score", ev.High)
		}
	}
}

func (r *Runner) pruneExplosions(now time.Duration) {
	kept := r.explosions[:0]
	for _, ex := range r.explosions {
		if now-ex.at < ex.length {
			kept = append(kept, ex)
		}
	}
	r.explosions = kept
}

// layout fits the canvas to the current terminal size.
func (r *Runner) layout() {
	cols, rows, err := r.termSize()
	if err != nil || (cols == r.termCols && rows == r.termRows) {
		return
	}
	r.termCols, r.termRows = cols, rows
	r.tooSmall = cols < config.MinTermWidth || rows < config.MinTermHeight

	cfg := r.eng.Tuning().Playfield
	w, h, offCol, offRow := draw.Layout(cols, rows, hudRows, cfg.Width, cfg.Height)
	r.canvas.Resize(w, h)
	r.offCol, r.offRow = offCol, offRow
	r.cw.SetOffset(offCol, offRow)
	r.dirty = true
}

// Session returns the session being played, or nil on the title screen.
func (r *Runner) Session() *game.Session { return r.session }

// Running reports whether the loop continues.
func (r *Runner) Running() bool { return r.running }
