package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/game"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/physics"
)

// Sprite outlines in logical pixels around the entity centre.
var (
	shipShape = []physics.Vec{
		{X: 44, Y: 0}, {X: -28, Y: -30}, {X: -14, Y: 0}, {X: -28, Y: 30},
	}
	enemyShape = []physics.Vec{
		{X: -38, Y: 0}, {X: 0, Y: -30}, {X: 30, Y: -20}, {X: 18, Y: 0}, {X: 30, Y: 20}, {X: 0, Y: 30},
	}
	fastEnemyShape = []physics.Vec{
		{X: -40, Y: 0}, {X: 24, Y: -22}, {X: 10, Y: 0}, {X: 24, Y: 22},
	}
	diamondShape = []physics.Vec{
		{X: 0, Y: -16}, {X: 16, Y: 0}, {X: 0, Y: 16}, {X: -16, Y: 0},
	}
)

const shieldMargin = 14.0

var titleArt = []string{
	`   _   ___ _____ ___    _   _    `,
	`  /_\ / __|_   _| _ \  /_\ | |   `,
	` / _ \\__ \ | | |   / / _ \| |__ `,
	`/_/ \_\___/ |_| |_|_\/_/ \_\____|`,
}

// draw renders one frame.
func (r *Runner) draw() error {
	if r.dirty {
		r.cw.Clear()
		r.canvas.ForceRedraw()
		r.dirty = false
	}
	if r.tooSmall {
		r.cw.MoveCursor(1-r.offCol, 1-r.offRow)
		fmt.Fprintf(r.cw, "Terminal too small: need at least %dx%d", config.MinTermWidth, config.MinTermHeight)
		return r.cw.Flush()
	}

	r.canvas.Clear()
	if r.screen == screenPlaying && r.session != nil {
		r.drawWorld(r.session)
	}
	if err := r.canvas.Render(r.cw, r.offCol, r.offRow); err != nil {
		return err
	}

	switch {
	case r.idle:
		r.drawCentered(
			"INACTIVITY WARNING",
			"",
			fmt.Sprintf("You will be disconnected in %d seconds.", r.idleSecondsLeft()),
			"Press any key to continue",
		)
	case r.screen == screenTitle:
		r.drawTitle()
	default:
		r.drawHUD(r.session)
		if r.eng.Paused() {
			r.drawCentered("PAUSED", "", "Press P or Esc to resume")
		}
	}
	return r.cw.Flush()
}

func (r *Runner) idleSecondsLeft() int {
	left := r.idleTimeout - time.Since(r.lastInput)
	return max(int(left.Seconds()), 0)
}

// place moves a shape template to pos into a borrowed buffer.
func (r *Runner) place(shape []physics.Vec, pos physics.Vec) []physics.Vec {
	pts := r.canvas.BorrowPoints(len(shape))
	for i, p := range shape {
		pts[i] = pos.Add(p)
	}
	return pts
}

func (r *Runner) drawWorld(s *game.Session) {
	reg := s.Registry()
	now := s.Now()
	hit := r.eng.Tuning().Hitbox

	for _, e := range reg.Enemies() {
		shape := enemyShape
		if e.Kind == object.EnemyFast {
			shape = fastEnemyShape
		}
		r.canvas.Polygon(r.place(shape, e.Pos), true)
	}
	for _, p := range reg.EnemyProjectiles() {
		r.canvas.Circle(p.Pos, hit.EnemyShot, true)
	}
	for _, p := range reg.PlayerProjectiles() {
		r.canvas.Line(p.Pos.Sub(physics.Vec{X: hit.PlayerShot}), p.Pos.Add(physics.Vec{X: hit.PlayerShot}))
	}
	for _, p := range reg.PowerUps() {
		switch p.Kind {
		case object.PowerUpDoubleShot:
			r.canvas.Polygon(r.place(diamondShape, p.Pos), true)
		case object.PowerUpShield:
			r.canvas.Circle(p.Pos, 16, false)
		}
	}

	if ship := reg.Ship(); ship != nil && ship.Interactive() {
		r.canvas.Polygon(r.place(shipShape, ship.Pos), true)
		if shown, visible := s.Effects().ShieldIndicator(now); shown && visible {
			r.canvas.Circle(ship.Pos, hit.Ship+shieldMargin, false)
		}
	}

	for _, ex := range r.explosions {
		r.drawExplosion(ex, now)
	}
	r.fx.draw(r.canvas)
}

// drawExplosion draws the frame of ex at now. The animation has
// config.DeathAnimationFrames frames spread over its length.
func (r *Runner) drawExplosion(ex explosion, now time.Duration) {
	frames := config.DeathAnimationFrames
	frame := int(int64(now-ex.at) * int64(frames) / int64(ex.length))
	if frame < 0 || frame >= frames {
		return
	}
	grow := float64(frame+1) / float64(frames)
	outer := ex.size * grow
	r.canvas.Spokes(ex.pos, outer*0.45, outer, 8, float64(frame)*0.35)
	if frame%2 == 0 {
		r.canvas.Circle(ex.pos, outer*0.3, frame < frames/3)
	}
}

func (r *Runner) drawHUD(s *game.Session) {
	if s == nil {
		return
	}
	cols := r.canvas.Cols()
	r.cw.ClearLine(0)

	left := fmt.Sprintf("SCORE %05d  HI %05d", s.Score(), s.HighScore())
	if r.games > 0 {
		left += fmt.Sprintf("  LAST %d", r.lastScore)
	}
	r.cw.WriteAt(1, 0, left)

	var buffs []string
	p := s.Player()
	if p.DoubleShot {
		buffs = append(buffs, "DOUBLE "+secondsLeft(p.DoubleShotUntil, s.Now()))
	}
	if p.Shield {
		buffs = append(buffs, "SHIELD "+secondsLeft(p.ShieldUntil, s.Now()))
	}
	right := strings.Join(buffs, "  ")
	if right == "" {
		right = "P pause  Q quit"
	}
	if col := cols - len(right) + 1; col > len(left)+2 {
		r.cw.WriteAt(col, 0, right)
	}
}

func secondsLeft(until, now time.Duration) string {
	left := max(until-now, 0)
	return fmt.Sprintf("%ds", int((left+time.Second-1)/time.Second))
}

func (r *Runner) drawTitle() {
	lines := append([]string{}, titleArt...)
	lines = append(lines,
		"",
		"~ side-scrolling shooter in your terminal ~",
		"",
		"Move: arrows or WASD   Fire: Space or J",
		"Pause: P or Esc        Quit: Q",
		"",
		"Press SPACE to start",
	)
	r.drawCentered(lines...)
}

// drawCentered writes lines as a block centred on the canvas.
func (r *Runner) drawCentered(lines ...string) {
	cols, rows := r.canvas.Cols(), r.canvas.Rows()
	top := max(1, (rows-len(lines))/2+1)
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	left := max(1, (cols-width)/2+1)
	for i, l := range lines {
		if l == "" {
			continue
		}
		r.cw.WriteAt(left+(width-len([]rune(l)))/2, top+i, l)
	}
}
