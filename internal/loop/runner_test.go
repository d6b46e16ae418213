package loop

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/astral-shooter/internal/clock"
	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/game"
	"github.com/tomz197/astral-shooter/internal/input"
	"github.com/tomz197/astral-shooter/internal/object"
	"github.com/tomz197/astral-shooter/internal/score"
)

func newRunner(t *testing.T, cols, rows int) (*Runner, *clock.Manual, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Scoring.DropChance = 0
	clk := clock.NewManual(0)
	eng, err := game.NewEngine(game.Options{
		Tuning: &cfg,
		Clock:  clk,
		Store:  score.NewMemoryStore(0),
		Rand:   rand.New(rand.NewPCG(7, 7)),
	})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	r := New(strings.NewReader(""), &out, Options{
		Engine:   eng,
		TermSize: func() (int, int, error) { return cols, rows, nil },
	})
	return r, clk, &out
}

func TestTitleThenStart(t *testing.T) {
	r, _, out := newRunner(t, 200, 41)
	ctx := context.Background()

	r.tick(ctx, input.Input{})
	if r.Session() != nil {
		t.Fatal("session started without input")
	}
	if err := r.draw(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Press SPACE to start") {
		t.Fatal("title screen not drawn")
	}

	r.tick(ctx, input.Input{Fire: true})
	if r.Session() == nil || r.screen != screenPlaying {
		t.Fatal("fire did not start a session")
	}
	out.Reset()
	r.tick(ctx, input.Input{})
	if err := r.draw(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "SCORE 00000") {
		t.Fatalf("HUD missing from %q", out.String())
	}
}

func TestDeathAnimationStartsNewSession(t *testing.T) {
	r, clk, _ := newRunner(t, 200, 41)
	ctx := context.Background()
	r.tick(ctx, input.Input{Enter: true})

	s := r.Session()
	ship := s.Ship()
	s.Registry().CreateEnemy(object.EnemyNormal, ship.Pos, -50, s.Now(), 4*time.Second)

	clk.Advance(16 * time.Millisecond)
	r.tick(ctx, input.Input{})
	if !s.Dying() {
		t.Fatal("overlapping enemy did not kill the ship")
	}
	if len(r.explosions) != 2 {
		t.Fatalf("explosions = %d, want the ship's and the enemy's", len(r.explosions))
	}

	clk.Advance(2 * time.Second)
	r.tick(ctx, input.Input{})
	if r.Session() != s || s.State() != game.StatePlaying {
		t.Fatal("session ended before the death animation finished")
	}

	clk.Advance(time.Second)
	r.tick(ctx, input.Input{})
	if s.State() != game.StateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if r.Session() == s || r.games != 1 {
		t.Fatal("no new session after game over")
	}
	if r.Session().State() != game.StatePlaying || r.Session().Dying() {
		t.Fatal("new session not playable")
	}
}

func TestPauseStopsStepping(t *testing.T) {
	r, clk, _ := newRunner(t, 200, 41)
	ctx := context.Background()
	r.tick(ctx, input.Input{Fire: true})
	s := r.Session()

	r.tick(ctx, input.Input{Pause: true})
	if !r.eng.Paused() {
		t.Fatal("pause key ignored")
	}
	ticks := s.Ticks()
	clk.Advance(time.Second)
	r.tick(ctx, input.Input{})
	if s.Ticks() != ticks {
		t.Fatal("stepped while paused")
	}

	r.tick(ctx, input.Input{Pause: true})
	if r.eng.Paused() || s.Ticks() != ticks+1 {
		t.Fatalf("paused=%v ticks=%d, want resumed and stepped", r.eng.Paused(), s.Ticks())
	}
}

func TestQuitStops(t *testing.T) {
	r, _, _ := newRunner(t, 200, 41)
	r.tick(context.Background(), input.Input{Quit: true})
	if r.Running() {
		t.Fatal("quit ignored")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	r, _, out := newRunner(t, 30, 10)
	r.tick(context.Background(), input.Input{})
	if err := r.draw(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Terminal too small") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestIdleWarningThenDisconnect(t *testing.T) {
	r, _, _ := newRunner(t, 200, 41)
	r.idleTimeout = time.Minute
	start := r.lastInput

	r.trackIdle(input.Input{}, start.Add(50*time.Second))
	if !r.idle || !r.Running() {
		t.Fatal("expected an idle warning")
	}
	r.trackIdle(input.Input{Pressed: []byte{'a'}}, start.Add(55*time.Second))
	if r.idle {
		t.Fatal("key press did not clear the warning")
	}
	r.trackIdle(input.Input{}, start.Add(116*time.Second))
	if r.Running() {
		t.Fatal("idle player not disconnected")
	}
}
