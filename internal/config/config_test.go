package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadTuningOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := `
ship:
  fireInterval: 250ms
effects:
  shield: 15s
scoring:
  dropChance: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error = %v", err)
	}
	if tun.Ship.FireInterval != 250*time.Millisecond {
		t.Errorf("FireInterval = %v, want 250ms", tun.Ship.FireInterval)
	}
	if tun.Effects.Shield != 15*time.Second {
		t.Errorf("Shield = %v, want 15s", tun.Effects.Shield)
	}
	if tun.Scoring.DropChance != 0.5 {
		t.Errorf("DropChance = %v, want 0.5", tun.Scoring.DropChance)
	}
	if tun.Ship.ShotTTL != ShotTTL {
		t.Errorf("unset ShotTTL = %v, want default %v", tun.Ship.ShotTTL, ShotTTL)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		want   string
	}{
		{"zero fire interval", func(t *Tuning) { t.Ship.FireInterval = 0 }, "fireInterval"},
		{"no weights", func(t *Tuning) { t.Spawn.NormalWeight, t.Spawn.FastWeight = 0, 0 }, "weights"},
		{"visual shorter than shield", func(t *Tuning) { t.Effects.ShieldVisual = time.Second }, "shieldVisual"},
		{"drop chance above one", func(t *Tuning) { t.Scoring.DropChance = 2 }, "dropChance"},
		{"small grid", func(t *Tuning) { t.Hitbox.CellSize = 10 }, "cellSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := Default()
			tt.mutate(&tun)
			err := tun.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ASTRAL_TEST_INT", "42")
	t.Setenv("ASTRAL_TEST_BAD", "x")
	t.Setenv("ASTRAL_TEST_DUR", "250ms")

	if got := GetEnvInt("ASTRAL_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("ASTRAL_TEST_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt(bad) = %d, want fallback 7", got)
	}
	if got := GetEnvDuration("ASTRAL_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnv("ASTRAL_TEST_UNSET_VAR", "fb"); got != "fb" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ASTRAL_TEST_FROM_FILE=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASTRAL_TEST_FROM_FILE", "")
	os.Unsetenv("ASTRAL_TEST_FROM_FILE")

	if err := LoadEnvFile(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("ASTRAL_TEST_FROM_FILE"); got != "yes" {
		t.Fatalf("ASTRAL_TEST_FROM_FILE = %q, want yes", got)
	}
}

func TestTuningFromEnv(t *testing.T) {
	t.Setenv("ASTRAL_CONFIG", "")
	tun, err := TuningFromEnv()
	if err != nil || tun != Default() {
		t.Fatalf("TuningFromEnv() without a file = %+v, %v", tun, err)
	}

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  enemyPeriod: 500ms\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASTRAL_CONFIG", path)
	tun, err = TuningFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if tun.Spawn.EnemyPeriod != 500*time.Millisecond {
		t.Fatalf("EnemyPeriod = %v, want 500ms", tun.Spawn.EnemyPeriod)
	}
}
