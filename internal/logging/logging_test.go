package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", &buf)
	l.Info("hidden")
	l.Warn("shown", "key", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=1") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	Component(New("debug", &buf), "score").Debug("loaded")
	if !strings.Contains(buf.String(), "component=score") {
		t.Fatalf("component tag missing: %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "game.log")
	l, c, err := OpenFile("info", path)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("started")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "started") {
		t.Fatalf("log file = %q", data)
	}
}
