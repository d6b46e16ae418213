package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/astral-shooter/internal/physics"
)

func TestLayoutKeepsAspect(t *testing.T) {
	tests := []struct {
		name               string
		termCols, termRows int
		cols, rows         int
		offCol, offRow     int
	}{
		{"wide", 200, 41, 142, 40, 29, 1},
		{"tall", 64, 50, 64, 18, 0, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, offCol, offRow := Layout(tt.termCols, tt.termRows, 1, 1280, 720)
			if cols != tt.cols || rows != tt.rows || offCol != tt.offCol || offRow != tt.offRow {
				t.Fatalf("Layout = %d %d %d %d, want %d %d %d %d",
					cols, rows, offCol, offRow, tt.cols, tt.rows, tt.offCol, tt.offRow)
			}
		})
	}
}

func TestRenderHalfBlocksAndDiff(t *testing.T) {
	c := NewCanvas(4, 2, 4, 4) // one logical unit per sub-pixel
	c.Plot(physics.Vec{X: 0, Y: 0})
	c.Plot(physics.Vec{X: 1, Y: 1})
	c.Plot(physics.Vec{X: 2, Y: 0})
	c.Plot(physics.Vec{X: 2, Y: 1})

	var buf bytes.Buffer
	if err := c.Render(&buf, 0, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"\033[1;1H▀", "\033[1;2H▄", "\033[1;3H█", "\033[2;4H "} {
		if !strings.Contains(out, want) {
			t.Errorf("first render missing %q", want)
		}
	}

	buf.Reset()
	if err := c.Render(&buf, 0, 0); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", buf.String())
	}

	c.Clear()
	buf.Reset()
	c.Render(&buf, 2, 3)
	if !strings.Contains(buf.String(), "\033[4;3H ") {
		t.Fatalf("cleared cell not erased with offset: %q", buf.String())
	}
}

func TestFilledCircleCoversCentre(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	c.Circle(physics.Vec{X: 10, Y: 10}, 5, true)
	if !c.pixels[10*c.cols+10] {
		t.Fatal("filled circle left its centre empty")
	}
	if c.pixels[0] {
		t.Fatal("circle drew outside its bounds")
	}
}

func TestChunkWriterOffsetAndFlush(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	cw.SetOffset(10, 2)
	cw.WriteAt(1, 1, "hi")
	cw.WriteString(strings.Repeat("x", 3000))
	if buf.Len() != 0 {
		t.Fatal("wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\033[3;11Hhi") {
		t.Fatalf("output starts with %q", buf.String()[:12])
	}
	if cw.Len() != 0 || buf.Len() != len("\033[3;11Hhi")+3000 {
		t.Fatalf("flushed %d bytes", buf.Len())
	}
}
