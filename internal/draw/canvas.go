// Package draw renders the logical playfield onto a terminal using
// half-block characters, two sub-pixels per cell.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/tomz197/astral-shooter/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// circleSegments is the polygon resolution used for circles.
const circleSegments = 20

// Canvas is a drawing buffer with 2x vertical resolution. Drawing calls take
// logical playfield coordinates and scale them to sub-pixels.
type Canvas struct {
	cols, rows int
	subRows    int    // rows * 2
	pixels     []bool // [y*cols + x]
	shown      []rune // Cell contents on the terminal after the last Render; 0 = unknown

	logicalW, logicalH float64
	scaleX, scaleY     float64

	scanBuf   []float64
	scaledBuf []physics.Vec
	pointBuf  []physics.Vec
	out       []byte
}

// NewCanvas creates a canvas of cols x rows cells showing a logical area of
// logicalW x logicalH.
func NewCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell size, keeping the logical area. The next Render
// repaints every cell.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	if cols != c.cols || rows != c.rows || c.pixels == nil {
		c.cols, c.rows, c.subRows = cols, rows, rows*2
		c.pixels = make([]bool, c.subRows*cols)
		c.shown = make([]rune, rows*cols)
	}
	if c.logicalW > 0 && c.logicalH > 0 {
		c.scaleX = float64(cols) / c.logicalW
		c.scaleY = float64(c.subRows) / c.logicalH
	}
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Cols returns the canvas width in terminal cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the canvas height in terminal cells.
func (c *Canvas) Rows() int { return c.rows }

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.subRows {
		c.pixels[y*c.cols+x] = true
	}
}

func (c *Canvas) toPixel(p physics.Vec) (int, int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// Plot sets the sub-pixel under a logical point.
func (c *Canvas) Plot(p physics.Vec) {
	c.setPixel(c.toPixel(p))
}

// Line draws a line between two logical points using Bresenham's algorithm.
func (c *Canvas) Line(a, b physics.Vec) {
	x1, y1 := c.toPixel(a)
	x2, y2 := c.toPixel(b)

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed polygon, filled with a scanline pass if asked.
func (c *Canvas) Polygon(points []physics.Vec, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	for i := range points {
		c.Line(points[i], points[(i+1)%len(points)])
	}
}

// Circle draws a circle of logical radius r. Circles smaller than a cell
// collapse to a single sub-pixel.
func (c *Canvas) Circle(center physics.Vec, r float64, filled bool) {
	if r*c.scaleX < 1 && r*c.scaleY < 1 {
		c.Plot(center)
		return
	}
	pts := c.BorrowPoints(circleSegments)
	for i := range pts {
		pts[i] = center.Add(physics.FromAngle(2*math.Pi*float64(i)/circleSegments, r))
	}
	c.Polygon(pts, filled)
}

// Spokes draws n evenly spaced radial strokes between radii inner and outer,
// rotated by phase radians.
func (c *Canvas) Spokes(center physics.Vec, inner, outer float64, n int, phase float64) {
	for i := range n {
		angle := phase + 2*math.Pi*float64(i)/float64(n)
		c.Line(center.Add(physics.FromAngle(angle, inner)), center.Add(physics.FromAngle(angle, outer)))
	}
}

// fill fills a polygon in sub-pixel space, sampling at pixel centres.
func (c *Canvas) fill(points []physics.Vec) {
	scaled := c.scaledBuf[:0]
	for _, p := range points {
		scaled = append(scaled, physics.Vec{X: p.X * c.scaleX, Y: p.Y * c.scaleY})
	}
	c.scaledBuf = scaled

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled[1:] {
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		xs := c.scanBuf[:0]
		for i, p1 := range scaled {
			p2 := scaled[(i+1)%len(scaled)]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.scanBuf = xs
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// BorrowPoints returns a reusable slice of n points, valid until the next
// call.
func (c *Canvas) BorrowPoints(n int) []physics.Vec {
	if cap(c.pointBuf) < n {
		c.pointBuf = make([]physics.Vec, n)
	}
	return c.pointBuf[:n]
}

// Cell converts a logical point to a 1-based canvas cell.
func (c *Canvas) Cell(p physics.Vec) (col, row int) {
	x, y := c.toPixel(p)
	return x + 1, y/2 + 1
}

// cellAt returns the half-block character for a cell.
func (c *Canvas) cellAt(col, row int) rune {
	top := c.pixels[2*row*c.cols+col]
	bottom := c.pixels[(2*row+1)*c.cols+col]
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// Render writes the cells that changed since the previous Render. Cell
// positions are offset by offCol and offRow (0-based).
func (c *Canvas) Render(w io.Writer, offCol, offRow int) error {
	out := c.out[:0]
	for row := range c.rows {
		for col := range c.cols {
			ch := c.cellAt(col, row)
			i := row*c.cols + col
			if c.shown[i] == ch {
				continue
			}
			c.shown[i] = ch
			out = append(out, "\033["...)
			out = strconv.AppendInt(out, int64(row+1+offRow), 10)
			out = append(out, ';')
			out = strconv.AppendInt(out, int64(col+1+offCol), 10)
			out = append(out, 'H')
			out = utf8.AppendRune(out, ch)
		}
	}
	c.out = out
	if len(out) == 0 {
		return nil
	}
	_, err := w.Write(out)
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
