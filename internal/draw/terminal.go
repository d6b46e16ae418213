package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes written at once. It stays under a
// typical MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// ANSI sequences.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqAltScreen  = "\033[?1049h"
	seqMainScreen = "\033[?1049l"
	seqClearLine  = "\033[K"
)

// ChunkWriter accumulates one frame of terminal output and writes it in
// chunks on Flush. Cursor positions given to it are relative to the render
// area; the offset is added automatically.
type ChunkWriter struct {
	buf    strings.Builder
	out    *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{out: bufio.NewWriterSize(w, 8192)}
}

// SetOffset sets the 0-based position of the render area in the terminal.
func (cw *ChunkWriter) SetOffset(col, row int) {
	cw.offCol, cw.offRow = col, row
}

// Offset returns the render area position.
func (cw *ChunkWriter) Offset() (col, row int) {
	return cw.offCol, cw.offRow
}

// MoveCursor appends a cursor move to the 1-based render area cell.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at a 1-based render area cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteCentered writes s centred on row within a render area of width cols.
func (cw *ChunkWriter) WriteCentered(cols, row int, s string) {
	cw.WriteAt(max(1, (cols-len([]rune(s)))/2+1), row, s)
}

// ClearLine blanks the rest of the given render area row.
func (cw *ChunkWriter) ClearLine(row int) {
	cw.MoveCursor(1, row)
	cw.buf.WriteString(seqClearLine)
}

// Clear appends a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(seqClear)
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Flush writes the accumulated frame in chunks and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the process's stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, clears it and hides the
// cursor.
func EnterScreen(w io.Writer) {
	io.WriteString(w, seqAltScreen+seqHideCursor+seqClear)
}

// LeaveScreen restores the cursor and the main screen.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, seqClear+seqShowCursor+seqMainScreen)
}

// Layout fits a logical area of aspect logicalW:logicalH into a terminal
// of termCols x termRows, leaving hudRows rows for text. Half-block
// sub-pixels are square, so a cell covers one horizontal and two vertical
// sub-pixels. It returns the canvas size in cells and its 0-based offset.
func Layout(termCols, termRows, hudRows int, logicalW, logicalH float64) (cols, rows, offCol, offRow int) {
	avail := max(termRows-hudRows, 0)
	rows = avail
	cols = int(float64(rows) * 2 * logicalW / logicalH)
	if cols > termCols {
		cols = termCols
		rows = int(float64(cols) * logicalH / (2 * logicalW))
	}
	offCol = (termCols - cols) / 2
	offRow = hudRows + (avail-rows)/2
	return cols, rows, offCol, offRow
}
