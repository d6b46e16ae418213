// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/astral-shooter/internal/object"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals send no key-up events, so holding is inferred from auto-repeat.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Fire  bool
	Enter bool
	// Pause is edge-triggered: set only on the frame the key arrived.
	Pause   bool
	Closed  bool
	Pressed []byte
}

// Intent returns the gameplay part of the input.
func (in Input) Intent() object.Intent {
	return object.Intent{
		Left:  in.Left,
		Right: in.Right,
		Up:    in.Up,
		Down:  in.Down,
		Fire:  in.Fire,
	}
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	fire  time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// newStream creates a stream fed directly through its channel.
func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return s.Read(time.Now())
}

// Read drains the pending bytes and builds the input as seen at now.
// Arrow keys arrive as CSI sequences; everything else is a single byte.
func (s *Stream) Read(now time.Time) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Closed: s.closed, Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		if b == 'p' || b == 'P' || b == '\x1b' {
			// A lone ESC is the Esc key; sequences were consumed above.
			in.Pause = true
			continue
		}
		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool {
		return !t.IsZero() && now.Sub(t) < keyHoldDuration
	}
	in.Quit = held(s.state.quit)
	in.Left = held(s.state.left)
	in.Right = held(s.state.right)
	in.Up = held(s.state.up)
	in.Down = held(s.state.down)
	in.Fire = held(s.state.fire)
	in.Enter = held(s.state.enter)
	return in
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case ' ', 'j', 'J':
		state.fire = now
	case '\n', '\r':
		state.enter = now
	}
}
