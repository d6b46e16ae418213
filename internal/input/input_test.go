package input

import (
	"strings"
	"testing"
	"time"
)

func feed(s *Stream, keys string) {
	for i := 0; i < len(keys); i++ {
		s.ch <- keys[i]
	}
}

func TestArrowsAndLetters(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)
	feed(s, "\x1b[A\x1b[Dd ")

	in := s.Read(now)
	if !in.Up || !in.Left || !in.Right || !in.Fire {
		t.Fatalf("input = %+v", in)
	}
	if in.Down || in.Quit || in.Pause {
		t.Fatalf("unexpected keys in %+v", in)
	}
	it := in.Intent()
	if !it.Up || !it.Left || !it.Right || !it.Fire || it.Down {
		t.Fatalf("intent = %+v", it)
	}
}

func TestKeysReleaseAfterHold(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)
	feed(s, " ")
	if !s.Read(now).Fire {
		t.Fatal("fire not held")
	}
	if !s.Read(now.Add(keyHoldDuration / 2)).Fire {
		t.Fatal("fire released too early")
	}
	if s.Read(now.Add(keyHoldDuration)).Fire {
		t.Fatal("fire still held after hold duration")
	}
}

func TestPauseIsEdgeTriggered(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)
	feed(s, "p")
	if !s.Read(now).Pause {
		t.Fatal("pause not reported")
	}
	if s.Read(now.Add(time.Millisecond)).Pause {
		t.Fatal("pause repeated without a new key press")
	}
}

func TestLoneEscapePauses(t *testing.T) {
	s := newStream()
	feed(s, "\x1b")
	in := s.Read(time.Unix(100, 0))
	if !in.Pause || in.Up || in.Down || in.Left || in.Right {
		t.Fatalf("input = %+v, want pause only", in)
	}
}

func TestClosedStream(t *testing.T) {
	s := StartStream(strings.NewReader("q"))
	deadline := time.Now().Add(time.Second)
	var in Input
	for time.Now().Before(deadline) {
		if in = ReadInput(s); in.Closed {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !in.Closed {
		t.Fatal("stream never reported closed")
	}
	if in := ReadInput(s); !in.Closed {
		t.Fatal("closed state lost")
	}
}
