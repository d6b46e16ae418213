package clock

import (
	"container/heap"
	"time"

	"github.com/google/uuid"
)

// Deferred is a scheduled effect owned by one game session.
type Deferred[T any] struct {
	At      time.Duration
	Session uuid.UUID
	Payload T
	seq     uint64 // Tie-break so equal deadlines fire in scheduling order
}

// Queue is a priority queue of deferred effects ordered by fire time.
// Entries belong to a session; cancelling the session drops them, and
// entries of any session other than the one being polled never fire.
type Queue[T any] struct {
	items deferredHeap[T]
	seq   uint64
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Schedule queues payload to fire at the given time for session.
func (q *Queue[T]) Schedule(at time.Duration, session uuid.UUID, payload T) {
	q.seq++
	heap.Push(&q.items, Deferred[T]{At: at, Session: session, Payload: payload, seq: q.seq})
}

// PopDue removes and returns, in fire order, every entry of session due at
// or before now. Due entries of other sessions are stale and discarded.
func (q *Queue[T]) PopDue(now time.Duration, session uuid.UUID) []T {
	var due []T
	for len(q.items) > 0 && q.items[0].At <= now {
		d := heap.Pop(&q.items).(Deferred[T])
		if d.Session != session {
			continue
		}
		due = append(due, d.Payload)
	}
	return due
}

// Cancel drops every pending entry of session and returns how many were
// removed. Cancelling again returns 0.
func (q *Queue[T]) Cancel(session uuid.UUID) int {
	kept := q.items[:0]
	removed := 0
	for _, d := range q.items {
		if d.Session == session {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	clear(q.items[len(kept):])
	q.items = kept
	heap.Init(&q.items)
	return removed
}

// Len returns the number of pending entries.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// PeekAt returns the earliest fire time.
func (q *Queue[T]) PeekAt() (time.Duration, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0].At, true
}

type deferredHeap[T any] []Deferred[T]

func (h deferredHeap[T]) Len() int { return len(h) }

func (h deferredHeap[T]) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}

func (h deferredHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *deferredHeap[T]) Push(x any) { *h = append(*h, x.(Deferred[T])) }

func (h *deferredHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	var zero Deferred[T]
	old[n-1] = zero
	*h = old[:n-1]
	return item
}
