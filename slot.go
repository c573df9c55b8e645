package rendez

import (
	"go.uber.org/atomic"

	"github.com/loopvar/rendez/internal/waitlist"
)

// slot is a single waiter record: the Go stand-in for the original's
// stack-allocated Blocked<T> (a thread handle, a one-shot value cell,
// and a readiness flag). Go has no public park/unpark primitive, so
// the wake handle here is a close-once channel: closing it is the
// broadcast-once signal, the same role sync.Cond.Broadcast and
// channel-close idioms play elsewhere in this package's ancestry.
//
// Invariants (mirroring spec §3): ready may only be observed true
// after value holds its post-handoff state, only the pairing peer or
// Close may close wake, and once wake is closed no party but the
// slot's owner touches value.
type slot[T any] struct {
	wake  chan struct{}
	ready atomic.Bool
	value T

	// elem is this slot's own position in whichever waitlist currently
	// holds it, so cancellation can remove it in O(1) without a scan.
	// nil once the slot is no longer queued.
	elem *waitlist.Element[*slot[T]]
}

func newSlot[T any](v T) *slot[T] {
	return &slot[T]{wake: make(chan struct{}), value: v}
}

// signal marks the slot ready and wakes its owner, without touching
// value. Used when the pairing peer has already read value out of a
// waiting sender's slot and just needs to release it. Must be called
// with the queue's mutex held and the slot already dequeued.
func (s *slot[T]) signal() {
	s.ready.Store(true)
	close(s.wake)
}

// complete stores the handed-off value into a waiting receiver's
// slot, then signals it. Must be called with the queue's mutex held
// and the slot already dequeued.
func (s *slot[T]) complete(v T) {
	s.value = v
	s.signal()
}

// abandon wakes the owner without completing the transfer; used only
// by Close when it drains a still-queued slot.
func (s *slot[T]) abandon() {
	close(s.wake)
}

// take returns the slot's value. Callers must only call this after
// observing ready (handoff completed) or after removing the slot from
// its waitlist themselves under the lock (cancellation recovering its
// own value).
func (s *slot[T]) take() T {
	return s.value
}
