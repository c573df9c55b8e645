package rendez

import "sync"

// WithSlotPool enables recycling of the per-call waiter records
// (slot[T]) across blocking calls via sync.Pool, adapted from
// src/sync/pool-1.15.go, instead of allocating one per blocked call
// and relying on escape analysis or the garbage collector to reclaim
// it. Off by default: the recycler is itself shared mutable state,
// and most callers never measure allocation pressure on this path.
func WithSlotPool[T any]() Option[T] {
	return func(q *Queue[T]) {
		q.pool = &sync.Pool{
			New: func() any { return new(slot[T]) },
		}
	}
}

// acquireSlot returns a fresh slot carrying v, from the pool if one is
// configured.
func (q *Queue[T]) acquireSlot(v T) *slot[T] {
	if q.pool == nil {
		return newSlot(v)
	}
	s := q.pool.Get().(*slot[T])
	*s = slot[T]{wake: make(chan struct{}), value: v}
	return s
}

// releaseSlot returns s to the pool, if one is configured, clearing
// its value first so the pool doesn't keep T's contents reachable
// longer than necessary.
func (q *Queue[T]) releaseSlot(s *slot[T]) {
	if q.pool == nil {
		return
	}
	var zero T
	s.value = zero
	s.elem = nil
	q.pool.Put(s)
}
