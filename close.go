package rendez

// Close transitions the queue to the closed state, if it isn't
// already, and wakes every currently blocked sender and receiver
// without completing their transfers: each one's pending call returns
// a *SendDisconnectedError/*SendError or
// *RecvDisconnectedError/*RecvError, with senders recovering their
// undelivered value intact.
//
// Close returns true if this call performed the closed transition,
// false if the channel was already closed. It is safe to call
// concurrently with any other method and any number of times.
func (q *Queue[T]) Close() bool {
	if q.closed.Load() {
		return false
	}

	q.mu.Lock()
	if q.closed.Swap(true) {
		q.mu.Unlock()
		return false
	}

	q.senders.Drain(func(s *slot[T]) {
		s.elem = nil
		s.abandon()
	})
	q.receivers.Drain(func(s *slot[T]) {
		s.elem = nil
		s.abandon()
	})

	// Zero both hints before releasing the lock (spec §9's resolution
	// of its own open question) so a concurrent fast-path reader never
	// observes a stale positive hint once the queue is provably empty
	// and closed.
	q.sendersLen.Store(0)
	q.receiversLen.Store(0)

	q.mu.Unlock()

	q.metrics.setLens(0, 0)
	q.logger.Debugw("rendez: queue closed")
	q.assertDrained()
	return true
}

// IsClosed reports whether Close has already been called.
func (q *Queue[T]) IsClosed() bool {
	return q.closed.Load()
}
