package rendez

import (
	"context"
	"errors"
	"time"
)

// TryRecv attempts to take a value from a currently-waiting sender
// without blocking. It returns the value and nil on success,
// *EmptyError if no sender is currently waiting, or
// *RecvDisconnectedError if the channel is closed.
func (q *Queue[T]) TryRecv() (T, error) {
	var zero T
	if q.closed.Load() {
		q.metrics.observeDisconnected()
		return zero, &RecvDisconnectedError{}
	}
	if q.sendersLen.Load() == 0 {
		q.metrics.observeEmpty()
		return zero, &EmptyError{}
	}

	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		q.metrics.observeDisconnected()
		return zero, &RecvDisconnectedError{}
	}
	if peer, ok := q.senders.PopFront(); ok {
		peer.elem = nil
		q.sendersLen.Store(int64(q.senders.Len()))
		sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
		v := peer.take()
		peer.signal()
		q.mu.Unlock()
		q.metrics.setLens(sendersLen, receiversLen)
		q.metrics.observeHandoff()
		return v, nil
	}
	q.mu.Unlock()
	q.metrics.observeEmpty()
	return zero, &EmptyError{}
}

// RecvTimeout takes a value from a sender, blocking until one
// arrives, d elapses, or the channel closes. On timeout it returns
// *RecvTimeoutError; on closure, *RecvDisconnectedError.
func (q *Queue[T]) RecvTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return q.recvBlocking(timer.C, nil,
		func() error { return &RecvTimeoutError{} },
		func() error { return &RecvDisconnectedError{} },
	)
}

// Recv takes a value from a sender, blocking until one arrives or the
// channel closes. Its only failure is *RecvError, equivalent to
// disconnection.
func (q *Queue[T]) Recv() (T, error) {
	return q.recvBlocking(nil, nil,
		func() error { panic("rendez: unbounded Recv timed out") },
		func() error { return &RecvError{} },
	)
}

// RecvContext takes a value from a sender, blocking until one
// arrives, ctx is done, or the channel closes. On ctx cancellation it
// returns ctx.Err(); on closure, *RecvDisconnectedError.
func (q *Queue[T]) RecvContext(ctx context.Context) (T, error) {
	v, err := q.recvBlocking(nil, ctx.Done(),
		func() error { return &RecvTimeoutError{} },
		func() error { return &RecvDisconnectedError{} },
	)
	var rde *RecvDisconnectedError
	var rte *RecvTimeoutError
	switch {
	case errors.As(err, &rde):
		return v, err
	case errors.As(err, &rte):
		return v, ctx.Err()
	default:
		return v, err
	}
}

// recvBlocking is the shared body of RecvTimeout, Recv and
// RecvContext. See sendBlocking for the mirrored sender-side logic.
func (q *Queue[T]) recvBlocking(
	timerC <-chan time.Time,
	ctxDone <-chan struct{},
	timeoutErr func() error,
	disconnectedErr func() error,
) (T, error) {
	var zero T
	if q.closed.Load() {
		q.metrics.observeDisconnected()
		return zero, disconnectedErr()
	}

	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		q.metrics.observeDisconnected()
		return zero, disconnectedErr()
	}
	if peer, ok := q.senders.PopFront(); ok {
		peer.elem = nil
		q.sendersLen.Store(int64(q.senders.Len()))
		sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
		v := peer.take()
		peer.signal()
		q.mu.Unlock()
		q.metrics.setLens(sendersLen, receiversLen)
		q.metrics.observeHandoff()
		return v, nil
	}

	s := q.acquireSlot(zero)
	s.elem = q.receivers.PushBack(s)
	q.receiversLen.Store(int64(q.receivers.Len()))
	sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
	q.logger.Debugw("rendez: receiver blocked", "waiting_receivers", receiversLen)
	q.mu.Unlock()
	q.metrics.setLens(sendersLen, receiversLen)

	outcome := waitOn(s, timerC, ctxDone)
	if outcome == waitReady {
		v := s.take()
		q.releaseSlot(s)
		return v, nil
	}

	q.mu.Lock()
	if s.ready.Load() {
		q.mu.Unlock()
		v := s.take()
		q.releaseSlot(s)
		return v, nil
	}
	if s.elem != nil {
		q.receivers.Remove(s.elem)
		s.elem = nil
		q.receiversLen.Store(int64(q.receivers.Len()))
	}
	closed := q.closed.Load()
	q.mu.Unlock()

	q.releaseSlot(s)

	if closed {
		q.metrics.observeDisconnected()
		return zero, disconnectedErr()
	}
	q.metrics.observeTimeout()
	return zero, timeoutErr()
}
