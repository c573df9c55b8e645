package rendez

import (
	"context"
	"errors"
	"time"
)

// TrySend attempts to hand v directly to a currently-waiting receiver
// without blocking. It returns nil on a successful handoff,
// *FullError[T] if no receiver is currently waiting, or
// *SendDisconnectedError[T] if the channel is closed. In both failure
// cases v is returned unchanged via the error's Value field.
func (q *Queue[T]) TrySend(v T) error {
	if q.closed.Load() {
		q.metrics.observeDisconnected()
		return &SendDisconnectedError[T]{Value: v}
	}
	if q.receiversLen.Load() == 0 {
		q.metrics.observeFull()
		return &FullError[T]{Value: v}
	}

	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		q.metrics.observeDisconnected()
		return &SendDisconnectedError[T]{Value: v}
	}
	if peer, ok := q.receivers.PopFront(); ok {
		peer.elem = nil
		q.receiversLen.Store(int64(q.receivers.Len()))
		sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
		peer.complete(v)
		q.mu.Unlock()
		q.metrics.setLens(sendersLen, receiversLen)
		q.metrics.observeHandoff()
		return nil
	}
	q.mu.Unlock()
	q.metrics.observeFull()
	return &FullError[T]{Value: v}
}

// SendTimeout hands v to a receiver, blocking until one arrives, d
// elapses, or the channel closes. On timeout it returns
// *SendTimeoutError[T]; on closure, *SendDisconnectedError[T]. Either
// way v is returned unchanged via the error's Value field.
func (q *Queue[T]) SendTimeout(v T, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return q.sendBlocking(v, timer.C, nil,
		func(v T) error { return &SendTimeoutError[T]{Value: v} },
		func(v T) error { return &SendDisconnectedError[T]{Value: v} },
	)
}

// Send hands v to a receiver, blocking until one arrives or the
// channel closes. Its only failure is *SendError[T], equivalent to
// disconnection, returned with v intact.
func (q *Queue[T]) Send(v T) error {
	return q.sendBlocking(v, nil, nil,
		func(T) error { panic("rendez: unbounded Send timed out") },
		func(v T) error { return &SendError[T]{Value: v} },
	)
}

// SendContext hands v to a receiver, blocking until one arrives, ctx
// is done, or the channel closes. On ctx cancellation it returns
// *SendContextError[T] (Value holds the undelivered v, Unwrap gives
// ctx.Err()); on closure, *SendDisconnectedError[T].
func (q *Queue[T]) SendContext(ctx context.Context, v T) error {
	err := q.sendBlocking(v, nil, ctx.Done(),
		func(v T) error { return &SendTimeoutError[T]{Value: v} },
		func(v T) error { return &SendDisconnectedError[T]{Value: v} },
	)
	var sde *SendDisconnectedError[T]
	var ste *SendTimeoutError[T]
	switch {
	case errors.As(err, &sde):
		return err
	case errors.As(err, &ste):
		// SendContext never passes a deadline timer, so reaching the
		// timeoutErr branch of sendBlocking only happens via ctx.Done;
		// recover the undelivered value instead of discarding it.
		return &SendContextError[T]{Value: ste.Value, Err: ctx.Err()}
	default:
		return err
	}
}

// sendBlocking is the shared body of SendTimeout, Send and
// SendContext: pair immediately if possible, else enqueue a slot and
// wait on whichever of timerC/ctxDone is non-nil. timeoutErr and
// disconnectedErr construct the caller-appropriate error, since Send's
// caller never expects a timeout variant.
func (q *Queue[T]) sendBlocking(
	v T,
	timerC <-chan time.Time,
	ctxDone <-chan struct{},
	timeoutErr func(T) error,
	disconnectedErr func(T) error,
) error {
	if q.closed.Load() {
		q.metrics.observeDisconnected()
		return disconnectedErr(v)
	}

	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		q.metrics.observeDisconnected()
		return disconnectedErr(v)
	}
	if peer, ok := q.receivers.PopFront(); ok {
		peer.elem = nil
		q.receiversLen.Store(int64(q.receivers.Len()))
		sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
		peer.complete(v)
		q.mu.Unlock()
		q.metrics.setLens(sendersLen, receiversLen)
		q.metrics.observeHandoff()
		return nil
	}

	s := q.acquireSlot(v)
	s.elem = q.senders.PushBack(s)
	q.sendersLen.Store(int64(q.senders.Len()))
	sendersLen, receiversLen := q.senders.Len(), q.receivers.Len()
	q.logger.Debugw("rendez: sender blocked", "waiting_senders", sendersLen)
	q.mu.Unlock()
	q.metrics.setLens(sendersLen, receiversLen)

	outcome := waitOn(s, timerC, ctxDone)
	if outcome == waitReady {
		q.releaseSlot(s)
		return nil
	}

	// Cancellation path (spec §4.1 step 7): reacquire the lock and
	// recheck ready, since a peer may have won the race between our
	// wake and our lock acquisition.
	q.mu.Lock()
	if s.ready.Load() {
		q.mu.Unlock()
		q.releaseSlot(s)
		return nil
	}
	if s.elem != nil {
		q.senders.Remove(s.elem)
		s.elem = nil
		q.sendersLen.Store(int64(q.senders.Len()))
	}
	closed := q.closed.Load()
	q.mu.Unlock()

	out := s.take()
	q.releaseSlot(s)

	if closed {
		q.metrics.observeDisconnected()
		return disconnectedErr(out)
	}
	q.metrics.observeTimeout()
	return timeoutErr(out)
}
