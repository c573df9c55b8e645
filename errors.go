package rendez

import "golang.org/x/xerrors"

// Sentinel errors every concrete error type below (except
// SendContextError, which Unwraps to ctx.Err()) Unwraps to, so
// callers can test outcomes with errors.Is/errors.As (or the x/xerrors
// equivalents) without caring which typed variant they got back.
var (
	// ErrFull is the sentinel behind FullError: TrySend found no
	// receiver currently waiting.
	ErrFull = xerrors.New("rendez: no receiver is waiting")

	// ErrEmpty is the sentinel behind EmptyError: TryRecv found no
	// sender currently waiting.
	ErrEmpty = xerrors.New("rendez: no sender is waiting")

	// ErrTimeout is the sentinel behind every *TimeoutError: the
	// deadline elapsed before a peer arrived.
	ErrTimeout = xerrors.New("rendez: timed out waiting for a peer")

	// ErrDisconnected is the sentinel behind every *DisconnectedError,
	// SendError and RecvError: the channel is closed.
	ErrDisconnected = xerrors.New("rendez: channel is closed")
)

// FullError is returned by TrySend when no receiver is currently
// waiting. Value carries the undelivered value back to the caller.
type FullError[T any] struct{ Value T }

func (e *FullError[T]) Error() string { return ErrFull.Error() }
func (e *FullError[T]) Unwrap() error { return ErrFull }

// EmptyError is returned by TryRecv when no sender is currently
// waiting.
type EmptyError struct{}

func (EmptyError) Error() string { return ErrEmpty.Error() }
func (EmptyError) Unwrap() error { return ErrEmpty }

// SendTimeoutError is returned by SendTimeout when the deadline elapses
// before a receiver arrives.
type SendTimeoutError[T any] struct{ Value T }

func (e *SendTimeoutError[T]) Error() string { return ErrTimeout.Error() }
func (e *SendTimeoutError[T]) Unwrap() error { return ErrTimeout }

// SendContextError is returned by SendContext when ctx is done before a
// receiver arrives. Value carries the undelivered value back to the
// caller intact, the same way every other send-side error does;
// Unwrap returns ctx.Err() so callers can still test with
// errors.Is(err, context.Canceled) / errors.Is(err, context.DeadlineExceeded).
type SendContextError[T any] struct {
	Value T
	Err   error
}

func (e *SendContextError[T]) Error() string { return e.Err.Error() }
func (e *SendContextError[T]) Unwrap() error { return e.Err }

// RecvTimeoutError is returned by RecvTimeout when the deadline
// elapses before a sender arrives. RecvContext reports a done context
// as ctx.Err() instead.
type RecvTimeoutError struct{}

func (RecvTimeoutError) Error() string { return ErrTimeout.Error() }
func (RecvTimeoutError) Unwrap() error { return ErrTimeout }

// SendDisconnectedError is returned by TrySend, SendTimeout and
// SendContext when the channel is closed. Value carries the
// undelivered value back to the caller intact.
type SendDisconnectedError[T any] struct{ Value T }

func (e *SendDisconnectedError[T]) Error() string { return ErrDisconnected.Error() }
func (e *SendDisconnectedError[T]) Unwrap() error { return ErrDisconnected }

// RecvDisconnectedError is returned by TryRecv, RecvTimeout and
// RecvContext when the channel is closed.
type RecvDisconnectedError struct{}

func (RecvDisconnectedError) Error() string { return ErrDisconnected.Error() }
func (RecvDisconnectedError) Unwrap() error { return ErrDisconnected }

// SendError is the unbounded-wait variant's only failure: Send can
// only fail by observing the channel closed, equivalent to
// SendDisconnectedError.
type SendError[T any] struct{ Value T }

func (e *SendError[T]) Error() string { return ErrDisconnected.Error() }
func (e *SendError[T]) Unwrap() error { return ErrDisconnected }

// RecvError is the unbounded-wait variant's only failure: Recv can
// only fail by observing the channel closed.
type RecvError struct{}

func (RecvError) Error() string { return ErrDisconnected.Error() }
func (RecvError) Unwrap() error { return ErrDisconnected }

// IsFull reports whether err is (or wraps) ErrFull.
func IsFull(err error) bool { return xerrors.Is(err, ErrFull) }

// IsEmpty reports whether err is (or wraps) ErrEmpty.
func IsEmpty(err error) bool { return xerrors.Is(err, ErrEmpty) }

// IsTimeout reports whether err is (or wraps) ErrTimeout.
func IsTimeout(err error) bool { return xerrors.Is(err, ErrTimeout) }

// IsDisconnected reports whether err is (or wraps) ErrDisconnected.
func IsDisconnected(err error) bool { return xerrors.Is(err, ErrDisconnected) }
