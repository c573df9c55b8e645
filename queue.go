// Package rendez implements a bounded-zero-capacity, multi-producer,
// multi-consumer, closable rendezvous channel: a synchronization
// primitive that hands a value of type T directly from one goroutine
// to another. It holds no internal buffer slot; every successful
// transfer pairs exactly one sender with exactly one receiver, at least
// one of which was already waiting.
//
// 本包实现一个零容量、多生产者/多消费者、可关闭的会合（rendezvous）
// 通道：一种将类型 T 的值从一个 goroutine 直接交给另一个 goroutine 的
// 同步原语。它不持有任何内部缓冲槽位，每次成功的传递都恰好配对一个
// 发送方和一个接收方，其中至少一方已在等待。
package rendez

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/loopvar/rendez/internal/waitlist"
)

// Queue is the rendezvous channel itself: two FIFO wait queues (one of
// pending senders, one of pending receivers) guarded by a single
// mutex, plus a one-way closed flag and two atomic length hints used
// for lock-free fast-path rejection in TrySend/TryRecv.
//
// A Queue must not be copied after first use, the same convention
// sync.Mutex documents for itself. The zero value is not ready to use;
// construct one with New.
type Queue[T any] struct {
	mu        sync.Mutex
	senders   *waitlist.List[*slot[T]]
	receivers *waitlist.List[*slot[T]]

	closed atomic.Bool

	// senders_len / receivers_len: atomic hints mirroring the current
	// length of the two queues above. They are read without the lock
	// by TrySend/TryRecv's fast path: a zero hint is reported as
	// Full/Empty straight away, while a non-zero hint only leads to
	// taking the lock and rechecking the queue itself before any
	// handoff, since the hints may be transiently stale.
	sendersLen   atomic.Int64
	receiversLen atomic.Int64

	logger  Logger
	metrics *Metrics
	pool    *sync.Pool // non-nil only when WithSlotPool is set
}

// Option configures a Queue at construction time.
type Option[T any] func(*Queue[T])

// WithLogger attaches a Logger the queue uses for its (debug-level)
// lifecycle events. The default is a no-op logger.
func WithLogger[T any](l Logger) Option[T] {
	return func(q *Queue[T]) { q.logger = l }
}

// WithMetrics attaches a Metrics the queue keeps in lockstep with its
// length hints and per-outcome counters.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(q *Queue[T]) { q.metrics = m }
}

// New constructs an empty, open Queue ready to be shared by reference
// among any number of goroutines.
func New[T any](opts ...Option[T]) *Queue[T] {
	q := &Queue[T]{
		senders:   waitlist.New[*slot[T]](),
		receivers: waitlist.New[*slot[T]](),
		logger:    noopLogger{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// debugAssertions gates the invariant checks spec §3/§5 describe as
// debug-time assertions on Queue destruction (Go has no destructors;
// the closest analogue is asserting immediately after Close returns).
// Mirrors runtime/chan.go's debugChan-style const toggle.
const debugAssertions = false

// assertDrained panics if either wait queue or length hint is
// non-zero. Called at the end of Close under debugAssertions, and
// exported as AssertDrained for tests/callers who want the same check
// without flipping the package-wide const.
func (q *Queue[T]) assertDrained() {
	if !debugAssertions {
		return
	}
	q.AssertDrained()
}

// AssertDrained panics unless both wait queues are empty and both
// length hints are zero. Intended for tests exercising spec §8's
// "destructor cleanliness" property once a Queue is known to have no
// outstanding calls.
func (q *Queue[T]) AssertDrained() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.senders.Len() != 0 || q.receivers.Len() != 0 {
		panic("rendez: Queue has outstanding waiters")
	}
	if q.sendersLen.Load() != 0 || q.receiversLen.Load() != 0 {
		panic("rendez: Queue length hints not zeroed")
	}
}

// Len reports a point-in-time snapshot of the number of blocked
// senders and receivers, read from the wait queues under the lock.
// Like the internal hints, this is informational only: by the time it
// returns either count may have already changed.
func (q *Queue[T]) Len() (senders, receivers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.senders.Len(), q.receivers.Len()
}
