package rendez_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/loopvar/rendez"
)

// TestMain confirms every parked goroutine a test spawns has actually
// returned by the time the package's tests finish — the Go analogue
// of spec §8's "destructor cleanliness" property, since Go has no
// deterministic destructor to assert against directly.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Smoke: on a fresh queue, TrySend/TryRecv both fail immediately.
func TestSmoke(t *testing.T) {
	q := rendez.New[int]()

	err := q.TrySend(7)
	var full *rendez.FullError[int]
	require.ErrorAs(t, err, &full)
	require.Equal(t, 7, full.Value)

	_, err = q.TryRecv()
	require.ErrorAs(t, err, new(*rendez.EmptyError))
}

// Producer/consumer: a receiver blocks across three sends, then
// observes disconnection once the sender closes.
func TestRecv(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		v, err := q.Recv()
		require.NoError(t, err)
		require.Equal(t, 7, v)

		time.Sleep(ms(100))
		v, err = q.Recv()
		require.NoError(t, err)
		require.Equal(t, 8, v)

		time.Sleep(ms(100))
		v, err = q.Recv()
		require.NoError(t, err)
		require.Equal(t, 9, v)

		_, err = q.Recv()
		require.ErrorAs(t, err, new(*rendez.RecvError))
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(150))
		require.NoError(t, q.Send(7))
		require.NoError(t, q.Send(8))
		require.NoError(t, q.Send(9))
		q.Close()
	}()

	wg.Wait()
}

func TestRecvTimeout(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err := q.RecvTimeout(ms(100))
		require.ErrorAs(t, err, new(*rendez.RecvTimeoutError))

		v, err := q.RecvTimeout(ms(100))
		require.NoError(t, err)
		require.Equal(t, 7, v)

		_, err = q.RecvTimeout(ms(100))
		require.ErrorAs(t, err, new(*rendez.RecvDisconnectedError))
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(150))
		require.NoError(t, q.Send(7))
		q.Close()
	}()

	wg.Wait()
}

func TestSendTimeout(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		err := q.SendTimeout(7, ms(100))
		var timeout *rendez.SendTimeoutError[int]
		require.ErrorAs(t, err, &timeout)
		require.Equal(t, 7, timeout.Value)

		require.NoError(t, q.SendTimeout(8, ms(100)))

		err = q.SendTimeout(9, ms(100))
		var disc *rendez.SendDisconnectedError[int]
		require.ErrorAs(t, err, &disc)
		require.Equal(t, 9, disc.Value)
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(150))
		v, err := q.Recv()
		require.NoError(t, err)
		require.Equal(t, 8, v)
		q.Close()
	}()

	wg.Wait()
}

func TestSend(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		require.NoError(t, q.Send(7))
		time.Sleep(ms(100))
		require.NoError(t, q.Send(8))
		time.Sleep(ms(100))
		require.NoError(t, q.Send(9))

		err := q.Send(10)
		var sendErr *rendez.SendError[int]
		require.ErrorAs(t, err, &sendErr)
		require.Equal(t, 10, sendErr.Value)
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(150))
		v, err := q.Recv()
		require.NoError(t, err)
		require.Equal(t, 7, v)
		v, err = q.Recv()
		require.NoError(t, err)
		require.Equal(t, 8, v)
		v, err = q.Recv()
		require.NoError(t, err)
		require.Equal(t, 9, v)
		q.Close()
	}()

	wg.Wait()
}

func TestTrySend(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var full *rendez.FullError[int]
		require.ErrorAs(t, q.TrySend(7), &full)

		time.Sleep(ms(150))
		require.NoError(t, q.TrySend(8))

		time.Sleep(ms(50))
		var disc *rendez.SendDisconnectedError[int]
		require.ErrorAs(t, q.TrySend(9), &disc)
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(100))
		v, err := q.Recv()
		require.NoError(t, err)
		require.Equal(t, 8, v)
		q.Close()
	}()

	wg.Wait()
}

func TestTryRecv(t *testing.T) {
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err := q.TryRecv()
		require.ErrorAs(t, err, new(*rendez.EmptyError))

		time.Sleep(ms(150))
		v, err := q.TryRecv()
		require.NoError(t, err)
		require.Equal(t, 7, v)

		time.Sleep(ms(50))
		_, err = q.TryRecv()
		require.ErrorAs(t, err, new(*rendez.RecvDisconnectedError))
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(100))
		require.NoError(t, q.Send(7))
		q.Close()
	}()

	wg.Wait()
}

func TestIsClosed(t *testing.T) {
	q := rendez.New[struct{}]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		require.False(t, q.IsClosed())
		time.Sleep(ms(150))
		require.True(t, q.IsClosed())
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(100))
		require.False(t, q.IsClosed())
		q.Close()
		require.True(t, q.IsClosed())
	}()

	wg.Wait()
}

func TestCloseSignalsSender(t *testing.T) {
	q := rendez.New[struct{}]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		err := q.Send(struct{}{})
		require.ErrorAs(t, err, new(*rendez.SendError[struct{}]))
		require.True(t, q.IsClosed())
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(100))
		q.Close()
	}()

	wg.Wait()
}

func TestCloseSignalsReceiver(t *testing.T) {
	q := rendez.New[struct{}]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err := q.Recv()
		require.ErrorAs(t, err, new(*rendez.RecvError))
		require.True(t, q.IsClosed())
	}()

	go func() {
		defer wg.Done()
		time.Sleep(ms(100))
		q.Close()
	}()

	wg.Wait()
}

// SendContext/RecvContext: cancelling the context unblocks a pending
// call with the context's own error instead of a bare timeout, and the
// sender recovers its undelivered value intact (spec §1 Conservation).
func TestSendContextCancel(t *testing.T) {
	q := rendez.New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- q.SendContext(ctx, 7)
	}()

	time.Sleep(ms(50))
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		var sce *rendez.SendContextError[int]
		require.ErrorAs(t, err, &sce)
		require.Equal(t, 7, sce.Value)
	case <-time.After(ms(500)):
		t.Fatal("SendContext did not observe cancellation")
	}

	_, err := q.TryRecv()
	require.ErrorAs(t, err, new(*rendez.EmptyError)) // nothing was actually handed off
}

func TestRecvContextDeadline(t *testing.T) {
	q := rendez.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), ms(50))
	defer cancel()

	_, err := q.RecvContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// SPSC: a single producer and single consumer exchange 100,000 values
// with no loss and no duplication (spec §8 conservation/no-duplication
// properties).
func TestSPSC(t *testing.T) {
	const count = 100_000
	q := rendez.New[int]()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			v, err := q.Recv()
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		_, err := q.Recv()
		require.ErrorAs(t, err, new(*rendez.RecvError))
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			require.NoError(t, q.Send(i))
		}
		q.Close()
	}()

	wg.Wait()
}

// MPMC conservation: 4 senders each send 0..25000, 4 receivers each
// receive 25000 values; every value index must be observed exactly
// once per sender, i.e. counts[i] == number of senders for every i.
func TestMPMCConservation(t *testing.T) {
	const count = 25_000
	const producers = 4
	const consumers = 4

	q := rendez.New[int]()
	counts := make([]int32, count)

	var recvWG sync.WaitGroup
	recvWG.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer recvWG.Done()
			for i := 0; i < count; i++ {
				v, err := q.Recv()
				require.NoError(t, err)
				atomic.AddInt32(&counts[v], 1)
			}
		}()
	}

	var sendWG sync.WaitGroup
	sendWG.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer sendWG.Done()
			for i := 0; i < count; i++ {
				require.NoError(t, q.Send(i))
			}
		}()
	}

	sendWG.Wait()
	recvWG.Wait()

	for i, c := range counts {
		require.Equalf(t, int32(producers), c, "counts[%d]", i)
	}
}

// AssertDrained holds once every in-flight call has returned.
func TestAssertDrainedAfterClose(t *testing.T) {
	q := rendez.New[int]()
	q.Close()
	require.NotPanics(t, q.AssertDrained)
}
