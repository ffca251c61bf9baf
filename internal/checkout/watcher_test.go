package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/domain"
)

// scriptedFetcher replays a fixed status sequence, repeating the last entry
type scriptedFetcher struct {
	mu       sync.Mutex
	statuses []domain.PaymentStatus
	errs     []error
	calls    int
}

func (f *scriptedFetcher) OrderStatus(context.Context, string) (domain.PaymentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type callCounter struct {
	mu    sync.Mutex
	calls int
}

func (c *callCounter) fn() func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.calls++
	}
}

func (c *callCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestWatcher_ConfirmsAfterPendingTicks(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusPending,
		domain.PaymentStatusConfirmed,
	}}
	confirmed := &callCounter{}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", confirmed.fn())

	require.Eventually(t, func() bool {
		return sut.State() == WatchConfirmed
	}, time.Second, 5*time.Millisecond, "watcher never confirmed")

	<-sut.Done()
	assert.Equal(t, 1, confirmed.count())
	assert.Equal(t, 3, fetcher.callCount(), "polling must stop at confirmation")

	// no re-fire after the terminal transition
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, 1, confirmed.count())
	assert.Equal(t, 3, fetcher.callCount())
}

func TestWatcher_TransientErrorsKeepPolling(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.PaymentStatus{
			domain.PaymentStatusPending,
			domain.PaymentStatusPending,
			domain.PaymentStatusConfirmed,
		},
		errs: []error{nil, fmt.Errorf("connection reset")},
	}
	confirmed := &callCounter{}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", confirmed.fn())

	require.Eventually(t, func() bool {
		return sut.State() == WatchConfirmed
	}, time.Second, 5*time.Millisecond, "transient poll error must not stop the watcher")

	assert.Equal(t, 1, confirmed.count())
}

func TestWatcher_StopBeforeConfirmation(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.PaymentStatus{domain.PaymentStatusPending}}
	confirmed := &callCounter{}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", confirmed.fn())

	require.Eventually(t, func() bool {
		return fetcher.callCount() >= 1
	}, time.Second, time.Millisecond)

	sut.Stop()
	<-sut.Done()

	assert.Equal(t, WatchStopped, sut.State())
	assert.Equal(t, 0, confirmed.count())
}

// blockingFetcher parks every call until released, simulating a slow poll
type blockingFetcher struct {
	entered chan struct{}
	release chan domain.PaymentStatus
}

func (f *blockingFetcher) OrderStatus(ctx context.Context, _ string) (domain.PaymentStatus, error) {
	f.entered <- struct{}{}
	select {
	case status := <-f.release:
		return status, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestWatcher_LateResponseAfterStopIsDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{
		entered: make(chan struct{}, 1),
		release: make(chan domain.PaymentStatus, 1),
	}
	confirmed := &callCounter{}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", confirmed.fn())

	// wait until a poll is in flight, then tear down and resolve it late
	<-fetcher.entered
	sut.Stop()
	fetcher.release <- domain.PaymentStatusConfirmed

	<-sut.Done()
	assert.Equal(t, WatchStopped, sut.State())
	assert.Equal(t, 0, confirmed.count())
}

func TestWatcher_TerminalWithoutConfirmationStops(t *testing.T) {
	for _, status := range []domain.PaymentStatus{
		domain.PaymentStatusDeclined,
		domain.PaymentStatusCancelled,
		domain.PaymentStatusExpired,
	} {
		fetcher := &scriptedFetcher{statuses: []domain.PaymentStatus{status}}
		confirmed := &callCounter{}

		sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
		sut.Start("order-1", confirmed.fn())

		<-sut.Done()
		assert.Equal(t, WatchStopped, sut.State(), "status %s", status)
		assert.Equal(t, 0, confirmed.count(), "status %s", status)
	}
}

func TestWatcher_StartWhileRunningIsNoop(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.PaymentStatus{domain.PaymentStatusPending}}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", nil)
	done := sut.Done()

	sut.Start("order-1", nil)
	assert.Equal(t, done, sut.Done(), "second Start must not spawn a new poll loop")

	sut.Stop()
	<-sut.Done()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.PaymentStatus{domain.PaymentStatusPending}}

	sut := NewWatcher(fetcher, 5*time.Millisecond, zap.NewNop())
	sut.Start("order-1", nil)

	sut.Stop()
	require.NotPanics(t, func() { sut.Stop() })
	assert.Equal(t, WatchStopped, sut.State())
}
