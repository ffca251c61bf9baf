package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/domain"
)

// StatusFetcher fetches the settlement status of an order
type StatusFetcher interface {
	OrderStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error)
}

// WatchState is the watcher lifecycle state
type WatchState string

const (
	WatchIdle      WatchState = "IDLE"
	WatchPending   WatchState = "PENDING"
	WatchConfirmed WatchState = "CONFIRMED"
	WatchStopped   WatchState = "STOPPED"
)

// Watcher polls an order's payment status until it settles or the watcher
// is stopped. PIX and boleto settle out-of-band, so this is the only bridge
// from the provider back to session state. Stop cancels the in-flight tick;
// a poll response arriving after Stop never fires the callback.
type Watcher struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	state  WatchState
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher polling at the given interval
func NewWatcher(fetcher StatusFetcher, interval time.Duration, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		state:    WatchIdle,
	}
}

// Start begins polling the given order. onConfirmed fires exactly once, on
// the first CONFIRMED status, and never after Stop. Starting an already
// running watcher is a no-op.
func (w *Watcher) Start(orderID string, onConfirmed func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == WatchPending {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.state = WatchPending
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx, orderID, onConfirmed, w.done)
}

// Stop cancels polling. Safe to call multiple times and after confirmation.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.state == WatchPending {
		w.state = WatchStopped
	}
}

// State returns the current watcher state
func (w *Watcher) State() WatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Done returns a channel closed when the polling goroutine exits. Nil until
// the first Start.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Watcher) run(ctx context.Context, orderID string, onConfirmed func(), done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}

			status, err := w.fetcher.OrderStatus(ctx, orderID)
			if err != nil {
				// transient failures are inconclusive, keep polling
				w.logger.Warn("Payment status poll failed",
					zap.String("order_id", orderID),
					zap.Error(err),
				)
				continue
			}

			// A late response must not act after teardown
			if ctx.Err() != nil {
				return
			}

			if status == domain.PaymentStatusConfirmed {
				if !w.markConfirmed() {
					return
				}
				w.logger.Info("Payment confirmed", zap.String("order_id", orderID))
				if onConfirmed != nil {
					onConfirmed()
				}
				return
			}

			if status.IsTerminal() {
				// declined, cancelled or expired: nothing left to watch
				w.logger.Info("Payment reached terminal state without confirmation",
					zap.String("order_id", orderID),
					zap.String("status", string(status)),
				)
				w.markStopped()
				return
			}
		}
	}
}

// markConfirmed transitions PENDING to CONFIRMED; returns false if the
// watcher was stopped in the meantime.
func (w *Watcher) markConfirmed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != WatchPending {
		return false
	}
	w.state = WatchConfirmed
	w.cancel = nil
	return true
}

func (w *Watcher) markStopped() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == WatchPending {
		w.state = WatchStopped
	}
	w.cancel = nil
}
