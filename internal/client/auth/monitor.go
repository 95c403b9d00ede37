package auth

import (
	"context"
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker the monitor uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the default TickerFactory.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Monitor runs check on every tick until stopped or until check reports the
// session is gone. At most one loop runs at a time.
type Monitor struct {
	interval  time.Duration
	newTicker TickerFactory
	check     func(ctx context.Context) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(interval time.Duration, newTicker TickerFactory, check func(ctx context.Context) bool) *Monitor {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Monitor{interval: interval, newTicker: newTicker, check: check}
}

// Start launches the loop. It returns false if a loop is already running.
// Cancellation of ctx is not inherited; only Stop ends the loop.
func (m *Monitor) Start(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	m.cancel, m.done = cancel, done

	go m.run(loopCtx, m.newTicker(m.interval), done)
	return true
}

// Stop cancels the loop and waits for it to exit. Calling Stop when nothing
// runs is a no-op. It must not be called from inside check.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

func (m *Monitor) run(ctx context.Context, t Ticker, done chan struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !m.check(ctx) {
				m.detach(done)
				return
			}
		}
	}
}

// detach forgets the loop identified by done, unless Stop already did.
func (m *Monitor) detach(done chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done == done {
		m.cancel()
		m.cancel, m.done = nil, nil
	}
}
