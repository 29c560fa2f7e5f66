// Package reachability tracks whether the catalog API can be reached and
// tells subscribers about every change.
package reachability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
)

const topicChanged = "reachability:changed"

// Prober answers "is the network path usable right now".
type Prober interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
	bus      EventBus.Bus

	// mu serializes transitions and their delivery, so subscribers see
	// them one at a time and in order.
	mu        sync.Mutex
	connected atomic.Bool
}

// New returns a monitor that starts in the disconnected state.
func New(prober Prober, interval, timeout time.Duration, logger logging.Logger) *Monitor {
	return &Monitor{
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "reachability"),
		bus:      EventBus.New(),
	}
}

func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

// Subscribe registers fn for every future transition. Handlers run on the
// goroutine that observed the transition and must not block for long.
func (m *Monitor) Subscribe(fn func(connected bool)) error {
	return m.bus.Subscribe(topicChanged, fn)
}

// Set records the current state and reports whether it changed.
func (m *Monitor) Set(ctx context.Context, connected bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected.Load() == connected {
		return false
	}
	m.connected.Store(connected)

	m.logger.Info(ctx, "reachability changed", "connected", connected)
	m.bus.Publish(topicChanged, connected)
	return true
}

// Probe pings once and applies the result.
func (m *Monitor) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.prober.Ping(pctx)
	cancel()

	if err != nil {
		m.logger.Debug(ctx, "probe failed", "error", err)
	}
	m.Set(ctx, err == nil)
	return err == nil
}

// Start probes once synchronously, then keeps probing every interval until
// ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	m.Probe(ctx)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Probe(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
