package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/termslots/internal/indicator"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindClock Kind = iota
	KindBattery
)

// Event conveys an updated indicator reading or an error from a poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Watcher polls the status bar indicators at a fixed interval and publishes
// events.
type Watcher struct {
	battery  *indicator.Battery
	now      func() time.Time
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that reads the clock and battery every
// interval.
func NewWatcher(battery *indicator.Battery, interval time.Duration) *Watcher {
	return newWatcher(battery, time.Now, interval)
}

func newWatcher(battery *indicator.Battery, now func() time.Time, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		battery:  battery,
		now:      now,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startClockPoller()
	if battery != nil {
		w.startBatteryPoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current read completes;
// use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startClockPoller() {
	w.wg.Add(1)
	go w.poll(KindClock, func(ctx context.Context) (interface{}, error) {
		return indicator.Clock(w.now()), nil
	})
}

func (w *Watcher) startBatteryPoller() {
	throttle := newThrottle(time.Second)
	w.wg.Add(1)
	go w.poll(KindBattery, func(ctx context.Context) (interface{}, error) {
		if !throttle.wait(ctx) {
			return nil, ctx.Err()
		}
		return w.battery.Read(), nil
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
