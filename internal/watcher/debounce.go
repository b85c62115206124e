package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultDebounceDelay is used when NewDebouncedWatcher gets no delay.
const DefaultDebounceDelay = 100 * time.Millisecond

// DebouncedWatcher coalesces bursts of events on the same path into one
// event carrying the union of their operations. A path's event is delivered
// once it has been quiet for the delay.
//
// A single goroutine owns the timer and is the only sender on Events and
// Errors; it closes both when the watcher stops.
type DebouncedWatcher struct {
	inner Watcher
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pending

	events chan Event
	errors chan error
	flush  chan chan struct{}
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
}

type pending struct {
	event Event
	due   time.Time
}

// NewDebouncedWatcher wraps inner. Closing the result closes inner.
func NewDebouncedWatcher(inner Watcher, delay time.Duration) *DebouncedWatcher {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	dw := &DebouncedWatcher{
		inner:   inner,
		delay:   delay,
		pending: make(map[string]*pending),
		events:  make(chan Event, 100),
		errors:  make(chan error, 100),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go dw.run()
	return dw
}

func (dw *DebouncedWatcher) Watch(path string) error   { return dw.inner.Watch(path) }
func (dw *DebouncedWatcher) Unwatch(path string) error { return dw.inner.Unwatch(path) }
func (dw *DebouncedWatcher) Events() <-chan Event      { return dw.events }
func (dw *DebouncedWatcher) Errors() <-chan error      { return dw.errors }

// Close drops pending events, closes the inner watcher and then the
// Events and Errors channels. Later calls return nil.
func (dw *DebouncedWatcher) Close() error {
	var err error
	dw.closeOnce.Do(func() {
		close(dw.stop)
		<-dw.done
		err = dw.inner.Close()
	})
	return err
}

// Flush delivers every pending event now.
func (dw *DebouncedWatcher) Flush() {
	ack := make(chan struct{})
	select {
	case dw.flush <- ack:
		<-ack
	case <-dw.done:
	}
}

// PendingCount returns the number of paths waiting to be delivered.
func (dw *DebouncedWatcher) PendingCount() int {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return len(dw.pending)
}

func (dw *DebouncedWatcher) run() {
	defer close(dw.done)
	defer close(dw.errors)
	defer close(dw.events)

	timer := time.NewTimer(dw.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-dw.stop:
			return

		case ev, ok := <-dw.inner.Events():
			if !ok {
				return
			}
			dw.add(ev)
			dw.arm(timer)

		case err, ok := <-dw.inner.Errors():
			if !ok {
				return
			}
			send(dw.errors, err)

		case <-timer.C:
			dw.deliver(dw.take(time.Now()))
			dw.arm(timer)

		case ack := <-dw.flush:
			dw.deliver(dw.take(time.Time{}))
			timer.Stop()
			close(ack)
		}
	}
}

func (dw *DebouncedWatcher) add(ev Event) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	due := time.Now().Add(dw.delay)
	if p, ok := dw.pending[ev.Path]; ok {
		p.event.Op |= ev.Op
		p.event.Timestamp = ev.Timestamp
		p.due = due
		return
	}
	dw.pending[ev.Path] = &pending{event: ev, due: due}
}

// arm resets timer to the earliest due event, or stops it.
func (dw *DebouncedWatcher) arm(timer *time.Timer) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var next time.Time
	for _, p := range dw.pending {
		if next.IsZero() || p.due.Before(next) {
			next = p.due
		}
	}
	if next.IsZero() {
		timer.Stop()
		return
	}
	timer.Reset(time.Until(next))
}

// take removes and returns the events due at now, ordered by path. A zero
// now takes everything.
func (dw *DebouncedWatcher) take(now time.Time) []Event {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var out []Event
	for path, p := range dw.pending {
		if now.IsZero() || !p.due.After(now) {
			out = append(out, p.event)
			delete(dw.pending, path)
		}
	}
	slices.SortFunc(out, func(a, b Event) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// deliver drops events once the reader is a full buffer behind.
func (dw *DebouncedWatcher) deliver(events []Event) {
	for _, ev := range events {
		send(dw.events, ev)
	}
}

var _ Watcher = (*DebouncedWatcher)(nil)
