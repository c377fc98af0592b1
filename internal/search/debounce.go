package search

import (
	"sync"
	"time"
)

// DefaultDebounceInterval is the quiet period a query must survive before it
// fires.
const DefaultDebounceInterval = 500 * time.Millisecond

// Debouncer collapses a burst of query submissions into a single firing:
// each submission restarts the timer, so only the last query of a burst
// reaches the sink. One debouncer serves one search session; it is safe for
// concurrent use.
type Debouncer struct {
	interval time.Duration
	sink     func(query string)

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer firing sink after interval of quiet.
// Non-positive intervals fall back to the default.
func NewDebouncer(interval time.Duration, sink func(query string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{interval: interval, sink: sink}
}

// Submit registers a keystroke's worth of query. Any pending firing is
// cancelled and the timer restarts; intermediate queries are dropped, never
// queued.
func (d *Debouncer) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.sink(query)
	})
}

// Stop cancels any pending firing. Used when the session ends mid-burst.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
