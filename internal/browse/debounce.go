package browse

import (
	"strings"
	"sync"
	"time"
)

// Debouncer gates suggestion lookups behind a quiet period. Each keystroke
// resets the timer; the fire callback runs only after the input has been
// stable for the configured delay. Inputs shorter than the minimum length
// cancel any pending lookup and clear suggestions immediately.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	delay    time.Duration
	minChars int
	fire     func(query string)
	clear    func()
}

// NewDebouncer creates a debouncer. fire runs on the timer goroutine after
// the quiet period; clear runs synchronously on Input when the query is too
// short.
func NewDebouncer(delay time.Duration, minChars int, fire func(string), clear func()) *Debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	if minChars < 1 {
		minChars = 2
	}
	return &Debouncer{
		delay:    delay,
		minChars: minChars,
		fire:     fire,
		clear:    clear,
	}
}

// Input feeds the current query text into the debouncer.
func (d *Debouncer) Input(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < d.minChars {
		if d.clear != nil {
			d.clear()
		}
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(trimmed)
	})
}

// Stop cancels any pending lookup.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
