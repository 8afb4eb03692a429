package browse

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder collects debouncer callbacks under a lock.
type recorder struct {
	mu     sync.Mutex
	fired  []string
	clears int
}

func (r *recorder) fire(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, q)
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *recorder) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fired...), r.clears
}

func TestDebouncer_FiresAfterQuietPeriod(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, 2, rec.fire, rec.clear)
	defer d.Stop()

	d.Input("photo")
	time.Sleep(60 * time.Millisecond)

	fired, _ := rec.snapshot()
	assert.Equal(t, []string{"photo"}, fired)
}

func TestDebouncer_RapidTypingFiresOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, 2, rec.fire, rec.clear)
	defer d.Stop()

	for _, q := range []string{"ph", "pho", "phot", "photo"} {
		d.Input(q)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(80 * time.Millisecond)

	fired, _ := rec.snapshot()
	assert.Equal(t, []string{"photo"}, fired)
}

func TestDebouncer_ShortQueryClearsImmediately(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, 2, rec.fire, rec.clear)
	defer d.Stop()

	d.Input("p")

	_, clears := rec.snapshot()
	assert.Equal(t, 1, clears)

	time.Sleep(60 * time.Millisecond)
	fired, _ := rec.snapshot()
	assert.Empty(t, fired)
}

func TestDebouncer_ShorteningCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, 2, rec.fire, rec.clear)
	defer d.Stop()

	d.Input("photo")
	time.Sleep(5 * time.Millisecond)
	// Backspaced below the threshold before the timer fired.
	d.Input("p")
	time.Sleep(80 * time.Millisecond)

	fired, clears := rec.snapshot()
	assert.Empty(t, fired)
	assert.Equal(t, 1, clears)
}

func TestDebouncer_TrimsWhitespace(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, 2, rec.fire, rec.clear)
	defer d.Stop()

	d.Input("  editor  ")
	time.Sleep(60 * time.Millisecond)

	fired, _ := rec.snapshot()
	assert.Equal(t, []string{"editor"}, fired)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, 2, rec.fire, rec.clear)

	d.Input("photo")
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	fired, _ := rec.snapshot()
	assert.Empty(t, fired)
}
