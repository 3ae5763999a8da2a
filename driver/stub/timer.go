//go:build !tinygo && !baremetal

package stub

import (
	"sync"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Timer simulates a free-running hardware timer whose compare register clears
// the counter at the reload threshold. Time only moves through Advance.
type Timer struct {
	mu         sync.Mutex
	reload     uint32
	onOverflow func()
	counter    uint32
	captured   uint32
	running    bool
}

func NewTimer() *Timer { return &Timer{} }

func (t *Timer) Configure(reload uint32, onOverflow func()) error {
	if reload == 0 {
		return proto.ErrInvalidInterval
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.reload = reload
	t.onOverflow = onOverflow
	return nil
}

func (t *Timer) Stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

func (t *Timer) Clear() {
	t.mu.Lock()
	t.counter = 0
	t.mu.Unlock()
}

func (t *Timer) Start() {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
}

// Captured returns the value latched by the last Capture.
func (t *Timer) Captured() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.captured
}

// Capture latches the current counter into the capture register.
func (t *Timer) Capture() {
	t.mu.Lock()
	t.captured = t.counter
	t.mu.Unlock()
}

// Counter returns the current low-order count.
func (t *Timer) Counter() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Advance moves the counter forward by ticks, invoking the overflow handler
// once for every reload crossed. A stopped timer ignores Advance.
func (t *Timer) Advance(ticks uint64) {
	for ticks > 0 {
		t.mu.Lock()
		if !t.running || t.reload == 0 {
			t.mu.Unlock()
			return
		}
		step := uint64(t.reload - t.counter)
		if ticks < step {
			t.counter += uint32(ticks)
			t.mu.Unlock()
			return
		}
		ticks -= step
		t.counter = 0
		fn := t.onOverflow
		t.mu.Unlock()

		// Handler runs outside the lock, like an ISR reading the registers.
		if fn != nil {
			fn()
		}
	}
}
