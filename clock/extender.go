package clock

import (
	"sync/atomic"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// maxStampRetries bounds the re-read loop in Stamp. Two overflows can only
// land inside one read if the reload interval is pathologically short.
const maxStampRetries = 4

// Extender tracks overflows of a Timer and composes extended timestamps.
//
// Overflow is the only writer of the overflow count; Stamp and Overflows are
// readers. Both sides use atomics so no lock is needed between the overflow
// interrupt and the receive path.
type Extender struct {
	timer     Timer
	reload    uint32
	overflows atomic.Uint32
}

// NewExtender returns an Extender for timer using the given reload interval.
// The same interval must be programmed into the timer; Configure does that.
func NewExtender(timer Timer, reload uint32) *Extender {
	return &Extender{timer: timer, reload: reload}
}

// Configure programs the timer's reload threshold and hooks Overflow up as
// its overflow handler.
func (e *Extender) Configure() error {
	if e.reload == 0 {
		return proto.ErrInvalidInterval
	}
	return e.timer.Configure(e.reload, e.Overflow)
}

// Reload returns the reload interval in ticks.
func (e *Extender) Reload() uint32 { return e.reload }

// Reset stops and clears the timer, zeroes the overflow count and restarts
// counting from zero.
func (e *Extender) Reset() {
	e.timer.Stop()
	e.timer.Clear()
	e.overflows.Store(0)
	e.timer.Start()
}

// Overflow is the overflow signal handler. Call it exactly once per reload.
func (e *Extender) Overflow() {
	e.overflows.Add(1)
}

// Overflows returns the current overflow count.
func (e *Extender) Overflows() uint32 {
	return e.overflows.Load()
}

// Stamp composes the extended timestamp from the current overflow count and
// the timer's capture register.
//
// The count is re-read after the capture register; if an overflow landed in
// between, the pair is read again so both halves come from the same overflow
// epoch as seen by software. A capture that
// latched in the same instant as a reload may still be attributed to either
// epoch.
func (e *Extender) Stamp() proto.Timestamp {
	var n, captured uint32
	for i := 0; i < maxStampRetries; i++ {
		n = e.overflows.Load()
		captured = e.timer.Captured()
		if e.overflows.Load() == n {
			break
		}
	}
	return proto.Compose(n, e.reload, captured)
}
