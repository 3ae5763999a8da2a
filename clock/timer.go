// Package clock extends a free-running hardware timer into a wide timestamp.
//
// The hardware timer counts ticks up to a reload threshold and then clears,
// raising an overflow signal. Software counts those overflows; the pair
// (overflow count, captured low-order value) forms the extended timestamp.
package clock

// Timer is the free-running hardware counter used for timestamping.
type Timer interface {
	// Configure sets the reload threshold and registers the overflow handler.
	// The handler is invoked once per reload from interrupt context.
	Configure(reload uint32, onOverflow func()) error
	Stop()
	Clear()
	Start()
	// Captured returns the low-order value latched by the most recent capture.
	Captured() uint32
}
