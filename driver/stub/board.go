//go:build !tinygo && !baremetal

// Package stub simulates the sniffer's peripherals on the host: a listening
// transceiver, a free-running timer and the hardware route between the two.
package stub

import proto "github.com/ystepanoff/nrfsniff/protocol"

// Route connects the radio's address-match event to the timer's capture task,
// standing in for a peripheral interconnect channel.
type Route struct {
	radio     *Radio
	timer     *Timer
	connected bool
}

func NewRoute(radio *Radio, timer *Timer) *Route {
	return &Route{radio: radio, timer: timer}
}

func (r *Route) Connect() error {
	r.radio.OnAddressMatch(r.timer.Capture)
	r.connected = true
	return nil
}

func (r *Route) Connected() bool { return r.connected }

// Board bundles the simulated peripherals.
type Board struct {
	Radio *Radio
	Timer *Timer
	Route *Route
}

func NewBoard() *Board {
	radio := NewRadio()
	timer := NewTimer()
	return &Board{
		Radio: radio,
		Timer: timer,
		Route: NewRoute(radio, timer),
	}
}

// Advance moves simulated time forward.
func (b *Board) Advance(ticks uint64) { b.Timer.Advance(ticks) }

// Air puts one packet on the air at the current simulated time. It reports
// whether the radio queued it.
func (b *Board) Air(addr proto.Address, data []byte, rssi int8) bool {
	return b.Radio.Air(addr, data, rssi)
}
