//go:build tinygo || baremetal

package nrf

import (
	"device/nrf"
	"unsafe"
)

// DefaultPPIChannel is a channel not claimed by TinyGo's runtime.
const DefaultPPIChannel = 10

// Route is a PPI channel from RADIO.EVENTS_ADDRESS to TIMER1.TASKS_CAPTURE[1].
type Route struct {
	channel   uint8
	connected bool
}

func NewRoute(channel uint8) *Route { return &Route{channel: channel} }

func (r *Route) Connect() error {
	nrf.PPI.CH[r.channel].EEP.Set(uint32(uintptr(unsafe.Pointer(&nrf.RADIO.EVENTS_ADDRESS))))
	nrf.PPI.CH[r.channel].TEP.Set(uint32(uintptr(unsafe.Pointer(&nrf.TIMER1.TASKS_CAPTURE[compareCapture]))))
	nrf.PPI.CHENSET.Set(1 << r.channel)
	r.connected = true
	return nil
}

func (r *Route) Connected() bool { return r.connected }
