//go:build tinygo || baremetal

// This file is built only for embedded targets (using real radio hardware).
package nrfsniff

import (
	"github.com/ystepanoff/nrfsniff/driver/nrf"
	"github.com/ystepanoff/nrfsniff/sniffer"
)

// New returns a Sniffer bound to the on-chip radio, TIMER1 and a PPI channel.
func New() *sniffer.Sniffer {
	radio := nrf.NewRadio()
	timer := nrf.NewTimer()
	return sniffer.New(sniffer.Hardware{
		Radio: radio,
		Timer: timer,
		Route: nrf.NewRoute(nrf.DefaultPPIChannel),
	})
}
