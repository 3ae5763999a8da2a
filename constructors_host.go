//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package nrfsniff

import (
	"github.com/ystepanoff/nrfsniff/driver/stub"
	"github.com/ystepanoff/nrfsniff/sniffer"
)

// New returns a Sniffer bound to simulated peripherals.
func New() *sniffer.Sniffer {
	s, _ := NewSimulated()
	return s
}

// NewSimulated returns a Sniffer together with the simulated board driving it,
// so callers can inject traffic and advance time.
func NewSimulated() (*sniffer.Sniffer, *stub.Board) {
	b := stub.NewBoard()
	return sniffer.New(sniffer.Hardware{Radio: b.Radio, Timer: b.Timer, Route: b.Route}), b
}
