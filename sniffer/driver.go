package sniffer

import (
	"github.com/ystepanoff/nrfsniff/clock"
	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Transceiver is the interface that wraps the link-layer driver operations
// the sniffer relies on.
type Transceiver interface {
	// Init (re)initialises the link layer. notify is invoked from interrupt
	// context for every TX success, TX failure and RX notification.
	Init(cfg proto.RadioConfig, notify func(proto.LinkEventType)) error
	Disable() error
	SetChannel(ch uint8) error
	SetBaseAddress0(base [proto.BaseAddressLength]byte) error
	SetBaseAddress1(base [proto.BaseAddressLength]byte) error
	SetPrefixes(prefixes []byte) error
	StartRx() error
	StopRx() error
	// ReadRxPayload pops the oldest received packet into p, or returns
	// proto.ErrPayloadUnavailable.
	ReadRxPayload(p *proto.Payload) error
}

// CaptureRoute is the hardware connection from the radio's address-match
// event to the timer's capture task. Once connected it needs no software.
type CaptureRoute interface {
	Connect() error
	Connected() bool
}

// Hardware groups the peripherals a Sniffer drives.
type Hardware struct {
	Radio Transceiver
	Timer clock.Timer
	Route CaptureRoute
}
