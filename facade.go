// Package nrfsniff provides a façade to the timestamping sniffer core.
package nrfsniff

import (
	proto "github.com/ystepanoff/nrfsniff/protocol"
	"github.com/ystepanoff/nrfsniff/sniffer"
)

// The constructors are split into build-tag specific files:
// - constructors_nrf.go - for embedded platforms (//go:build tinygo || baremetal)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

// Re-export types for convenience
type (
	Sniffer      = sniffer.Sniffer
	Config       = sniffer.Config
	Parameters   = sniffer.Parameters
	State        = sniffer.State
	Stats        = sniffer.Stats
	Event        = proto.Event
	EventHandler = proto.EventHandler
	Payload      = proto.Payload
	Timestamp    = proto.Timestamp
	Address      = proto.Address
)

// Error constants exposed in the public API
var (
	ErrInitialization = proto.ErrInitialization
	ErrConfiguration  = proto.ErrConfiguration
	ErrInvalidChannel = proto.ErrInvalidChannel
	ErrInvalidState   = proto.ErrInvalidState
	ErrNotInitialized = proto.ErrNotInitialized
)

// Constants exposed in the public API
const (
	EventRxPacketReceived = proto.EventRxPacketReceived

	StateUninitialized = sniffer.StateUninitialized
	StateIdle          = sniffer.StateIdle
	StateReceiving     = sniffer.StateReceiving

	TickFrequency         = proto.TickFrequency
	DefaultReloadInterval = proto.DefaultReloadInterval
)

// DefaultParameters returns the link parameters applied by Init.
func DefaultParameters() Parameters { return sniffer.DefaultParameters() }
