package protocol

import (
	"strconv"
	"time"
)

// Timestamp is an extended tick count: overflow count times reload interval
// plus the low-order value latched by the capture register.
type Timestamp uint64

// Compose builds a Timestamp from its parts.
func Compose(overflows, reload, captured uint32) Timestamp {
	return Timestamp(uint64(overflows)*uint64(reload) + uint64(captured))
}

// Duration converts the tick count to wall time at TickFrequency.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(uint64(t) * uint64(time.Second/TickFrequency))
}

// EventType identifies what a sniffer Event reports.
type EventType uint8

const (
	EventRxPacketReceived EventType = 0x01
)

func (t EventType) String() string {
	switch t {
	case EventRxPacketReceived:
		return "rx_packet_received"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Event is delivered to the registered EventHandler. It is built fresh for
// every packet and must not be retained after the handler returns.
type Event struct {
	Type      EventType
	Timestamp Timestamp
	Payload   *Payload
}

// EventHandler consumes sniffer events. It runs on the receive path and must
// not block.
type EventHandler func(*Event)

// LinkEventType is a notification raised by the transceiver driver.
type LinkEventType uint8

const (
	LinkTxSuccess LinkEventType = iota + 1
	LinkTxFailed
	LinkRxReceived
)

func (t LinkEventType) String() string {
	switch t {
	case LinkTxSuccess:
		return "tx_success"
	case LinkTxFailed:
		return "tx_failed"
	case LinkRxReceived:
		return "rx_received"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}
