package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// LinkProtocol selects fixed or dynamic payload length framing.
type LinkProtocol uint8

const (
	ProtocolESB LinkProtocol = iota
	ProtocolESBDPL
)

// Bitrate of the on-air link.
type Bitrate uint8

const (
	Bitrate1Mbps Bitrate = iota
	Bitrate2Mbps
	Bitrate250Kbps
)

// Mode is the transceiver role. The sniffer always listens as PRX.
type Mode uint8

const (
	ModePTX Mode = iota
	ModePRX
)

// RadioConfig carries the link-layer parameters handed to the transceiver driver.
type RadioConfig struct {
	Protocol         LinkProtocol
	Bitrate          Bitrate
	Mode             Mode
	PayloadLength    uint8
	TxPower          int8 // dBm
	SelectiveAutoAck bool
	RetransmitDelay  uint16 // microseconds
	RetransmitCount  uint16
	RadioIRQPriority uint8
	EventIRQPriority uint8
}

// DefaultRadioConfig is the configuration applied by sniffer initialisation.
func DefaultRadioConfig() RadioConfig {
	return RadioConfig{
		Protocol:         ProtocolESBDPL,
		Bitrate:          Bitrate2Mbps,
		Mode:             ModePRX,
		PayloadLength:    DefaultPayloadLength,
		SelectiveAutoAck: false,
		RetransmitDelay:  RetransmitDelay,
		RetransmitCount:  3,
		RadioIRQPriority: RadioIRQPriority,
		EventIRQPriority: EventIRQPriority,
	}
}

// Address is a full pipe address: Address[0] is the prefix, Address[1:] the base.
type Address [AddressLength]byte

// Prefix returns the prefix byte.
func (a Address) Prefix() byte { return a[0] }

// Base returns the four base address bytes.
func (a Address) Base() [BaseAddressLength]byte {
	var b [BaseAddressLength]byte
	copy(b[:], a[1:])
	return b
}

func (a Address) String() string { return strings.ToUpper(hex.EncodeToString(a[:])) }

// ParseAddress parses a 10 hex digit address (prefix first), optionally separated by ':'.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != AddressLength {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, AddressLength, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// ParseBitrate accepts "1mbps", "2mbps" and "250kbps".
func ParseBitrate(s string) (Bitrate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1mbps", "1m":
		return Bitrate1Mbps, nil
	case "2mbps", "2m", "":
		return Bitrate2Mbps, nil
	case "250kbps", "250k":
		return Bitrate250Kbps, nil
	}
	return 0, fmt.Errorf("unsupported bitrate %q", s)
}

// ParseProtocol accepts "esb" and "dpl".
func ParseProtocol(s string) (LinkProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esb":
		return ProtocolESB, nil
	case "dpl", "esb_dpl", "":
		return ProtocolESBDPL, nil
	}
	return 0, fmt.Errorf("unsupported link protocol %q", s)
}

// ValidateChannel checks the RF channel range (2400 + ch MHz).
func ValidateChannel(ch uint8) error {
	if ch > MaxChannel {
		return ErrInvalidChannel
	}
	return nil
}
