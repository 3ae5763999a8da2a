package protocol

// Payload is one packet popped from the transceiver's RX FIFO.
// Storage is owned by whoever popped it and is reused for the next packet,
// so holders of a *Payload must copy Bytes() if they need it later.
type Payload struct {
	Length uint8
	Pipe   uint8
	RSSI   int8 // dBm
	PID    uint8
	NoAck  bool
	Data   [MaxPayloadLength]byte
}

// Bytes returns the valid part of Data.
func (p *Payload) Bytes() []byte {
	n := int(p.Length)
	if n > MaxPayloadLength {
		n = MaxPayloadLength
	}
	return p.Data[:n]
}

// Set copies data into the payload, truncating to MaxPayloadLength.
func (p *Payload) Set(data []byte) {
	n := copy(p.Data[:], data)
	p.Length = uint8(n)
}
