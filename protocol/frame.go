package protocol

import (
	"encoding/binary"
	"hash/crc32"
)

// Frame carries one sniffer event over the UART link to the host.
// Layout: Length(1) | Type(1) | Seq(4) | Timestamp(8) | Pipe(1) | RSSI(1) | PID(1) | Payload(0-32) | CRC32(4) | Terminal(1)
// Length counts everything AFTER the length byte (so full Frame minus 1).
// The CRC covers every byte between the length field and the CRC itself.
type Frame struct {
	Length    byte
	Type      EventType
	Seq       uint32
	Timestamp Timestamp
	Pipe      uint8
	RSSI      int8
	PID       uint8
	Payload   []byte
	CRC       uint32 // decoded Frames only; ignored by encoder
}

// FrameFromEvent copies an event into a Frame so it outlives the handler call.
func FrameFromEvent(e *Event, seq uint32) *Frame {
	f := &Frame{
		Type:      e.Type,
		Seq:       seq,
		Timestamp: e.Timestamp,
	}
	if e.Payload != nil {
		f.Pipe = e.Payload.Pipe
		f.RSSI = e.Payload.RSSI
		f.PID = e.Payload.PID
		f.Payload = append([]byte(nil), e.Payload.Bytes()...)
	}
	return f
}

// EncodeFrame serialises f. Payloads longer than MaxPayloadLength are truncated.
func EncodeFrame(f *Frame) []byte {
	if f == nil {
		return make([]byte, 0)
	}
	return AppendFrame(make([]byte, 0, MaxFrameSize), f)
}

// AppendFrame appends the encoding of f to dst.
func AppendFrame(dst []byte, f *Frame) []byte {
	payloadLen := len(f.Payload)
	if payloadLen > MaxPayloadLength {
		payloadLen = MaxPayloadLength
	}

	bodyLen := headerWithoutLen + payloadLen + CRCSize + TerminalSize // bytes AFTER Length field
	start := len(dst)
	dst = append(dst, make([]byte, LengthFieldSize+bodyLen)...)
	data := dst[start:]

	data[0] = byte(bodyLen)
	data[1] = byte(f.Type)
	binary.LittleEndian.PutUint32(data[2:6], f.Seq)
	binary.LittleEndian.PutUint64(data[6:14], uint64(f.Timestamp))
	data[14] = f.Pipe
	data[15] = byte(f.RSSI)
	data[16] = f.PID
	copy(data[FrameHeaderSize:], f.Payload[:payloadLen])

	crcPos := FrameHeaderSize + payloadLen
	binary.LittleEndian.PutUint32(data[crcPos:crcPos+CRCSize], crc32.ChecksumIEEE(data[LengthFieldSize:crcPos]))

	// Terminal byte
	data[len(data)-1] = FrameTerminal

	f.Length = byte(bodyLen)
	return dst
}

// FrameSize returns the total encoded size announced by a length byte, or 0
// when the length byte cannot start a valid frame.
func FrameSize(lengthByte byte) int {
	bodyLen := int(lengthByte)
	if bodyLen < headerWithoutLen+CRCSize+TerminalSize || bodyLen > MaxFrameSize-LengthFieldSize {
		return 0
	}
	return LengthFieldSize + bodyLen
}

// DecodeFrame parses one frame from the start of data. It returns nil if the
// data is short, the terminal byte is wrong or the CRC does not match.
func DecodeFrame(data []byte) *Frame {
	if len(data) < LengthFieldSize {
		return nil
	}
	total := FrameSize(data[0])
	if total == 0 || total > len(data) {
		return nil
	}

	// Validate Terminal
	if data[total-1] != FrameTerminal {
		return nil
	}

	payloadLen := total - FrameHeaderSize - CRCSize - TerminalSize
	crcOffset := FrameHeaderSize + payloadLen

	recvCRC := binary.LittleEndian.Uint32(data[crcOffset : crcOffset+CRCSize])
	if recvCRC != crc32.ChecksumIEEE(data[LengthFieldSize:crcOffset]) {
		return nil
	}

	f := &Frame{
		Length:    data[0],
		Type:      EventType(data[1]),
		Seq:       binary.LittleEndian.Uint32(data[2:6]),
		Timestamp: Timestamp(binary.LittleEndian.Uint64(data[6:14])),
		Pipe:      data[14],
		RSSI:      int8(data[15]),
		PID:       data[16],
		CRC:       recvCRC,
		Payload:   make([]byte, payloadLen),
	}
	copy(f.Payload, data[FrameHeaderSize:crcOffset])
	return f
}
