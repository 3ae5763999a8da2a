package protocol

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncoding(t *testing.T) {
	tests := []struct {
		name     string
		frame    *Frame
		wantSize int
	}{
		{
			name:     "empty payload",
			frame:    &Frame{Type: EventRxPacketReceived, Seq: 42, Timestamp: 2057, Payload: []byte{}},
			wantSize: FrameHeaderSize + CRCSize + TerminalSize,
		},
		{
			name:     "small payload",
			frame:    &Frame{Type: EventRxPacketReceived, Seq: 123, Timestamp: 1 << 40, Pipe: 3, RSSI: -61, Payload: []byte{1, 2, 3, 4, 5}},
			wantSize: FrameHeaderSize + 5 + CRCSize + TerminalSize,
		},
		{
			name:     "maximum payload",
			frame:    &Frame{Type: EventRxPacketReceived, Seq: 255, Payload: bytes.Repeat([]byte{0xAA}, MaxPayloadLength)},
			wantSize: MaxFrameSize,
		},
		{
			name:     "too large payload gets truncated",
			frame:    &Frame{Type: EventRxPacketReceived, Seq: 255, Payload: bytes.Repeat([]byte{0xAA}, MaxPayloadLength+50)},
			wantSize: MaxFrameSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeFrame(tt.frame)

			require.Len(t, encoded, tt.wantSize)
			assert.Equal(t, byte(len(encoded)-1), encoded[0], "length byte counts everything after itself")
			assert.Equal(t, byte(tt.frame.Type), encoded[1])
			assert.Equal(t, tt.frame.Seq, binary.LittleEndian.Uint32(encoded[2:6]))
			assert.Equal(t, uint64(tt.frame.Timestamp), binary.LittleEndian.Uint64(encoded[6:14]))
			assert.Equal(t, byte(FrameTerminal), encoded[len(encoded)-1])

			crcPos := len(encoded) - CRCSize - TerminalSize
			gotCRC := binary.LittleEndian.Uint32(encoded[crcPos : crcPos+CRCSize])
			assert.Equal(t, crc32.ChecksumIEEE(encoded[LengthFieldSize:crcPos]), gotCRC)
		})
	}
}

func TestFrameDecoding(t *testing.T) {
	original := &Frame{
		Type:      EventRxPacketReceived,
		Seq:       7,
		Timestamp: 3_000_057,
		Pipe:      1,
		RSSI:      -48,
		PID:       2,
		Payload:   []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	encoded := EncodeFrame(original)

	decoded := DecodeFrame(encoded)
	require.NotNil(t, decoded)
	if diff := cmp.Diff(original, decoded, cmpopts.IgnoreFields(Frame{}, "CRC")); diff != "" {
		t.Errorf("DecodeFrame() mismatch (-want +got):\n%s", diff)
	}
	assert.NotZero(t, decoded.CRC)

	t.Run("trailing bytes are ignored", func(t *testing.T) {
		withTail := append(append([]byte(nil), encoded...), 0x01, 0x02)
		assert.NotNil(t, DecodeFrame(withTail))
	})
}

func TestFrameDecodingRejectsCorruption(t *testing.T) {
	valid := EncodeFrame(&Frame{Type: EventRxPacketReceived, Seq: 1, Timestamp: 10, Payload: []byte{1, 2, 3}})

	corrupt := func(mutate func([]byte) []byte) []byte {
		return mutate(append([]byte(nil), valid...))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "truncated", data: valid[:len(valid)-2]},
		{name: "length too small", data: corrupt(func(b []byte) []byte { b[0] = 3; return b })},
		{name: "length too large", data: corrupt(func(b []byte) []byte { b[0] = 0xFF; return b })},
		{name: "bad terminal", data: corrupt(func(b []byte) []byte { b[len(b)-1] = 0x00; return b })},
		{name: "flipped timestamp bit", data: corrupt(func(b []byte) []byte { b[7] ^= 0x10; return b })},
		{name: "flipped payload bit", data: corrupt(func(b []byte) []byte { b[FrameHeaderSize] ^= 0x01; return b })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, DecodeFrame(tt.data))
		})
	}
}

func TestFrameFromEventCopiesPayload(t *testing.T) {
	var p Payload
	p.Set([]byte{9, 8, 7})
	p.Pipe = 4
	p.RSSI = -70

	f := FrameFromEvent(&Event{Type: EventRxPacketReceived, Timestamp: 99, Payload: &p}, 5)
	p.Set([]byte{0, 0, 0})

	assert.Equal(t, []byte{9, 8, 7}, f.Payload)
	assert.Equal(t, uint8(4), f.Pipe)
	assert.Equal(t, int8(-70), f.RSSI)
	assert.Equal(t, uint32(5), f.Seq)
	assert.Equal(t, Timestamp(99), f.Timestamp)
}
