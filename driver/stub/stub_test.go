//go:build !tinygo && !baremetal

package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

func TestTimerAdvance(t *testing.T) {
	timer := NewTimer()
	overflows := 0
	require.NoError(t, timer.Configure(1000, func() { overflows++ }))

	timer.Advance(5000)
	assert.Zero(t, overflows, "stopped timer does not count")

	timer.Start()
	timer.Advance(999)
	assert.Zero(t, overflows)
	assert.Equal(t, uint32(999), timer.Counter())

	timer.Advance(1)
	assert.Equal(t, 1, overflows)
	assert.Zero(t, timer.Counter())

	timer.Advance(3500)
	assert.Equal(t, 4, overflows)
	assert.Equal(t, uint32(500), timer.Counter())

	timer.Capture()
	timer.Advance(10)
	assert.Equal(t, uint32(500), timer.Captured())

	timer.Stop()
	timer.Clear()
	assert.Zero(t, timer.Counter())

	assert.ErrorIs(t, timer.Configure(0, nil), proto.ErrInvalidInterval)
}

func newListeningRadio(t *testing.T) (*Radio, *[]proto.LinkEventType) {
	t.Helper()
	r := NewRadio()
	var events []proto.LinkEventType
	require.NoError(t, r.Init(proto.DefaultRadioConfig(), func(e proto.LinkEventType) { events = append(events, e) }))
	require.NoError(t, r.StartRx())
	return r, &events
}

func TestRadioPipeMatching(t *testing.T) {
	r, events := newListeningRadio(t)

	tests := []struct {
		name     string
		addr     proto.Address
		wantPipe uint8
		wantOK   bool
	}{
		{name: "pipe 0", addr: proto.Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, wantPipe: 0, wantOK: true},
		{name: "pipe 1", addr: proto.Address{0xC2, 0xC2, 0xC2, 0xC2, 0xC2}, wantPipe: 1, wantOK: true},
		{name: "pipe 7", addr: proto.Address{0xC8, 0xC2, 0xC2, 0xC2, 0xC2}, wantPipe: 7, wantOK: true},
		{name: "prefix on wrong base", addr: proto.Address{0xE7, 0xC2, 0xC2, 0xC2, 0xC2}, wantOK: false},
		{name: "unknown", addr: proto.Address{0x01, 0x02, 0x03, 0x04, 0x05}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*events = nil
			ok := r.Air(tt.addr, []byte{0xAB}, -55)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Empty(t, *events)
				return
			}
			assert.Equal(t, []proto.LinkEventType{proto.LinkRxReceived}, *events)

			var p proto.Payload
			require.NoError(t, r.ReadRxPayload(&p))
			assert.Equal(t, tt.wantPipe, p.Pipe)
			assert.Equal(t, int8(-55), p.RSSI)
			assert.Equal(t, []byte{0xAB}, p.Bytes())
		})
	}
}

func TestRadioFIFOFullStillCaptures(t *testing.T) {
	r, events := newListeningRadio(t)
	matches := 0
	r.OnAddressMatch(func() { matches++ })

	addr := proto.Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}
	for i := 0; i < proto.RxFIFOSize; i++ {
		require.True(t, r.Air(addr, []byte{byte(i)}, -40))
	}
	assert.False(t, r.Air(addr, []byte{0xFF}, -40))

	assert.Equal(t, proto.RxFIFOSize+1, matches)
	assert.Len(t, *events, proto.RxFIFOSize)
	assert.Equal(t, 1, r.Dropped())

	var p proto.Payload
	for i := 0; i < proto.RxFIFOSize; i++ {
		require.NoError(t, r.ReadRxPayload(&p))
		assert.Equal(t, []byte{byte(i)}, p.Bytes())
		assert.Equal(t, uint8(i&0x03), p.PID)
	}
	assert.ErrorIs(t, r.ReadRxPayload(&p), proto.ErrPayloadUnavailable)
}

func TestRadioRejectsChangesWhileListening(t *testing.T) {
	r, _ := newListeningRadio(t)

	assert.ErrorIs(t, r.SetChannel(10), proto.ErrInvalidState)
	assert.ErrorIs(t, r.SetPrefixes([]byte{0x01}), proto.ErrInvalidState)
	assert.ErrorIs(t, r.StartRx(), proto.ErrInvalidState)

	require.NoError(t, r.StopRx())
	assert.ErrorIs(t, r.StopRx(), proto.ErrInvalidState)
	assert.NoError(t, r.SetChannel(10))
	assert.ErrorIs(t, r.SetChannel(200), proto.ErrInvalidChannel)
	assert.ErrorIs(t, r.SetPrefixes(nil), proto.ErrInvalidAddress)
}

func TestBoardRouteLatchesTimer(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Timer.Configure(1000, nil))
	require.NoError(t, b.Route.Connect())
	require.NoError(t, b.Radio.Init(proto.DefaultRadioConfig(), nil))
	require.NoError(t, b.Radio.StartRx())
	b.Timer.Start()

	b.Advance(1234)
	require.True(t, b.Radio.Air(proto.Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, nil, -40))
	assert.Equal(t, uint32(234), b.Timer.Captured())
}
