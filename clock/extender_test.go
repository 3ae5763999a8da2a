package clock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// fakeTimer implements Timer for testing.
type fakeTimer struct {
	reload     uint32
	onOverflow func()
	captured   uint32
	running    bool
	calls      []string

	// onCapture runs inside Captured, before the value is returned.
	onCapture func()
}

func (f *fakeTimer) Configure(reload uint32, onOverflow func()) error {
	f.reload = reload
	f.onOverflow = onOverflow
	f.calls = append(f.calls, "configure")
	return nil
}

func (f *fakeTimer) Stop()  { f.running = false; f.calls = append(f.calls, "stop") }
func (f *fakeTimer) Clear() { f.calls = append(f.calls, "clear") }
func (f *fakeTimer) Start() { f.running = true; f.calls = append(f.calls, "start") }

func (f *fakeTimer) Captured() uint32 {
	if f.onCapture != nil {
		f.onCapture()
	}
	return f.captured
}

func TestExtenderConfigure(t *testing.T) {
	timer := &fakeTimer{}
	ext := NewExtender(timer, 1000)

	require.NoError(t, ext.Configure())
	assert.Equal(t, uint32(1000), timer.reload)
	require.NotNil(t, timer.onOverflow)

	timer.onOverflow()
	assert.Equal(t, uint32(1), ext.Overflows())

	assert.ErrorIs(t, NewExtender(timer, 0).Configure(), proto.ErrInvalidInterval)
}

func TestExtenderStamp(t *testing.T) {
	tests := []struct {
		name      string
		reload    uint32
		overflows int
		captured  uint32
		want      proto.Timestamp
	}{
		{name: "no overflow", reload: 1000, overflows: 0, captured: 57, want: 57},
		{name: "two overflows", reload: 1000, overflows: 2, captured: 57, want: 2057},
		{name: "capture at zero", reload: 1000, overflows: 5, captured: 0, want: 5000},
		{name: "default reload", reload: proto.DefaultReloadInterval, overflows: 3600, captured: 999_999, want: 3_600_999_999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := &fakeTimer{captured: tt.captured}
			ext := NewExtender(timer, tt.reload)
			for i := 0; i < tt.overflows; i++ {
				ext.Overflow()
			}
			assert.Equal(t, tt.want, ext.Stamp())
		})
	}
}

func TestExtenderStampIsLinearInOverflows(t *testing.T) {
	timer := &fakeTimer{captured: 123}
	ext := NewExtender(timer, 4096)

	prev := ext.Stamp()
	for n := 1; n <= 1000; n++ {
		ext.Overflow()
		got := ext.Stamp()
		assert.Equal(t, proto.Timestamp(4096), got-prev)
		assert.Equal(t, proto.Compose(uint32(n), 4096, 123), got)
		prev = got
	}
}

func TestExtenderReset(t *testing.T) {
	timer := &fakeTimer{captured: 42}
	ext := NewExtender(timer, 1000)
	ext.Overflow()
	ext.Overflow()

	ext.Reset()

	assert.Equal(t, []string{"stop", "clear", "start"}, timer.calls)
	assert.True(t, timer.running)
	assert.Zero(t, ext.Overflows())
	assert.Equal(t, proto.Timestamp(42), ext.Stamp(), "first capture after reset is the raw value")
}

func TestExtenderStampRereadsOnConcurrentOverflow(t *testing.T) {
	timer := &fakeTimer{captured: 10}
	ext := NewExtender(timer, 1000)

	// An overflow lands between reading the count and the capture register,
	// and the hardware has cleared and recaptured in the new epoch.
	fired := false
	timer.onCapture = func() {
		if !fired {
			fired = true
			ext.Overflow()
			timer.captured = 3
		}
	}

	assert.Equal(t, proto.Timestamp(1003), ext.Stamp())
}

func TestExtenderConcurrentOverflowAndStamp(t *testing.T) {
	timer := &fakeTimer{captured: 1}
	ext := NewExtender(timer, 100)

	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			ext.Overflow()
		}
	}()

	var last proto.Timestamp
	for i := 0; i < n; i++ {
		got := ext.Stamp()
		assert.GreaterOrEqual(t, got, last, "timestamps never go backwards")
		last = got
	}
	wg.Wait()

	assert.Equal(t, uint32(n), ext.Overflows())
	assert.Equal(t, proto.Timestamp(n*100+1), ext.Stamp())
}
