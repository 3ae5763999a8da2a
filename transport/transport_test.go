package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("uart gone") }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func event(ts proto.Timestamp, data ...byte) *proto.Event {
	p := &proto.Payload{Pipe: 1, RSSI: -50}
	p.Set(data)
	return &proto.Event{Type: proto.EventRxPacketReceived, Timestamp: ts, Payload: p}
}

func TestForwarderToReader(t *testing.T) {
	var buf syncBuffer
	fw := NewForwarder(&buf, 8, quietLogger())

	fw.Handle(event(100, 1, 2, 3))
	fw.Handle(event(2057, 4))
	fw.Handle(event(1_000_000_000, 5, 6))
	require.NoError(t, fw.Flush())
	assert.Equal(t, uint64(3), fw.Sent())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	var got []proto.Timestamp
	var seqs []uint32
	for {
		f, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, f.Timestamp)
		seqs = append(seqs, f.Seq)
	}
	assert.Equal(t, []proto.Timestamp{100, 2057, 1_000_000_000}, got)
	assert.Equal(t, []uint32{1, 2, 3}, seqs)
	assert.Zero(t, r.Skipped)
	assert.Zero(t, r.Lost)
}

func TestForwarderDropsWhenQueueFull(t *testing.T) {
	var buf syncBuffer
	fw := NewForwarder(&buf, 2, quietLogger())

	for i := 0; i < 5; i++ {
		fw.Handle(event(proto.Timestamp(i), byte(i)))
	}
	assert.Equal(t, uint64(3), fw.Dropped())
	require.NoError(t, fw.Flush())

	// Sequence numbers keep counting so the host can see the gap.
	fw.Handle(event(99, 9))
	require.NoError(t, fw.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	var seqs []uint32
	for {
		f, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		seqs = append(seqs, f.Seq)
	}
	assert.Equal(t, []uint32{1, 2, 6}, seqs)
	assert.Equal(t, uint64(3), r.Lost)
}

func TestForwarderRun(t *testing.T) {
	var buf syncBuffer
	fw := NewForwarder(&buf, 0, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	fw.Handle(event(1, 1))
	require.Eventually(t, func() bool { return fw.Sent() == 1 }, 2*time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.NotNil(t, proto.DecodeFrame(buf.Bytes()))
}

func TestForwarderWriteError(t *testing.T) {
	fw := NewForwarder(failingWriter{}, 4, quietLogger())
	fw.Handle(event(1, 1))
	assert.Error(t, fw.Flush())
	assert.Zero(t, fw.Sent())
}

func TestReaderResyncsAfterGarbage(t *testing.T) {
	a := proto.EncodeFrame(&proto.Frame{Type: proto.EventRxPacketReceived, Seq: 1, Timestamp: 10, Payload: []byte{1}})
	b := proto.EncodeFrame(&proto.Frame{Type: proto.EventRxPacketReceived, Seq: 2, Timestamp: 20, Payload: []byte{2}})

	corrupted := append([]byte(nil), a...)
	corrupted[len(corrupted)-3] ^= 0xFF // break the CRC

	var stream []byte
	stream = append(stream, 0x00, 0xFF, 0x30) // noise
	stream = append(stream, corrupted...)
	stream = append(stream, b...)
	stream = append(stream, a[:5]...) // truncated tail

	r := NewReader(bytes.NewReader(stream))
	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, proto.Timestamp(20), f.Timestamp)
	assert.Positive(t, r.Skipped)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}
