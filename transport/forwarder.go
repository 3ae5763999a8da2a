// Package transport carries sniffer events from the device to the host over a
// byte stream such as a UART, using the protocol frame encoding.
package transport

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// DefaultQueueSize is the number of encoded frames buffered between the
// receive path and the writer.
const DefaultQueueSize = 16

// Forwarder encodes sniffer events into frames and writes them to w.
// Handle is the event handler: it copies the event, queues it and returns
// without blocking. Frames that do not fit in the queue are dropped and
// counted; the host sees the gap in sequence numbers.
type Forwarder struct {
	w      io.Writer
	queue  chan []byte
	seq    uint32
	log    logrus.FieldLogger
	sent   atomic.Uint64
	drops  atomic.Uint64
	errors atomic.Uint64
}

func NewForwarder(w io.Writer, queueSize int, logger logrus.FieldLogger) *Forwarder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Forwarder{
		w:     w,
		queue: make(chan []byte, queueSize),
		log:   logger.WithField("component", "forwarder"),
	}
}

// Handle satisfies proto.EventHandler.
func (f *Forwarder) Handle(e *proto.Event) {
	f.seq++
	frame := proto.EncodeFrame(proto.FrameFromEvent(e, f.seq))
	select {
	case f.queue <- frame:
	default:
		f.drops.Add(1)
	}
}

// Run writes queued frames until ctx is done. Write errors are logged and
// the frame is discarded.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-f.queue:
			if _, err := f.w.Write(frame); err != nil {
				f.errors.Add(1)
				f.log.WithError(err).Warn("frame write failed")
				continue
			}
			f.sent.Add(1)
		}
	}
}

// Flush writes whatever is queued right now and returns.
func (f *Forwarder) Flush() error {
	for {
		select {
		case frame := <-f.queue:
			if _, err := f.w.Write(frame); err != nil {
				f.errors.Add(1)
				return err
			}
			f.sent.Add(1)
		default:
			return nil
		}
	}
}

// Sent returns the number of frames written.
func (f *Forwarder) Sent() uint64 { return f.sent.Load() }

// Dropped returns the number of frames lost to a full queue.
func (f *Forwarder) Dropped() uint64 { return f.drops.Load() }
