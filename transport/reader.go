package transport

import (
	"bufio"
	"errors"
	"io"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Reader decodes a frame stream. Corrupt bytes are skipped one at a time
// until a valid frame lines up again.
type Reader struct {
	r       *bufio.Reader
	lastSeq uint32
	started bool

	// Skipped counts bytes discarded while resynchronising.
	Skipped uint64
	// Lost counts frames missing according to sequence numbers.
	Lost uint64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 4*proto.MaxFrameSize)}
}

// Next returns the next valid frame, or io.EOF once the stream is exhausted.
// A truncated frame at the end of the stream is skipped like corrupt data.
func (r *Reader) Next() (*proto.Frame, error) {
	for {
		head, err := r.r.Peek(proto.LengthFieldSize)
		if err != nil {
			return nil, err
		}
		size := proto.FrameSize(head[0])
		if size == 0 {
			r.skip()
			continue
		}

		data, err := r.r.Peek(size)
		if err != nil {
			if errors.Is(err, io.EOF) && len(data) > 0 {
				r.skip()
				continue
			}
			return nil, err
		}

		frame := proto.DecodeFrame(data)
		if frame == nil {
			r.skip()
			continue
		}
		if _, err := r.r.Discard(size); err != nil {
			return nil, err
		}
		r.track(frame.Seq)
		return frame, nil
	}
}

func (r *Reader) skip() {
	if _, err := r.r.Discard(1); err == nil {
		r.Skipped++
	}
}

func (r *Reader) track(seq uint32) {
	if r.started && seq > r.lastSeq+1 {
		r.Lost += uint64(seq - r.lastSeq - 1)
	}
	r.lastSeq = seq
	r.started = true
}
