//go:build !tinygo && !baremetal

package stub

import proto "github.com/ystepanoff/nrfsniff/protocol"

// rxFIFO mirrors the transceiver's small hardware RX queue: when it is full
// new packets are dropped, not the oldest.
type rxFIFO struct {
	data       [proto.RxFIFOSize]proto.Payload
	head, tail int // head = next pop, tail = next push
	count      int
}

func (f *rxFIFO) push(p *proto.Payload) bool {
	if f.count == proto.RxFIFOSize {
		return false
	}
	f.data[f.tail] = *p
	f.tail = (f.tail + 1) % proto.RxFIFOSize
	f.count++
	return true
}

func (f *rxFIFO) pop(p *proto.Payload) bool {
	if f.count == 0 {
		return false
	}
	*p = f.data[f.head]
	f.data[f.head] = proto.Payload{}
	f.head = (f.head + 1) % proto.RxFIFOSize
	f.count--
	return true
}

func (f *rxFIFO) flush() { *f = rxFIFO{} }
