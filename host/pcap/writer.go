// Package pcap exports captured sniffer frames to pcap files.
//
// Each record carries a 4 byte pseudo header (pipe, rssi, pid, length)
// followed by the raw payload, under link type USER0.
package pcap

import (
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

const (
	// LinkTypeUser0 is DLT_USER0, reserved for private encapsulations.
	LinkTypeUser0 layers.LinkType = 147

	PseudoHeaderSize = 4
	snapLen          = PseudoHeaderSize + proto.MaxPayloadLength
)

// Writer appends frames to a pcap stream. Frame timestamps are ticks since
// the session epoch; they are placed on the wall clock relative to epoch.
type Writer struct {
	w     *pcapgo.Writer
	epoch time.Time
	buf   [snapLen]byte
	count int
}

// NewWriter writes the pcap file header to w.
func NewWriter(w io.Writer, epoch time.Time) (*Writer, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(snapLen, LinkTypeUser0); err != nil {
		return nil, err
	}
	return &Writer{w: pw, epoch: epoch}, nil
}

// Record builds the pcap record body for f.
func Record(dst []byte, f *proto.Frame) []byte {
	payload := f.Payload
	if len(payload) > proto.MaxPayloadLength {
		payload = payload[:proto.MaxPayloadLength]
	}
	dst = append(dst[:0], f.Pipe, byte(f.RSSI), f.PID, byte(len(payload)))
	return append(dst, payload...)
}

// WriteFrame appends one record.
func (pw *Writer) WriteFrame(f *proto.Frame) error {
	data := Record(pw.buf[:0], f)
	ci := gopacket.CaptureInfo{
		Timestamp:     pw.epoch.Add(f.Timestamp.Duration()),
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := pw.w.WritePacket(ci, data); err != nil {
		return err
	}
	pw.count++
	return nil
}

// Count returns the number of records written.
func (pw *Writer) Count() int { return pw.count }
