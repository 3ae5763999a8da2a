package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/nrfsniff/host/pcap"
	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// sink logs each frame and optionally appends it to a pcap file.
type sink struct {
	log  logrus.FieldLogger
	file *os.File
	pcap *pcap.Writer
	n    int
}

func newSink(log logrus.FieldLogger, path string, epoch time.Time) (*sink, error) {
	s := &sink{log: log}
	if path == "" {
		return s, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create pcap: %w", err)
	}
	w, err := pcap.NewWriter(f, epoch)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("write pcap header: %w", err)
	}
	s.file, s.pcap = f, w
	log.WithField("path", path).Info("writing pcap")
	return s, nil
}

func (s *sink) write(f *proto.Frame) error {
	s.n++
	s.log.WithFields(logrus.Fields{
		"seq":       f.Seq,
		"timestamp": uint64(f.Timestamp),
		"pipe":      f.Pipe,
		"rssi":      f.RSSI,
		"pid":       f.PID,
		"payload":   fmt.Sprintf("% X", f.Payload),
	}).Info("packet")
	if s.pcap == nil {
		return nil
	}
	return s.pcap.WriteFrame(f)
}

func (s *sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
