package sniffer

import (
	"context"

	"github.com/sirupsen/logrus"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// notify is handed to the transceiver as its event handler. It runs in
// interrupt context, so it only posts to the mailbox and never blocks.
func (s *Sniffer) notify(evt proto.LinkEventType) {
	select {
	case s.mailbox <- evt:
	default:
		s.stats.mailboxDrops.Add(1)
	}
}

// Run drains the notification mailbox into HandleLinkEvent until ctx is done.
// Only one Run may be active per Sniffer.
func (s *Sniffer) Run(ctx context.Context) error {
	s.mu.Lock()
	mailbox := s.mailbox
	s.mu.Unlock()
	if mailbox == nil {
		return proto.ErrNotInitialized
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-mailbox:
			s.HandleLinkEvent(evt)
		}
	}
}

// Poll handles every notification already in the mailbox and returns how
// many it processed. It never blocks, which suits a firmware main loop.
func (s *Sniffer) Poll() int {
	s.mu.Lock()
	mailbox := s.mailbox
	s.mu.Unlock()

	n := 0
	for {
		select {
		case evt := <-mailbox:
			s.HandleLinkEvent(evt)
			n++
		default:
			return n
		}
	}
}

// HandleLinkEvent processes one transceiver notification. For an RX
// notification it pops the pending packet, stamps it with the current
// overflow count and capture register, and calls the event handler
// synchronously. If no packet is pending nothing is delivered.
//
// Calls must not overlap: the popped packet lives in a buffer reused by the
// next call.
func (s *Sniffer) HandleLinkEvent(evt proto.LinkEventType) {
	switch evt {
	case proto.LinkTxSuccess:
		s.stats.txSuccess.Add(1)
		s.log.Debug("tx success event")
	case proto.LinkTxFailed:
		s.stats.txFailed.Add(1)
		s.log.Debug("tx failed event")
	case proto.LinkRxReceived:
		if s.clock == nil {
			s.stats.unhandled.Add(1)
			return
		}
		if err := s.hw.Radio.ReadRxPayload(&s.rx); err != nil {
			s.stats.payloadUnavailable.Add(1)
			return
		}

		event := proto.Event{
			Type:      proto.EventRxPacketReceived,
			Timestamp: s.clock.Stamp(),
			Payload:   &s.rx,
		}
		if debugEnabled(s.log) {
			s.log.WithFields(logrus.Fields{
				"pipe":      s.rx.Pipe,
				"length":    s.rx.Length,
				"timestamp": uint64(event.Timestamp),
			}).Debug("rx received event")
		}

		if s.handler == nil {
			s.stats.unhandled.Add(1)
			return
		}
		s.handler(&event)
		s.stats.delivered.Add(1)
	default:
		s.log.WithField("event", evt).Warn("unknown link event")
	}
}
