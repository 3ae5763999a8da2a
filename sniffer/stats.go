package sniffer

import "sync/atomic"

// Stats is a snapshot of the sniffer's counters.
type Stats struct {
	Delivered          uint64 // events passed to the handler
	Unhandled          uint64 // events dropped for lack of a handler
	PayloadUnavailable uint64 // RX notifications with nothing to pop
	MailboxDrops       uint64 // notifications lost to a full mailbox
	TxSuccess          uint64
	TxFailed           uint64
	Sessions           uint64 // successful StartReceiving calls
	Overflows          uint32 // timer overflows in the current epoch
}

type counters struct {
	delivered          atomic.Uint64
	unhandled          atomic.Uint64
	payloadUnavailable atomic.Uint64
	mailboxDrops       atomic.Uint64
	txSuccess          atomic.Uint64
	txFailed           atomic.Uint64
	sessions           atomic.Uint64
}

// Stats returns the current counters.
func (s *Sniffer) Stats() Stats {
	st := Stats{
		Delivered:          s.stats.delivered.Load(),
		Unhandled:          s.stats.unhandled.Load(),
		PayloadUnavailable: s.stats.payloadUnavailable.Load(),
		MailboxDrops:       s.stats.mailboxDrops.Load(),
		TxSuccess:          s.stats.txSuccess.Load(),
		TxFailed:           s.stats.txFailed.Load(),
		Sessions:           s.stats.sessions.Load(),
	}
	s.mu.Lock()
	if s.clock != nil {
		st.Overflows = s.clock.Overflows()
	}
	s.mu.Unlock()
	return st
}
