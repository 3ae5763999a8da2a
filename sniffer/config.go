package sniffer

import (
	"github.com/sirupsen/logrus"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Config is passed to Init.
type Config struct {
	// EventHandler receives every timestamped packet. It is set once and
	// must not block or keep the payload after returning. May be nil.
	EventHandler proto.EventHandler
	// ReloadInterval is the timer reload threshold in ticks. Zero selects
	// proto.DefaultReloadInterval.
	ReloadInterval uint32
	// MailboxSize bounds the notifications queued for Run. Values below
	// proto.RxFIFOSize are raised to it, so every packet the radio holds
	// keeps its notification.
	MailboxSize int
	Logger      logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.ReloadInterval == 0 {
		c.ReloadInterval = proto.DefaultReloadInterval
	}
	if c.MailboxSize < proto.RxFIFOSize {
		c.MailboxSize = proto.DefaultMailboxLen
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Parameters are the link-layer settings applied by Configure.
type Parameters struct {
	Channel uint8
	// Address selects pipe 0: Address[0] is the prefix, the rest the base.
	Address proto.Address
	// Radio carries protocol, bitrate and payload length. Role, auto-ack,
	// retransmit and interrupt priority fields are overridden.
	Radio proto.RadioConfig
}

// DefaultParameters matches the link setup applied by Init on pipe 0.
func DefaultParameters() Parameters {
	var addr proto.Address
	addr[0] = proto.DefaultPrefixes[0]
	copy(addr[1:], proto.DefaultBaseAddress0[:])
	return Parameters{
		Channel: proto.DefaultChannel,
		Address: addr,
		Radio:   proto.DefaultRadioConfig(),
	}
}

// listeningConfig forces the settings every sniffing session needs.
func listeningConfig(cfg proto.RadioConfig) proto.RadioConfig {
	cfg.Mode = proto.ModePRX
	cfg.SelectiveAutoAck = false
	cfg.RadioIRQPriority = proto.RadioIRQPriority
	cfg.EventIRQPriority = proto.EventIRQPriority
	cfg.RetransmitDelay = proto.RetransmitDelay
	cfg.RetransmitCount = proto.RetransmitCount
	return cfg
}
