// Package sniffer timestamps packets received by a listening link-layer
// transceiver and delivers them to a single registered handler.
//
// The timestamp comes from a free-running timer extended in software (see
// package clock). The timer's low-order value is latched by hardware at the
// instant the radio matches an address, so interrupt latency does not skew it.
package sniffer

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/nrfsniff/clock"
	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Sniffer owns one receive session over a set of peripherals.
type Sniffer struct {
	hw Hardware

	mu        sync.Mutex
	state     State
	linkReady bool
	params    Parameters

	// Set once by Init, read-only afterwards.
	handler proto.EventHandler
	clock   *clock.Extender
	log     logrus.FieldLogger
	mailbox chan proto.LinkEventType

	// rx is reused for every popped packet; only the bridge touches it.
	rx    proto.Payload
	stats counters
}

// New returns an uninitialised Sniffer bound to hw.
func New(hw Hardware) *Sniffer {
	return &Sniffer{
		hw:     hw,
		log:    logrus.StandardLogger(),
		params: DefaultParameters(),
	}
}

// Init wires the timestamp timer and the capture route, registers the event
// handler and brings up the link layer with its default addressing.
func (s *Sniffer) Init(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return fmt.Errorf("%w: init from %s", proto.ErrInvalidState, s.state)
	}

	cfg = cfg.withDefaults()
	s.handler = cfg.EventHandler
	s.log = cfg.Logger.WithField("component", "sniffer")
	s.mailbox = make(chan proto.LinkEventType, cfg.MailboxSize)
	s.clock = clock.NewExtender(s.hw.Timer, cfg.ReloadInterval)

	if err := s.clock.Configure(); err != nil {
		return fmt.Errorf("%w: timer: %w", proto.ErrInitialization, err)
	}
	if !s.hw.Route.Connected() {
		if err := s.hw.Route.Connect(); err != nil {
			return fmt.Errorf("%w: capture route: %w", proto.ErrInitialization, err)
		}
	}
	if err := s.initLinkLocked(); err != nil {
		return err
	}

	s.state = StateIdle
	s.log.WithFields(logrus.Fields{
		"reload_interval": cfg.ReloadInterval,
		"mailbox":         cfg.MailboxSize,
	}).Info("sniffer initialised")
	return nil
}

// initLinkLocked applies the default link-layer setup. Caller holds mu.
func (s *Sniffer) initLinkLocked() error {
	radio := s.hw.Radio
	if err := radio.Init(proto.DefaultRadioConfig(), s.notify); err != nil {
		return fmt.Errorf("%w: link init: %w", proto.ErrInitialization, err)
	}
	if err := radio.SetBaseAddress0(proto.DefaultBaseAddress0); err != nil {
		return fmt.Errorf("%w: base address 0: %w", proto.ErrInitialization, err)
	}
	if err := radio.SetBaseAddress1(proto.DefaultBaseAddress1); err != nil {
		return fmt.Errorf("%w: base address 1: %w", proto.ErrInitialization, err)
	}
	if err := radio.SetPrefixes(proto.DefaultPrefixes[:]); err != nil {
		return fmt.Errorf("%w: prefixes: %w", proto.ErrInitialization, err)
	}
	s.linkReady = true
	return nil
}

// Configure reapplies link-layer parameters. It is only allowed while idle.
// Steps run in order and stop at the first failure; steps already applied
// are not rolled back. The capture route is left alone.
func (s *Sniffer) Configure(p Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
		return fmt.Errorf("%w: %w", proto.ErrConfiguration, proto.ErrNotInitialized)
	case StateReceiving:
		return fmt.Errorf("%w: %w: session active", proto.ErrConfiguration, proto.ErrInvalidState)
	}

	radio := s.hw.Radio
	if s.linkReady {
		if err := radio.Disable(); err != nil {
			return fmt.Errorf("%w: disable: %w", proto.ErrConfiguration, err)
		}
		s.linkReady = false
	}
	if err := radio.Init(listeningConfig(p.Radio), s.notify); err != nil {
		return fmt.Errorf("%w: link init: %w", proto.ErrConfiguration, err)
	}
	s.linkReady = true
	if err := radio.SetChannel(p.Channel); err != nil {
		return fmt.Errorf("%w: channel %d: %w", proto.ErrConfiguration, p.Channel, err)
	}
	if err := radio.SetBaseAddress0(p.Address.Base()); err != nil {
		return fmt.Errorf("%w: base address 0: %w", proto.ErrConfiguration, err)
	}
	if err := radio.SetPrefixes([]byte{p.Address.Prefix()}); err != nil {
		return fmt.Errorf("%w: prefix: %w", proto.ErrConfiguration, err)
	}

	s.params = p
	s.log.WithFields(logrus.Fields{
		"channel": p.Channel,
		"address": p.Address.String(),
	}).Info("link layer configured")
	return nil
}

// StartReceiving resets the timestamp epoch and puts the transceiver into
// receive mode.
func (s *Sniffer) StartReceiving() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == StateUninitialized || !s.linkReady:
		return proto.ErrNotInitialized
	case s.state == StateReceiving:
		return fmt.Errorf("%w: already receiving", proto.ErrInvalidState)
	}

	s.clock.Reset()
	if err := s.hw.Radio.StartRx(); err != nil {
		return err
	}
	s.state = StateReceiving
	s.stats.sessions.Add(1)
	s.log.Debug("receiving")
	return nil
}

// StopReceiving takes the transceiver out of receive mode. Timer state is
// kept; only StartReceiving begins a new epoch. An event already being
// processed may still be delivered after StopReceiving returns.
func (s *Sniffer) StopReceiving() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
		return proto.ErrNotInitialized
	case StateIdle:
		return fmt.Errorf("%w: not receiving", proto.ErrInvalidState)
	}

	if err := s.hw.Radio.StopRx(); err != nil {
		return err
	}
	s.state = StateIdle
	s.log.Debug("stopped receiving")
	return nil
}

// State returns the current session state.
func (s *Sniffer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Parameters returns the link-layer parameters last applied by Configure,
// or the defaults if Configure was never called.
func (s *Sniffer) Parameters() Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}
