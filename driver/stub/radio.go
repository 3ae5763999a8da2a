//go:build !tinygo && !baremetal

package stub

import (
	"fmt"
	"sync"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// Step names a transceiver operation, for call logs and fault injection.
type Step string

const (
	StepInit        Step = "init"
	StepDisable     Step = "disable"
	StepSetChannel  Step = "set_channel"
	StepSetBase0    Step = "set_base_address_0"
	StepSetBase1    Step = "set_base_address_1"
	StepSetPrefixes Step = "set_prefixes"
	StepStartRx     Step = "start_rx"
	StepStopRx      Step = "stop_rx"
)

// Radio implements a mock link-layer transceiver for host-side testing.
// Packets enter through Air, which performs pipe address matching, pulses the
// address-match output, queues the payload and raises LinkRxReceived.
type Radio struct {
	mu          sync.Mutex
	cfg         proto.RadioConfig
	notify      func(proto.LinkEventType)
	initialized bool
	listening   bool
	channel     uint8
	base0       [proto.BaseAddressLength]byte
	base1       [proto.BaseAddressLength]byte
	prefixes    []byte
	pid         [proto.MaxPipes]uint8
	fifo        rxFIFO
	dropped     int

	addressMatch func()
	failures     map[Step]error
	calls        []Step
}

func NewRadio() *Radio {
	return &Radio{
		channel:  proto.DefaultChannel,
		base0:    proto.DefaultBaseAddress0,
		base1:    proto.DefaultBaseAddress1,
		prefixes: append([]byte(nil), proto.DefaultPrefixes[:]...),
		failures: make(map[Step]error),
	}
}

// FailOn makes every subsequent call of step return err. A nil err clears it.
func (r *Radio) FailOn(step Step, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, step)
		return
	}
	r.failures[step] = err
}

// Calls returns the sequence of operations invoked so far.
func (r *Radio) Calls() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.calls...)
}

// ResetCalls clears the call log.
func (r *Radio) ResetCalls() {
	r.mu.Lock()
	r.calls = r.calls[:0]
	r.mu.Unlock()
}

// enter records the call and returns the injected failure, if any. Caller holds mu.
func (r *Radio) enter(step Step) error {
	r.calls = append(r.calls, step)
	return r.failures[step]
}

func (r *Radio) Init(cfg proto.RadioConfig, notify func(proto.LinkEventType)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepInit); err != nil {
		return err
	}
	if cfg.Mode != proto.ModePRX {
		return fmt.Errorf("stub radio only supports PRX mode")
	}
	if cfg.PayloadLength > proto.MaxPayloadLength {
		return proto.ErrInvalidPayload
	}
	r.cfg = cfg
	r.notify = notify
	r.initialized = true
	r.listening = false
	r.fifo.flush()
	return nil
}

func (r *Radio) Disable() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepDisable); err != nil {
		return err
	}
	r.initialized = false
	r.listening = false
	r.fifo.flush()
	return nil
}

func (r *Radio) SetChannel(ch uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepSetChannel); err != nil {
		return err
	}
	if err := proto.ValidateChannel(ch); err != nil {
		return err
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	r.channel = ch
	return nil
}

func (r *Radio) SetBaseAddress0(base [proto.BaseAddressLength]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepSetBase0); err != nil {
		return err
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	r.base0 = base
	return nil
}

func (r *Radio) SetBaseAddress1(base [proto.BaseAddressLength]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepSetBase1); err != nil {
		return err
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	r.base1 = base
	return nil
}

func (r *Radio) SetPrefixes(prefixes []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepSetPrefixes); err != nil {
		return err
	}
	if len(prefixes) == 0 || len(prefixes) > proto.MaxPipes {
		return proto.ErrInvalidAddress
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	r.prefixes = append(r.prefixes[:0], prefixes...)
	return nil
}

func (r *Radio) StartRx() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepStartRx); err != nil {
		return err
	}
	if !r.initialized || r.listening {
		return proto.ErrInvalidState
	}
	r.listening = true
	return nil
}

func (r *Radio) StopRx() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(StepStopRx); err != nil {
		return err
	}
	if !r.listening {
		return proto.ErrInvalidState
	}
	r.listening = false
	return nil
}

func (r *Radio) ReadRxPayload(p *proto.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.fifo.pop(p) {
		return proto.ErrPayloadUnavailable
	}
	return nil
}

// OnAddressMatch connects the radio's address-match event output.
func (r *Radio) OnAddressMatch(fn func()) {
	r.mu.Lock()
	r.addressMatch = fn
	r.mu.Unlock()
}

// Notify raises a bare notification without queueing anything.
func (r *Radio) Notify(evt proto.LinkEventType) {
	r.mu.Lock()
	notify := r.notify
	r.mu.Unlock()
	if notify != nil {
		notify(evt)
	}
}

// Air simulates one packet on the current channel. It reports whether the
// packet was queued. An address match latches the capture even if the FIFO
// turns out to be full.
func (r *Radio) Air(addr proto.Address, data []byte, rssi int8) bool {
	r.mu.Lock()
	pipe, ok := r.matchLocked(addr)
	if !r.listening || !ok {
		r.mu.Unlock()
		return false
	}
	match := r.addressMatch
	r.mu.Unlock()

	if match != nil {
		match()
	}

	r.mu.Lock()
	var p proto.Payload
	p.Set(data)
	p.Pipe = pipe
	p.RSSI = rssi
	p.PID = r.pid[pipe]
	r.pid[pipe] = (r.pid[pipe] + 1) & 0x03
	queued := r.fifo.push(&p)
	if !queued {
		r.dropped++
	}
	notify := r.notify
	r.mu.Unlock()

	if queued && notify != nil {
		notify(proto.LinkRxReceived)
	}
	return queued
}

// matchLocked resolves addr to a pipe: pipe 0 uses base 0, pipes 1-7 base 1.
func (r *Radio) matchLocked(addr proto.Address) (uint8, bool) {
	base := addr.Base()
	for i, prefix := range r.prefixes {
		if prefix != addr.Prefix() {
			continue
		}
		if (i == 0 && base == r.base0) || (i > 0 && base == r.base1) {
			return uint8(i), true
		}
	}
	return 0, false
}

// Listening reports whether the radio is in receive mode.
func (r *Radio) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Channel returns the configured RF channel.
func (r *Radio) Channel() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

// Config returns the last configuration passed to Init.
func (r *Radio) Config() proto.RadioConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Dropped returns the number of matched packets lost to a full FIFO.
func (r *Radio) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
