//go:build tinygo || baremetal

package nrf

import (
	"device/nrf"
	"math/bits"
	"runtime/interrupt"
	"unsafe"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

// ESB on-air framing: 6-bit length, 3-bit S1 (2-bit PID + no-ack flag).
const (
	dplLengthBits = 6
	s1Bits        = 3
	bufferHeader  = 2 // length byte + S1 byte in RAM
)

// activeRadio is the instance served by the RADIO interrupt.
var activeRadio *Radio

// Radio is a receive-only Enhanced ShockBurst style driver. It never sends
// acknowledgements, so it stays invisible to the link it listens on.
type Radio struct {
	cfg       proto.RadioConfig
	notify    func(proto.LinkEventType)
	listening bool

	base0    [proto.BaseAddressLength]byte
	base1    [proto.BaseAddressLength]byte
	prefixes [proto.MaxPipes]byte
	nPipes   int

	buffer [bufferHeader + proto.MaxPayloadLength]byte

	// fifo is written by the interrupt and read with interrupts disabled.
	fifo       [proto.RxFIFOSize]proto.Payload
	head, tail int
	count      int

	irq interrupt.Interrupt
}

func NewRadio() *Radio {
	return &Radio{
		base0:    proto.DefaultBaseAddress0,
		base1:    proto.DefaultBaseAddress1,
		prefixes: proto.DefaultPrefixes,
		nPipes:   proto.MaxPipes,
	}
}

func (r *Radio) Init(cfg proto.RadioConfig, notify func(proto.LinkEventType)) error {
	if cfg.Mode != proto.ModePRX {
		return proto.ErrInvalidState
	}
	if cfg.PayloadLength > proto.MaxPayloadLength {
		return proto.ErrInvalidPayload
	}
	StartHFCLK()
	r.disableRadio()

	mode, ok := radioMode(cfg.Bitrate)
	if !ok {
		return proto.ErrConfiguration
	}
	nrf.RADIO.MODE.Set(mode)

	if cfg.Protocol == proto.ProtocolESBDPL {
		nrf.RADIO.PCNF0.Set((dplLengthBits << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(s1Bits << nrf.RADIO_PCNF0_S1LEN_Pos))
		nrf.RADIO.PCNF1.Set((proto.MaxPayloadLength << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			((proto.BaseAddressLength - 1) << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Big << nrf.RADIO_PCNF1_ENDIAN_Pos))
	} else {
		nrf.RADIO.PCNF0.Set((0 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(1 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(s1Bits << nrf.RADIO_PCNF0_S1LEN_Pos))
		nrf.RADIO.PCNF1.Set((uint32(cfg.PayloadLength) << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(uint32(cfg.PayloadLength) << nrf.RADIO_PCNF1_STATLEN_Pos) |
			((proto.BaseAddressLength - 1) << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Big << nrf.RADIO_PCNF1_ENDIAN_Pos))
	}

	nrf.RADIO.CRCCNF.Set(2)
	nrf.RADIO.CRCINIT.Set(0xFFFF)
	nrf.RADIO.CRCPOLY.Set(0x11021)

	nrf.RADIO.SHORTS.Set(nrf.RADIO_SHORTS_READY_START_Msk |
		nrf.RADIO_SHORTS_END_START_Msk |
		nrf.RADIO_SHORTS_ADDRESS_RSSISTART_Msk |
		nrf.RADIO_SHORTS_DISABLED_RSSISTOP_Msk)
	nrf.RADIO.INTENCLR.Set(0xFFFFFFFF)
	nrf.RADIO.INTENSET.Set(nrf.RADIO_INTENSET_END_Msk)

	r.cfg = cfg
	r.notify = notify
	r.listening = false
	r.flush()
	r.applyAddresses()

	activeRadio = r
	r.irq = interrupt.New(nrf.IRQ_RADIO, func(interrupt.Interrupt) {
		if activeRadio != nil {
			activeRadio.handleEnd()
		}
	})
	r.irq.SetPriority(nvicPriority(cfg.RadioIRQPriority))
	r.irq.Enable()
	return nil
}

func (r *Radio) Disable() error {
	r.disableRadio()
	r.listening = false
	r.flush()
	return nil
}

func (r *Radio) SetChannel(ch uint8) error {
	if err := proto.ValidateChannel(ch); err != nil {
		return err
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	nrf.RADIO.FREQUENCY.Set(uint32(ch))
	return nil
}

func (r *Radio) SetBaseAddress0(base [proto.BaseAddressLength]byte) error {
	if r.listening {
		return proto.ErrInvalidState
	}
	r.base0 = base
	r.applyAddresses()
	return nil
}

func (r *Radio) SetBaseAddress1(base [proto.BaseAddressLength]byte) error {
	if r.listening {
		return proto.ErrInvalidState
	}
	r.base1 = base
	r.applyAddresses()
	return nil
}

func (r *Radio) SetPrefixes(prefixes []byte) error {
	if len(prefixes) == 0 || len(prefixes) > proto.MaxPipes {
		return proto.ErrInvalidAddress
	}
	if r.listening {
		return proto.ErrInvalidState
	}
	copy(r.prefixes[:], prefixes)
	r.nPipes = len(prefixes)
	r.applyAddresses()
	return nil
}

func (r *Radio) StartRx() error {
	if r.listening {
		return proto.ErrInvalidState
	}
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&r.buffer[0]))))
	nrf.RADIO.EVENTS_ADDRESS.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	r.listening = true
	nrf.RADIO.TASKS_RXEN.Set(1)
	return nil
}

func (r *Radio) StopRx() error {
	if !r.listening {
		return proto.ErrInvalidState
	}
	r.disableRadio()
	r.listening = false
	return nil
}

func (r *Radio) ReadRxPayload(p *proto.Payload) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if r.count == 0 {
		return proto.ErrPayloadUnavailable
	}
	*p = r.fifo[r.head]
	r.head = (r.head + 1) % proto.RxFIFOSize
	r.count--
	return nil
}

// handleEnd runs in the RADIO interrupt after each received packet. The
// END_START short has already restarted reception into the same buffer, so
// the packet is copied out first.
func (r *Radio) handleEnd() {
	if nrf.RADIO.EVENTS_END.Get() == 0 {
		return
	}
	nrf.RADIO.EVENTS_END.Set(0)

	if nrf.RADIO.CRCSTATUS.Get() == 0 || r.count == proto.RxFIFOSize {
		return
	}

	p := &r.fifo[r.tail]
	var data []byte
	if r.cfg.Protocol == proto.ProtocolESBDPL {
		n := int(r.buffer[0])
		if n > proto.MaxPayloadLength {
			return
		}
		data = r.buffer[bufferHeader : bufferHeader+n]
	} else {
		data = r.buffer[bufferHeader : bufferHeader+int(r.cfg.PayloadLength)]
	}
	p.Set(data)
	p.PID = r.buffer[1] >> 1
	p.NoAck = r.buffer[1]&0x01 == 0
	p.Pipe = uint8(nrf.RADIO.RXMATCH.Get())
	p.RSSI = -int8(nrf.RADIO.RSSISAMPLE.Get())

	r.tail = (r.tail + 1) % proto.RxFIFOSize
	r.count++

	if r.notify != nil {
		r.notify(proto.LinkRxReceived)
	}
}

func (r *Radio) flush() {
	state := disableInterrupts()
	r.head, r.tail, r.count = 0, 0, 0
	restoreInterrupts(state)
}

func (r *Radio) disableRadio() {
	nrf.RADIO.SHORTS.ClearBits(nrf.RADIO_SHORTS_END_START_Msk)
	nrf.RADIO.EVENTS_DISABLED.Set(0)
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
	nrf.RADIO.SHORTS.SetBits(nrf.RADIO_SHORTS_END_START_Msk)
}

// applyAddresses programs base/prefix registers. ESB transmits addresses
// bit-reversed per byte, big-endian on air.
func (r *Radio) applyAddresses() {
	nrf.RADIO.BASE0.Set(addrWord(r.base0))
	nrf.RADIO.BASE1.Set(addrWord(r.base1))

	var p0, p1 uint32
	for i := 0; i < 4; i++ {
		p0 |= uint32(bits.Reverse8(r.prefixes[i])) << (8 * i)
		p1 |= uint32(bits.Reverse8(r.prefixes[4+i])) << (8 * i)
	}
	nrf.RADIO.PREFIX0.Set(p0)
	nrf.RADIO.PREFIX1.Set(p1)
	nrf.RADIO.RXADDRESSES.Set(uint32(1)<<r.nPipes - 1)
}

func addrWord(b [proto.BaseAddressLength]byte) uint32 {
	return uint32(bits.Reverse8(b[0]))<<24 |
		uint32(bits.Reverse8(b[1]))<<16 |
		uint32(bits.Reverse8(b[2]))<<8 |
		uint32(bits.Reverse8(b[3]))
}

func radioMode(b proto.Bitrate) (uint32, bool) {
	switch b {
	case proto.Bitrate1Mbps:
		return nrf.RADIO_MODE_MODE_Nrf_1Mbit, true
	case proto.Bitrate2Mbps:
		return nrf.RADIO_MODE_MODE_Nrf_2Mbit, true
	}
	return 0, false
}
