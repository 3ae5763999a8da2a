package protocol

// Generic radio, timer & framing constants (platform independent). All higher layers should depend on this file.
const (
	// Timestamp timer: 16 MHz HFCLK with prescaler 4 gives one tick per microsecond.
	TimerPrescaler = 4
	TickFrequency  = 16000000 >> TimerPrescaler

	// DefaultReloadInterval is both the timer's compare/clear threshold and the
	// multiplier applied to the overflow count. The two must never diverge.
	DefaultReloadInterval = 1000000

	// Link layer
	MaxPayloadLength     = 32 // ESB payload limit
	DefaultPayloadLength = 8
	MaxChannel           = 125
	DefaultChannel       = 2
	AddressLength        = 5 // prefix (1) + base (4)
	BaseAddressLength    = AddressLength - 1
	MaxPipes             = 8
	RxFIFOSize           = 3

	// Forced link-layer settings for a listening sniffer
	RetransmitDelay   = 250 // microseconds
	RetransmitCount   = 1
	RadioIRQPriority  = 1
	EventIRQPriority  = 2
	TimerIRQPriority  = 2
	DefaultMailboxLen = RxFIFOSize // one slot per packet the radio can hold

	// UART event frame sizing
	// Layout:
	//   Length (1) | Type (1) | Seq (4) | Timestamp (8) | Pipe (1) | RSSI (1) | PID (1) | Payload (0-32) | CRC32 (4) | Terminal (1)
	// Length counts everything after the length byte, i.e., total Frame size minus 1.
	LengthFieldSize    = 1
	TypeFieldSize      = 1
	SequenceFieldSize  = 4
	TimestampFieldSize = 8
	MetaFieldSize      = 3 // pipe, rssi, pid
	CRCSize            = 4 // CRC32, little-endian
	TerminalSize       = 1

	FrameHeaderSize = LengthFieldSize + TypeFieldSize + SequenceFieldSize + TimestampFieldSize + MetaFieldSize // 18 bytes
	MaxFrameSize    = FrameHeaderSize + MaxPayloadLength + CRCSize + TerminalSize

	// internal helper (bytes in header after length byte)
	headerWithoutLen = FrameHeaderSize - LengthFieldSize

	// Terminal byte value appended to the end of every Frame
	FrameTerminal = 0x55
)

// Default pipe addressing applied at initialisation.
var (
	DefaultBaseAddress0 = [BaseAddressLength]byte{0xE7, 0xE7, 0xE7, 0xE7}
	DefaultBaseAddress1 = [BaseAddressLength]byte{0xC2, 0xC2, 0xC2, 0xC2}
	DefaultPrefixes     = [MaxPipes]byte{0xE7, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7, 0xC8}
)
