package protocol

import "errors"

var (
	// ErrInitialization is returned when the transceiver (or timer) fails to initialise.
	ErrInitialization = errors.New("sniffer initialisation failed")
	// ErrConfiguration is returned when a configuration step fails. Earlier steps stay applied.
	ErrConfiguration = errors.New("sniffer configuration failed")
	// ErrPayloadUnavailable is reported by a transceiver whose RX FIFO is empty.
	ErrPayloadUnavailable = errors.New("no rx payload available")

	ErrInvalidChannel  = errors.New("invalid channel (valid range: 0-125)")
	ErrInvalidAddress  = errors.New("invalid pipe address")
	ErrInvalidPayload  = errors.New("invalid payload size")
	ErrInvalidState    = errors.New("operation not allowed in current session state")
	ErrNotInitialized  = errors.New("sniffer not initialised")
	ErrTimeout         = errors.New("operation timed out")
	ErrInvalidInterval = errors.New("reload interval must be non-zero")
)
