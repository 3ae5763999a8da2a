// Package serial opens the UART link to a sniffer dongle.
package serial

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the firmware's UART setup.
const DefaultBaudRate = 1000000

// PortOptions describes the serial connection parameters used when opening a
// real serial port.
type PortOptions struct {
	BaudRate int    `mapstructure:"baud_rate" yaml:"baud_rate"`
	DataBits int    `mapstructure:"data_bits" yaml:"data_bits"`
	StopBits int    `mapstructure:"stop_bits" yaml:"stop_bits"`
	Parity   string `mapstructure:"parity" yaml:"parity"`
}

var parities = map[string]serial.Parity{
	"N": serial.NoParity,
	"E": serial.EvenParity,
	"O": serial.OddParity,
}

var stopBits = map[int]serial.StopBits{
	1: serial.OneStopBit,
	2: serial.TwoStopBits,
}

// Normalize fills unset fields with 8N1 at DefaultBaudRate and rejects
// settings the dongle's UART cannot use. Parity is reduced to N, E or O.
func (o PortOptions) Normalize() (PortOptions, error) {
	if o.BaudRate <= 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.DataBits == 0 {
		o.DataBits = 8
	}
	if o.StopBits == 0 {
		o.StopBits = 1
	}
	if o.DataBits < 5 || o.DataBits > 8 {
		return o, fmt.Errorf("data bits %d out of range 5-8", o.DataBits)
	}
	if _, ok := stopBits[o.StopBits]; !ok {
		return o, fmt.Errorf("stop bits %d not supported", o.StopBits)
	}

	parity := strings.ToUpper(strings.TrimSpace(o.Parity))
	switch parity {
	case "", "NONE":
		parity = "N"
	case "EVEN", "ODD":
		parity = parity[:1]
	}
	if _, ok := parities[parity]; !ok {
		return o, fmt.Errorf("parity %q not supported (N, E or O)", o.Parity)
	}
	o.Parity = parity
	return o, nil
}

// SerialMode returns the go.bug.st/serial mode for the normalised options.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: stopBits[opts.StopBits],
		Parity:   parities[opts.Parity],
	}, nil
}
