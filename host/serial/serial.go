package serial

import (
	"fmt"

	"go.bug.st/serial"
)

// Open opens the sniffer's UART at path.
func Open(path string, opts PortOptions) (serial.Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Drop anything buffered before we started listening; the reader
	// resyncs anyway but this avoids a burst of skipped bytes.
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset %s: %w", path, err)
	}
	return port, nil
}

// Ports lists the serial ports present on this machine.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
