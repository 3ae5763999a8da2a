package sniffer

// State is the session state of a Sniffer.
type State uint8

const (
	StateUninitialized State = iota
	StateIdle
	StateReceiving
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateReceiving:
		return "receiving"
	default:
		return "unknown"
	}
}
