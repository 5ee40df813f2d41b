package database

// State describes where the connection attempt stands.
type State int32

const (
	// StateConnecting means the attempt has not resolved yet.
	StateConnecting State = iota
	// StateConnected means the server answered a ping.
	StateConnected
	// StateFailed means the attempt failed; Status carries the reason.
	StateFailed
	// StateDisconnected means Close was called.
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the connection state.
type Status struct {
	State State
	// Err is set when State is StateFailed.
	Err error
}
