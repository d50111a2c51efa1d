package ws

import "sync/atomic"

// ConnState is the lifecycle position of a stream connection.
type ConnState int32

const (
	// StateConnecting means the dial is in progress.
	StateConnecting ConnState = iota
	// StateConnected means the connection is open.
	StateConnected
	// StateClosed means the connection has ended; a new Dial is needed.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// state is an atomic ConnState holder.
type state struct {
	v atomic.Int32
}

func (s *state) load() ConnState {
	return ConnState(s.v.Load())
}

func (s *state) store(c ConnState) {
	s.v.Store(int32(c))
}

func (s *state) compareAndSwap(old, new ConnState) bool {
	return s.v.CompareAndSwap(int32(old), int32(new))
}
