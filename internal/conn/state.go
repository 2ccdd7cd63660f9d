package conn

// State is the single connection-lifecycle value shared by every component.
// Exactly one value is active at a time; it is owned by the Manager and
// advanced only by the Manager or by debate session effects.
type State string

const (
	StateDisconnected    State = "disconnected"
	StateConnecting      State = "connecting"
	StateConnected       State = "connected"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateWaitingOpponent State = "waiting_opponent"
	StateReady           State = "ready"
	// StateLost is terminal: reconnection attempts are exhausted and only
	// external intervention (a fresh Open) resumes the session.
	StateLost State = "lost"
)

func (s State) String() string { return string(s) }

// Open reports whether frames can be sent in this state.
func (s State) Open() bool {
	switch s {
	case StateConnected, StateAuthenticating, StateAuthenticated, StateWaitingOpponent, StateReady:
		return true
	default:
		return false
	}
}
