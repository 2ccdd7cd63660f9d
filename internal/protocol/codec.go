// Package protocol defines the debate wire format: JSON text frames, each
// tagged with a top-level "type" string, and the codec between raw bytes and
// the typed frame unions.
package protocol

import (
	"encoding/json"
	"fmt"
)

var ErrMalformedFrame = fmt.Errorf("protocol: malformed frame")
var ErrUnknownType = fmt.Errorf("protocol: unknown frame type")

// Decode parses one inbound text frame into its concrete Frame type. A frame
// whose tag is not in the catalog yields ErrUnknownType so callers can log and
// move on; the server adding message types must never kill the connection.
func Decode(data []byte) (Frame, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var f Frame
	switch env.Type {
	case TypeAuthResponse:
		f = &AuthResponse{}
	case TypeAccountCreationResponse:
		f = &AccountCreationResponse{}
	case TypeMatchmakingResponse:
		f = &MatchmakingResponse{}
	case TypeQueueJoined:
		f = &QueueJoined{}
	case TypeQueueLeft:
		f = &QueueLeft{}
	case TypeMatchFound:
		f = &MatchFound{}
	case TypeStartDebateResponse:
		f = &StartDebateResponse{}
	case TypeDebateInitialized:
		f = &DebateInitialized{}
	case TypeConnectionStatus:
		f = &ConnectionStatus{}
	case TypeDebateStarted:
		f = &DebateStarted{}
	case TypePrepTimerStart:
		f = &PrepTimerStart{}
	case TypePrepTimer:
		f = &PrepTimer{}
	case TypeDebatePhaseStart:
		f = &DebatePhaseStart{}
	case TypeYourTurn:
		f = &YourTurn{}
	case TypeOpponentTurn:
		f = &OpponentTurn{}
	case TypeTurnTimer:
		f = &TurnTimer{}
	case TypeMessage:
		f = &Message{}
	case TypeDebateResponse:
		f = &DebateResponse{}
	case TypeDebateEnded:
		f = &DebateEnded{}
	case TypeAdminDataResponse:
		f = &AdminDataResponse{}
	case TypeAdminItemResponse:
		f = &AdminItemResponse{}
	case TypeAdminUpdateResponse:
		f = &AdminUpdateResponse{}
	case TypeAdminDeleteResponse:
		f = &AdminDeleteResponse{}
	case TypeError:
		f = &ServerError{}
	case TypePong:
		f = &Pong{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedFrame, env.Type, err)
	}
	return f, nil
}

// Encode marshals an outbound frame. The Outbound constraint keeps stray
// untagged values off the wire.
func Encode(o Outbound) ([]byte, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode: %w", err)
	}
	return data, nil
}
