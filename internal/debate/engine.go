// Package debate implements the client side of the debate turn protocol as a
// pure state machine. Apply consumes one server frame and returns the effects
// the caller must run plus the next state; nothing in here touches the
// network, timers, or storage, which keeps the whole transition table
// table-testable.
package debate

import (
	"errors"
	"strings"

	"podium/internal/protocol"
)

var ErrNotYourTurn = errors.New("debate: not your turn")
var ErrEmptyArgument = errors.New("debate: empty argument")
var ErrArgumentTooLong = errors.New("debate: argument too long")
var ErrBadTransition = errors.New("debate: unexpected event for phase")
var ErrUnsupportedFrame = errors.New("debate: unsupported frame")

// Server-enforced cap on a single argument; checked locally so an oversized
// submission never leaves the client.
const MaxArgumentLen = 1000

type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseWaitingOpponent Phase = "waiting_for_opponent"
	PhasePreparation     Phase = "preparation"
	// PhaseDebate is the debate phase before the first turn frame arrives;
	// turn ownership is undetermined until the server assigns it.
	PhaseDebate       Phase = "debate"
	PhaseMyTurn       Phase = "my_turn"
	PhaseOpponentTurn Phase = "opponent_turn"
	PhaseEnded        Phase = "finished"
)

// inDebate reports whether turns, turn timers and messages are meaningful.
func (p Phase) inDebate() bool {
	return p == PhaseDebate || p == PhaseMyTurn || p == PhaseOpponentTurn
}

type Owner string

const (
	OwnerNone     Owner = ""
	OwnerSelf     Owner = "self"
	OwnerOpponent Owner = "opponent"
)

// TurnState toggles strictly on your_turn/opponent_turn frames and never
// spontaneously; the server is the sole authority on turn order.
type TurnState struct {
	Number int
	Owner  Owner
}

type State struct {
	Phase        Phase
	DebateID     int
	Topic        string
	YourSide     string
	OpponentSide string
	Opponent     protocol.Opponent
	Turn         TurnState
	Transcript   []protocol.Message
	// CanSubmit is true only inside an unspent own turn: submitting an
	// argument clears it immediately, ahead of the server's next turn frame.
	CanSubmit bool
}

// NewState builds the context for a freshly found match. The machine stays
// idle until the server confirms with debate_initialized.
func NewState(m *protocol.MatchFound) State {
	return State{
		Phase:    PhaseIdle,
		DebateID: m.DebateID,
		Topic:    m.Topic,
		Opponent: m.Opponent,
	}
}

type EffectType string

const (
	EffStartHeartbeat    EffectType = "StartHeartbeat"
	EffStopHeartbeat     EffectType = "StopHeartbeat"
	EffTimerUpdate       EffectType = "TimerUpdate"
	EffEnableInput       EffectType = "EnableInput"
	EffDisableInput      EffectType = "DisableInput"
	EffTranscriptAppend  EffectType = "TranscriptAppend"
	EffPersistTranscript EffectType = "PersistTranscript"
)

type Effect struct {
	Type  EffectType
	Timer Snapshot         // EffTimerUpdate
	Entry protocol.Message // EffTranscriptAppend
}

// Apply advances the machine by one server frame.
//
//	Idle             debate_initialized  -> WaitingOpponent  (start heartbeat)
//	WaitingOpponent  debate_started      -> Preparation      (stop heartbeat, record sides)
//	Preparation      prep_timer          -> Preparation      (timer update, kind=prep)
//	Preparation      debate_phase_start  -> Debate           (turn undetermined)
//	Debate*          your_turn           -> MyTurn           (enable input, owner=self)
//	Debate*          opponent_turn       -> OpponentTurn     (disable input, owner=opponent)
//	My/OpponentTurn  turn_timer          -> same             (timer update, kind=turn)
//	My/OpponentTurn  message             -> same             (transcript append)
//	any              debate_ended        -> Ended            (persist transcript; terminal)
//
// An event arriving in the wrong phase returns ErrBadTransition with the
// state unchanged; callers treat that as a logged no-op, never as fatal.
func Apply(s State, fr protocol.Frame) ([]Effect, State, error) {
	newState := s

	switch f := fr.(type) {
	case *protocol.DebateInitialized:
		// The server may re-initialize (e.g. after a resend); accept from
		// idle or a repeat in the waiting room, reject once play began.
		if s.Phase != PhaseIdle && s.Phase != PhaseWaitingOpponent {
			return nil, s, ErrBadTransition
		}
		newState.Phase = PhaseWaitingOpponent
		newState.DebateID = f.DebateID
		newState.Topic = f.Topic
		newState.YourSide = f.YourSide
		newState.OpponentSide = f.OpponentSide
		return []Effect{{Type: EffStartHeartbeat}}, newState, nil

	case *protocol.DebateStarted:
		if s.Phase != PhaseWaitingOpponent {
			return nil, s, ErrBadTransition
		}
		newState.Phase = PhasePreparation
		newState.YourSide = f.YourSide
		newState.OpponentSide = f.OpponentSide
		return []Effect{{Type: EffStopHeartbeat}}, newState, nil

	case *protocol.PrepTimerStart:
		if s.Phase != PhasePreparation {
			return nil, s, ErrBadTransition
		}
		remaining := f.DurationMinutes * 60
		snap := Snapshot{Kind: KindPrep, RemainingSeconds: remaining, Display: FormatDisplay(remaining)}
		return []Effect{{Type: EffTimerUpdate, Timer: snap}}, s, nil

	case *protocol.PrepTimer:
		if s.Phase != PhasePreparation {
			return nil, s, ErrBadTransition
		}
		snap := Snapshot{Kind: KindPrep, RemainingSeconds: f.RemainingSeconds, Display: f.Display}
		return []Effect{{Type: EffTimerUpdate, Timer: snap}}, s, nil

	case *protocol.DebatePhaseStart:
		if s.Phase != PhasePreparation {
			return nil, s, ErrBadTransition
		}
		newState.Phase = PhaseDebate
		newState.Turn = TurnState{}
		return nil, newState, nil

	case *protocol.YourTurn:
		if !s.Phase.inDebate() {
			return nil, s, ErrBadTransition
		}
		newState.Phase = PhaseMyTurn
		newState.Turn = TurnState{Number: f.TurnNumber, Owner: OwnerSelf}
		newState.CanSubmit = true
		return []Effect{{Type: EffEnableInput}}, newState, nil

	case *protocol.OpponentTurn:
		if !s.Phase.inDebate() {
			return nil, s, ErrBadTransition
		}
		newState.Phase = PhaseOpponentTurn
		newState.Turn = TurnState{Number: f.TurnNumber, Owner: OwnerOpponent}
		newState.CanSubmit = false
		return []Effect{{Type: EffDisableInput}}, newState, nil

	case *protocol.TurnTimer:
		if !s.Phase.inDebate() {
			return nil, s, ErrBadTransition
		}
		snap := Snapshot{Kind: KindTurn, RemainingSeconds: f.RemainingSeconds, Display: f.Display}
		return []Effect{{Type: EffTimerUpdate, Timer: snap}}, s, nil

	case *protocol.Message:
		if !s.Phase.inDebate() {
			return nil, s, ErrBadTransition
		}
		newState.Transcript = append(append([]protocol.Message{}, s.Transcript...), *f)
		return []Effect{{Type: EffTranscriptAppend, Entry: *f}}, newState, nil

	case *protocol.DebateEnded:
		newState.Phase = PhaseEnded
		newState.Turn = TurnState{Number: s.Turn.Number, Owner: OwnerNone}
		newState.CanSubmit = false
		if len(f.FinalLog) > 0 {
			newState.Transcript = append([]protocol.Message{}, f.FinalLog...)
		}
		return []Effect{
			{Type: EffStopHeartbeat},
			{Type: EffDisableInput},
			{Type: EffPersistTranscript},
		}, newState, nil

	default:
		return nil, s, ErrUnsupportedFrame
	}
}

// Submit validates and builds the outgoing argument for the current turn. It
// clears CanSubmit so the composer locks immediately, but deliberately leaves
// turn ownership untouched: ownership only flips on the server's next
// your_turn/opponent_turn frame.
func Submit(s State, userID int, content string) (protocol.DebateMessage, State, error) {
	if s.Phase != PhaseMyTurn || !s.CanSubmit {
		return protocol.DebateMessage{}, s, ErrNotYourTurn
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return protocol.DebateMessage{}, s, ErrEmptyArgument
	}
	if len(content) > MaxArgumentLen {
		return protocol.DebateMessage{}, s, ErrArgumentTooLong
	}

	newState := s
	newState.CanSubmit = false
	return protocol.NewDebateMessage(userID, content), newState, nil
}
