package debate

import (
	"errors"
	"strings"
	"testing"

	"podium/internal/protocol"
)

func containsEffect(effects []Effect, typ EffectType) bool {
	for _, eff := range effects {
		if eff.Type == typ {
			return true
		}
	}
	return false
}

func stateIn(phase Phase) State {
	return State{Phase: phase, DebateID: 42, Topic: "T", YourSide: "Proposition", OpponentSide: "Negation"}
}

func TestInitializedStartsHeartbeat(t *testing.T) {
	s := NewState(&protocol.MatchFound{DebateID: 42, Topic: "T", Opponent: protocol.Opponent{Username: "bob", MMR: 1490}})

	effects, next, err := Apply(s, &protocol.DebateInitialized{
		DebateID: 42, Topic: "T", YourSide: "Proposition", OpponentSide: "Negation",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Phase != PhaseWaitingOpponent {
		t.Fatalf("phase: got %v, want %v", next.Phase, PhaseWaitingOpponent)
	}
	if !containsEffect(effects, EffStartHeartbeat) {
		t.Fatalf("expected EffStartHeartbeat")
	}
	if next.YourSide != "Proposition" || next.OpponentSide != "Negation" {
		t.Fatalf("sides not recorded: %+v", next)
	}
}

func TestStartedStopsHeartbeatAndRecordsSides(t *testing.T) {
	s := stateIn(PhaseWaitingOpponent)

	effects, next, err := Apply(s, &protocol.DebateStarted{YourSide: "Negation", OpponentSide: "Proposition"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Phase != PhasePreparation {
		t.Fatalf("phase: got %v, want preparation", next.Phase)
	}
	if !containsEffect(effects, EffStopHeartbeat) {
		t.Fatalf("expected EffStopHeartbeat")
	}
	if next.YourSide != "Negation" {
		t.Fatalf("sides not re-recorded on start")
	}
}

func TestTurnOwnerAlternatesStrictly(t *testing.T) {
	s := stateIn(PhaseDebate)

	events := []protocol.Frame{
		&protocol.YourTurn{TurnNumber: 1},
		&protocol.OpponentTurn{TurnNumber: 1},
		&protocol.YourTurn{TurnNumber: 2},
	}
	want := []Owner{OwnerSelf, OwnerOpponent, OwnerSelf}

	for i, ev := range events {
		var err error
		_, s, err = Apply(s, ev)
		if err != nil {
			t.Fatalf("event %d: unexpected err %v", i, err)
		}
		if s.Turn.Owner != want[i] {
			t.Fatalf("event %d: owner got %q, want %q", i, s.Turn.Owner, want[i])
		}
	}
}

func TestBadTransitionsAreRejected(t *testing.T) {
	cases := []struct {
		name  string
		setup State
		event protocol.Frame
	}{
		{"debate_started in idle", stateIn(PhaseIdle), &protocol.DebateStarted{}},
		{"your_turn during preparation", stateIn(PhasePreparation), &protocol.YourTurn{TurnNumber: 1}},
		{"prep_timer during debate", stateIn(PhaseDebate), &protocol.PrepTimer{RemainingSeconds: 10}},
		{"message before debate phase", stateIn(PhasePreparation), &protocol.Message{Content: "x"}},
		{"initialized after debate began", stateIn(PhaseMyTurn), &protocol.DebateInitialized{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, next, err := Apply(tc.setup, tc.event)
			if !errors.Is(err, ErrBadTransition) {
				t.Fatalf("want ErrBadTransition, got %v", err)
			}
			if next.Phase != tc.setup.Phase {
				t.Fatalf("state mutated on rejected event")
			}
		})
	}
}

func TestTimerEffects(t *testing.T) {
	s := stateIn(PhasePreparation)
	effects, _, err := Apply(s, &protocol.PrepTimer{RemainingSeconds: 90, Display: "01:30"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(effects) != 1 || effects[0].Type != EffTimerUpdate {
		t.Fatalf("expected one timer effect, got %+v", effects)
	}
	if effects[0].Timer.Kind != KindPrep || effects[0].Timer.RemainingSeconds != 90 {
		t.Fatalf("bad snapshot: %+v", effects[0].Timer)
	}

	s = stateIn(PhaseMyTurn)
	effects, _, err = Apply(s, &protocol.TurnTimer{RemainingSeconds: 45, Display: "00:45"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if effects[0].Timer.Kind != KindTurn {
		t.Fatalf("turn timer kind: got %v", effects[0].Timer.Kind)
	}
}

func TestMessageAppendsTranscript(t *testing.T) {
	s := stateIn(PhaseOpponentTurn)
	msg := &protocol.Message{SenderID: 9, SenderUsername: "bob", Content: "claim", TurnNumber: 1}

	effects, next, err := Apply(s, msg)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(next.Transcript) != 1 || next.Transcript[0].Content != "claim" {
		t.Fatalf("transcript: %+v", next.Transcript)
	}
	if !containsEffect(effects, EffTranscriptAppend) {
		t.Fatalf("expected EffTranscriptAppend")
	}
	if len(s.Transcript) != 0 {
		t.Fatalf("input state mutated")
	}
}

func TestEndedIsTerminalAndPersists(t *testing.T) {
	for _, phase := range []Phase{PhaseWaitingOpponent, PhasePreparation, PhaseDebate, PhaseMyTurn, PhaseOpponentTurn} {
		t.Run(string(phase), func(t *testing.T) {
			s := stateIn(phase)
			final := []protocol.Message{{SenderID: 7, Content: "a"}, {SenderID: 9, Content: "b"}}

			effects, next, err := Apply(s, &protocol.DebateEnded{Topic: "T", FinalLog: final})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if next.Phase != PhaseEnded {
				t.Fatalf("phase: got %v", next.Phase)
			}
			if next.CanSubmit {
				t.Fatalf("submission enabled after end")
			}
			if len(next.Transcript) != 2 {
				t.Fatalf("final log not adopted: %+v", next.Transcript)
			}
			if !containsEffect(effects, EffPersistTranscript) {
				t.Fatalf("expected EffPersistTranscript")
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	myTurn := stateIn(PhaseMyTurn)
	myTurn.CanSubmit = true

	cases := []struct {
		name    string
		setup   State
		content string
		wantErr error
	}{
		{"rejected outside my turn", stateIn(PhaseOpponentTurn), "claim", ErrNotYourTurn},
		{"rejected during preparation", stateIn(PhasePreparation), "claim", ErrNotYourTurn},
		{"rejected when empty", myTurn, "   \t  ", ErrEmptyArgument},
		{"rejected when oversized", myTurn, strings.Repeat("a", MaxArgumentLen+1), ErrArgumentTooLong},
		{"accepted", myTurn, "  a solid argument  ", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fr, next, err := Submit(tc.setup, 7, tc.content)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if fr.Content != "a solid argument" {
				t.Fatalf("whitespace not trimmed: %q", fr.Content)
			}
			if fr.UserID != 7 {
				t.Fatalf("user id: %d", fr.UserID)
			}
			// Composing locks immediately, but ownership does not flip: the
			// server is the sole turn authority.
			if next.CanSubmit {
				t.Fatalf("CanSubmit still set after submit")
			}
			if next.Phase != PhaseMyTurn || next.Turn.Owner != myTurn.Turn.Owner {
				t.Fatalf("ownership flipped locally: %+v", next)
			}
		})
	}
}

func TestSecondSubmitSameTurnRejected(t *testing.T) {
	s := stateIn(PhaseMyTurn)
	s.CanSubmit = true

	_, s, err := Submit(s, 7, "first")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, _, err = Submit(s, 7, "second")
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("want ErrNotYourTurn for double submit, got %v", err)
	}
}
