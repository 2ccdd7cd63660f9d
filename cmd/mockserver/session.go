package main

import (
	"context"
	"sync"
	"time"

	"podium/internal/debate"
	"podium/internal/protocol"
)

const maxTurns = 6 // three per side

type submission struct {
	userID  int
	content string
}

// session drives one debate end to end in its own goroutine, mirroring the
// real backend: initialize, wait for both readiness pings, prep countdown,
// alternating timed turns, final log.
type session struct {
	srv   *server
	id    int
	topic string
	u1    int
	u2    int
	sides map[int]string

	once    sync.Once
	readyCh chan int
	msgCh   chan submission

	messages []protocol.Message
}

func newSession(srv *server, id int, topic string, u1, u2 int) *session {
	return &session{
		srv:   srv,
		id:    id,
		topic: topic,
		u1:    u1,
		u2:    u2,
		sides: map[int]string{u1: "Proposition", u2: "Negation"},
		// Buffered so pings and submissions never block the reader loop.
		readyCh: make(chan int, 16),
		msgCh:   make(chan submission, 16),
	}
}

func (d *session) startOnce(ctx context.Context) {
	d.once.Do(func() { go d.run(ctx) })
}

func (d *session) ping(userID int) {
	select {
	case d.readyCh <- userID:
	default:
	}
}

func (d *session) submit(userID int, content string) {
	select {
	case d.msgCh <- submission{userID: userID, content: content}:
	default:
	}
}

func (d *session) run(ctx context.Context) {
	d.both(ctx, func(me, other int) (string, any) {
		return protocol.TypeDebateInitialized, protocol.DebateInitialized{
			DebateID:        d.id,
			Topic:           d.topic,
			PrepTimeMinutes: d.srv.prepSeconds / 60,
			YourSide:        d.sides[me],
			OpponentSide:    d.sides[other],
			Status:          "Connecting... Please ping when ready",
		}
	})

	d.waitReady(ctx)

	d.both(ctx, func(me, other int) (string, any) {
		return protocol.TypeDebateStarted, protocol.DebateStarted{
			DebateID:        d.id,
			Topic:           d.topic,
			PrepTimeMinutes: d.srv.prepSeconds / 60,
			YourSide:        d.sides[me],
			OpponentSide:    d.sides[other],
			Status:          "Both players connected! Starting preparation...",
		}
	})

	d.broadcast(ctx, protocol.TypePrepTimerStart,
		protocol.PrepTimerStart{DurationMinutes: d.srv.prepSeconds / 60})
	ticker := time.NewTicker(time.Second)
	for remaining := d.srv.prepSeconds; remaining >= 0; remaining-- {
		d.broadcast(ctx, protocol.TypePrepTimer, protocol.PrepTimer{
			RemainingSeconds: remaining,
			Display:          debate.FormatDisplay(remaining),
		})
		if remaining == 0 {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			ticker.Stop()
			return
		}
	}
	ticker.Stop()

	d.broadcast(ctx, protocol.TypeDebatePhaseStart,
		protocol.DebatePhaseStart{Message: "Preparation time is over. The debate begins!"})

	for turn := 0; turn < maxTurns; turn++ {
		d.playTurn(ctx, turn)
	}

	d.broadcast(ctx, protocol.TypeDebateEnded, protocol.DebateEnded{
		Message:  "Debate has ended",
		Topic:    d.topic,
		FinalLog: d.messages,
	})
}

func (d *session) waitReady(ctx context.Context) {
	ready := map[int]bool{}
	for len(ready) < 2 {
		select {
		case id := <-d.readyCh:
			ready[id] = true
		case <-ctx.Done():
			return
		}
	}
}

func (d *session) playTurn(ctx context.Context, turn int) {
	current, other := d.u1, d.u2
	if turn%2 == 1 {
		current, other = d.u2, d.u1
	}
	turnNumber := turn/2 + 1

	d.srv.sendTo(ctx, current, protocol.TypeYourTurn, protocol.YourTurn{
		TurnNumber:       turnNumber,
		TimeLimitMinutes: d.srv.turnSeconds / 60,
		YourSide:         d.sides[current],
	})
	d.srv.sendTo(ctx, other, protocol.TypeOpponentTurn, protocol.OpponentTurn{
		TurnNumber:       turnNumber,
		TimeLimitMinutes: d.srv.turnSeconds / 60,
		OpponentSide:     d.sides[current],
		YourSide:         d.sides[other],
	})

	content := "[Time expired - no argument submitted]"
	remaining := d.srv.turnSeconds
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	d.sendTurnTimer(ctx, remaining, current)
wait:
	for {
		select {
		case sub := <-d.msgCh:
			if sub.userID != current {
				continue // out-of-turn submission, drop
			}
			content = sub.content
			break wait
		case <-ticker.C:
			remaining--
			d.sendTurnTimer(ctx, remaining, current)
			if remaining <= 0 {
				break wait
			}
		case <-ctx.Done():
			return
		}
	}

	username := ""
	if u := d.lookup(current); u != nil {
		username = u.username
	}
	msg := protocol.Message{
		SenderID:       current,
		SenderUsername: username,
		Content:        content,
		Timestamp:      time.Now().Format(time.RFC3339),
		TurnNumber:     turnNumber,
	}
	d.messages = append(d.messages, msg)
	d.broadcast(ctx, protocol.TypeMessage, msg)
}

func (d *session) lookup(userID int) *user {
	d.srv.mu.Lock()
	defer d.srv.mu.Unlock()
	return d.srv.userByIDLocked(userID)
}

func (d *session) sendTurnTimer(ctx context.Context, remaining, current int) {
	d.broadcast(ctx, protocol.TypeTurnTimer, protocol.TurnTimer{
		RemainingSeconds: remaining,
		Display:          debate.FormatDisplay(remaining),
		CurrentTurnUser:  current,
		CurrentTurnSide:  d.sides[current],
	})
}

func (d *session) both(ctx context.Context, build func(me, other int) (string, any)) {
	typ, v := build(d.u1, d.u2)
	d.srv.sendTo(ctx, d.u1, typ, v)
	typ, v = build(d.u2, d.u1)
	d.srv.sendTo(ctx, d.u2, typ, v)
}

func (d *session) broadcast(ctx context.Context, typ string, v any) {
	d.srv.sendTo(ctx, d.u1, typ, v)
	d.srv.sendTo(ctx, d.u2, typ, v)
}
