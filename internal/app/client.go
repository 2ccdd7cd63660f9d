// Package app wires the protocol components into a single-goroutine event
// loop: commands from the front end, transport events from the connection
// manager, and heartbeat ticks are all serviced by one select, so handlers
// run to completion in arrival order and no component needs locks.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"podium/internal/admin"
	"podium/internal/auth"
	"podium/internal/conn"
	"podium/internal/debate"
	"podium/internal/matchmaking"
	"podium/internal/protocol"
	"podium/internal/store"
)

// Config carries the loop's tunables; defaults live in internal/config.
type Config struct {
	ServerURL            string
	ReconnectMaxAttempts int
	ReconnectDelay       time.Duration
	// HeartbeatInterval overrides the readiness-ping cadence; zero means the
	// default.
	HeartbeatInterval time.Duration
}

type Client struct {
	log    *zap.Logger
	notify Notifier

	conn  *conn.Manager
	authn *auth.Session
	queue *matchmaking.Client
	adm   *admin.Client
	st    *store.Store

	session Session
	// pending holds commands issued while no transport is open; they replay
	// in order once the connection comes up instead of failing a send.
	pending []Msg

	events     chan conn.Event
	inbox      chan Msg
	hbInterval time.Duration
	heartbeat *time.Ticker
	// heartbeatC is nil while the heartbeat is inactive, which removes the
	// case from the select entirely; a tick buffered before cancellation can
	// never produce a send.
	heartbeatC <-chan time.Time
}

func New(cfg Config, st *store.Store, notify Notifier, log *zap.Logger) *Client {
	events := make(chan conn.Event, 256)
	policy := conn.ReconnectPolicy{
		MaxAttempts: cfg.ReconnectMaxAttempts,
		Delay:       cfg.ReconnectDelay,
	}

	hb := cfg.HeartbeatInterval
	if hb <= 0 {
		hb = defaultHeartbeatInterval
	}

	c := &Client{
		log:        log,
		notify:     notify,
		conn:       conn.NewManager(cfg.ServerURL, policy, events, log.Named("conn")),
		authn:      auth.NewSession(log.Named("auth")),
		queue:      matchmaking.NewClient(log.Named("matchmaking")),
		adm:        admin.NewClient(),
		st:         st,
		events:     events,
		inbox:      make(chan Msg, 64),
		hbInterval: hb,
	}

	if id, err := st.LoadIdentity(); err != nil {
		log.Warn("stored identity unreadable", zap.Error(err))
	} else if id != nil {
		c.authn.Restore(*id)
		c.session.Identity = id
	}
	return c
}

// Inbox accepts front-end commands.
func (c *Client) Inbox() chan<- Msg { return c.inbox }

// Run opens the connection and services events until Shutdown or context
// cancellation. It owns every piece of mutable session state.
func (c *Client) Run(ctx context.Context) error {
	if err := c.conn.Open(ctx); err != nil {
		c.notify.ConnectionState(c.conn.State())
		return err
	}
	c.notify.ConnectionState(c.conn.State())

	for {
		select {
		case <-ctx.Done():
			c.teardown()
			return ctx.Err()

		case ev := <-c.events:
			c.handleConnEvent(ctx, ev)

		case m := <-c.inbox:
			if _, ok := m.(Shutdown); ok {
				c.teardown()
				return nil
			}
			if !c.conn.Connected() {
				c.pending = append(c.pending, m)
				continue
			}
			c.handleMsg(ctx, m)

		case <-c.heartbeatC:
			c.sendPingReady(ctx)
		}
	}
}

func (c *Client) teardown() {
	c.stopHeartbeat()
	c.conn.Teardown()
}

// flushPending replays commands held back while the transport was down.
func (c *Client) flushPending(ctx context.Context) {
	if len(c.pending) == 0 {
		return
	}
	queued := c.pending
	c.pending = nil
	c.log.Debug("replaying buffered commands", zap.Int("count", len(queued)))
	for _, m := range queued {
		c.handleMsg(ctx, m)
	}
}

func (c *Client) handleConnEvent(ctx context.Context, ev conn.Event) {
	switch e := ev.(type) {
	case conn.Opened:
		if c.conn.HandleOpened(e) {
			c.notify.ConnectionState(c.conn.State())
			c.flushPending(ctx)
		}

	case conn.FrameReceived:
		if !c.conn.Live(e.Gen) {
			return
		}
		fr, err := protocol.Decode(e.Data)
		if err != nil {
			// Decode faults never tear the connection down: unknown tags keep
			// us forward compatible, malformed frames are the server's bug.
			c.log.Warn("dropping frame", zap.Error(err))
			return
		}
		c.dispatch(ctx, fr)

	case conn.Closed:
		st := c.conn.HandleClosed(e)
		c.notify.ConnectionState(st)
		if st == conn.StateLost {
			c.stopHeartbeat()
			c.pending = nil
			c.notify.TransientError("connection lost; reload to reconnect")
		}

	case conn.RetryElapsed:
		c.conn.HandleRetry(ctx, e)
		c.notify.ConnectionState(c.conn.State())
	}
}

// dispatch routes one decoded frame to its owning component. The switch is
// exhaustive over the inbound union; protocol additions surface here as
// compile-time work, not silently ignored branches.
func (c *Client) dispatch(ctx context.Context, fr protocol.Frame) {
	switch f := fr.(type) {
	case *protocol.AuthResponse:
		id, err := c.authn.HandleAuthResponse(f)
		if err != nil {
			c.conn.SetState(conn.StateDisconnected)
			c.notify.TransientError(f.Error)
			return
		}
		c.session.Identity = id
		c.conn.SetState(conn.StateAuthenticated)
		if err := c.st.SaveIdentity(*id); err != nil {
			c.log.Warn("persist identity", zap.Error(err))
		}
		c.notify.AuthSucceeded(*id)

	case *protocol.AccountCreationResponse:
		if err := c.authn.HandleAccountCreation(f); err != nil {
			c.notify.TransientError(f.Error)
			return
		}
		c.notify.StatusLine("account created, you can log in now")

	case *protocol.MatchmakingResponse:
		if !f.Success {
			c.notify.TransientError(f.Error)
		}

	case *protocol.QueueJoined:
		size := c.queue.HandleQueueJoined(f)
		c.notify.QueueUpdate(true, size)

	case *protocol.QueueLeft:
		c.queue.HandleQueueLeft(f)
		c.notify.QueueUpdate(false, 0)

	case *protocol.MatchFound:
		// A resent match_found replaces the context wholesale.
		st := c.queue.HandleMatchFound(f)
		c.session.Debate = &st
		c.persistDebate()
		c.notify.MatchFound(st)
		if id := c.session.Identity; id != nil {
			c.send(ctx, protocol.NewStartDebate(id.ID, f.DebateID))
		}

	case *protocol.StartDebateResponse:
		if !f.Success {
			c.notify.TransientError(f.Error)
		}

	case *protocol.ConnectionStatus:
		c.notify.StatusLine(f.Status)

	case *protocol.DebateInitialized, *protocol.DebateStarted, *protocol.PrepTimerStart,
		*protocol.PrepTimer, *protocol.DebatePhaseStart, *protocol.YourTurn,
		*protocol.OpponentTurn, *protocol.TurnTimer, *protocol.Message, *protocol.DebateEnded:
		c.applyDebate(ctx, fr)

	case *protocol.AdminDataResponse:
		rows, err := c.adm.HandleDataResponse(f)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.notify.AdminData(f.DataType, rows)

	case *protocol.AdminItemResponse:
		item, err := c.adm.HandleItemResponse(f)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.notify.AdminItem(f.DataType, item)

	case *protocol.AdminUpdateResponse:
		if !f.Success {
			c.notify.TransientError(f.Error)
			return
		}
		c.notify.AdminAck("update")

	case *protocol.AdminDeleteResponse:
		if !f.Success {
			c.notify.TransientError(f.Error)
			return
		}
		c.notify.AdminAck("delete")

	case *protocol.DebateResponse:
		if !f.Success {
			c.notify.TransientError(f.Error)
		}

	case *protocol.ServerError:
		c.notify.TransientError(f.Message)

	case *protocol.Pong:
		c.log.Debug("pong")
	}
}

// applyDebate feeds one frame through the pure machine and runs its effects.
func (c *Client) applyDebate(ctx context.Context, fr protocol.Frame) {
	if c.session.Debate == nil {
		// Defensive: a debate frame with no context is a desync, not a crash.
		c.log.Warn("debate frame without active context")
		return
	}

	effects, next, err := debate.Apply(*c.session.Debate, fr)
	if err != nil {
		c.log.Warn("debate event ignored", zap.Error(err), zap.String("phase", string(c.session.Debate.Phase)))
		return
	}

	prevPhase := c.session.Debate.Phase
	*c.session.Debate = next
	if next.Phase != prevPhase {
		c.syncLifecycle(next.Phase)
		c.persistDebate()
		c.notify.PhaseChanged(next.Phase)
	}

	for _, eff := range effects {
		switch eff.Type {
		case debate.EffStartHeartbeat:
			c.startHeartbeat(ctx)
		case debate.EffStopHeartbeat:
			c.stopHeartbeat()
		case debate.EffTimerUpdate:
			c.notify.TimerUpdate(eff.Timer.Kind, eff.Timer.Display,
				debate.Progress(eff.Timer.Kind, eff.Timer.RemainingSeconds))
		case debate.EffEnableInput:
			c.notify.InputEnabled(true)
		case debate.EffDisableInput:
			c.notify.InputEnabled(false)
		case debate.EffTranscriptAppend:
			c.notify.TranscriptAppend(eff.Entry)
		case debate.EffPersistTranscript:
			if err := c.st.SaveTranscript(next.DebateID, next.Topic, next.Transcript); err != nil {
				c.log.Warn("persist transcript", zap.Error(err))
			}
			c.notify.DebateEnded(next.Topic, next.Transcript)
		}
	}
}

// syncLifecycle reflects debate phases into the shared connection state.
func (c *Client) syncLifecycle(p debate.Phase) {
	switch p {
	case debate.PhaseWaitingOpponent:
		c.conn.SetState(conn.StateWaitingOpponent)
	case debate.PhasePreparation:
		c.conn.SetState(conn.StateReady)
	case debate.PhaseEnded:
		c.conn.SetState(conn.StateAuthenticated)
	}
}

func (c *Client) persistDebate() {
	if c.session.Debate == nil {
		return
	}
	if err := c.st.SaveDebate(*c.session.Debate); err != nil {
		c.log.Warn("persist debate context", zap.Error(err))
	}
}

func (c *Client) handleMsg(ctx context.Context, m Msg) {
	switch msg := m.(type) {
	case Authenticate:
		fr, err := c.authn.Authenticate(msg.Username, msg.Password)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.conn.SetState(conn.StateAuthenticating)
		c.send(ctx, fr)

	case CreateAccount:
		fr, err := c.authn.CreateAccount(msg.Username, msg.Password, msg.Confirm)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.send(ctx, fr)

	case JoinQueue:
		id := c.session.Identity
		if id == nil {
			c.notify.TransientError("log in before joining the queue")
			return
		}
		c.send(ctx, c.queue.Join(id.ID))

	case LeaveQueue:
		id := c.session.Identity
		if id == nil {
			return
		}
		c.send(ctx, c.queue.Leave(id.ID))
		c.notify.QueueUpdate(false, 0)

	case StartDebate:
		id := c.session.Identity
		if id == nil {
			c.notify.TransientError("log in first")
			return
		}
		c.send(ctx, protocol.NewStartDebate(id.ID, msg.DebateID))

	case SubmitArgument:
		c.submitArgument(ctx, msg.Content)

	case LeaveDebate:
		c.stopHeartbeat()
		c.session.Debate = nil
		if err := c.st.ClearDebate(); err != nil {
			c.log.Warn("clear debate records", zap.Error(err))
		}
		c.conn.SetState(conn.StateAuthenticated)
		c.notify.PhaseChanged(debate.PhaseIdle)

	case Logout:
		c.stopHeartbeat()
		c.session = Session{}
		c.authn.Logout()
		if err := c.st.Clear(); err != nil {
			c.log.Warn("clear session records", zap.Error(err))
		}
		c.conn.SetState(conn.StateConnected)
		c.notify.ConnectionState(c.conn.State())

	case AdminGetData:
		fr, err := c.adm.GetData(c.session.Identity, msg.DataType)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.send(ctx, fr)

	case AdminGetItem:
		fr, err := c.adm.GetItem(c.session.Identity, msg.DataType, msg.ItemID)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.send(ctx, fr)

	case AdminUpdateItem:
		fr, err := c.adm.UpdateItem(c.session.Identity, msg.DataType, msg.ItemData)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.send(ctx, fr)

	case AdminDeleteItem:
		fr, err := c.adm.DeleteItem(c.session.Identity, msg.DataType, msg.ItemID)
		if err != nil {
			c.notify.TransientError(err.Error())
			return
		}
		c.send(ctx, fr)
	}
}

// submitArgument validates locally and leaves composing mode; turn ownership
// stays as-is until the server's next turn frame.
func (c *Client) submitArgument(ctx context.Context, content string) {
	id := c.session.Identity
	if id == nil || c.session.Debate == nil {
		c.notify.TransientError("no active debate")
		return
	}
	fr, next, err := debate.Submit(*c.session.Debate, id.ID, content)
	if err != nil {
		c.notify.TransientError(err.Error())
		return
	}
	*c.session.Debate = next
	c.notify.InputEnabled(false)
	c.send(ctx, fr)
}

// send delivers one frame best-effort; failure is reported, never assumed
// delivered.
func (c *Client) send(ctx context.Context, o protocol.Outbound) {
	if err := c.conn.Send(ctx, o); err != nil {
		if errors.Is(err, conn.ErrNotConnected) {
			c.notify.TransientError("not connected")
		}
		c.log.Warn("send failed", zap.Error(err))
	}
}
