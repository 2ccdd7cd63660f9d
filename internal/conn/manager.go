// Package conn owns the websocket transport: one live connection at a time,
// bounded flat-backoff reconnection, and the connection state every other
// component observes.
//
// The Manager's methods must be called from the owning event loop goroutine.
// Dial and read-pump goroutines never touch Manager state; they post
// generation-tagged events into the loop's channel, and events carrying a
// stale generation are discarded, so a new Open implicitly invalidates every
// handler of a prior transport instance.
package conn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"podium/internal/protocol"
)

var ErrNotConnected = errors.New("conn: not connected")
var ErrLost = errors.New("conn: reconnect attempts exhausted")

// ReconnectPolicy is flat backoff: a fixed delay between attempts, no
// exponential growth. Attempt resets to zero on every successful open and the
// policy goes terminal once Attempt reaches MaxAttempts.
type ReconnectPolicy struct {
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
}

// Event is the closed set of transport notifications delivered to the loop.
type Event interface{ isConnEvent() }

type Opened struct {
	Gen int
	WS  *websocket.Conn
}

type FrameReceived struct {
	Gen  int
	Data []byte
}

type Closed struct {
	Gen int
	Err error
}

type RetryElapsed struct{ Gen int }

func (Opened) isConnEvent()        {}
func (FrameReceived) isConnEvent() {}
func (Closed) isConnEvent()        {}
func (RetryElapsed) isConnEvent()  {}

type Manager struct {
	log    *zap.Logger
	url    string
	policy ReconnectPolicy
	events chan<- Event

	state State
	ws    *websocket.Conn
	gen   int
	retry *time.Timer

	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func NewManager(rawURL string, policy ReconnectPolicy, events chan<- Event, log *zap.Logger) *Manager {
	return &Manager{
		log:          log,
		url:          rawURL,
		policy:       policy,
		events:       events,
		state:        StateDisconnected,
		dialTimeout:  10 * time.Second,
		writeTimeout: 3 * time.Second,
	}
}

func (m *Manager) State() State { return m.state }

// SetState advances the lifecycle on behalf of the auth and debate machines.
func (m *Manager) SetState(s State) {
	if s == m.state {
		return
	}
	m.log.Debug("connection state", zap.String("from", m.state.String()), zap.String("to", s.String()))
	m.state = s
}

func (m *Manager) Attempt() int { return m.policy.Attempt }

// Open starts a fresh connection attempt. A malformed URL is a construction
// failure: state goes to disconnected and no retry is scheduled. Dial errors
// are reported asynchronously as a Closed event and fall under the retry
// policy.
func (m *Manager) Open(ctx context.Context) error {
	u, err := url.Parse(m.url)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		m.state = StateDisconnected
		if err == nil {
			err = fmt.Errorf("conn: unsupported scheme %q", u.Scheme)
		}
		return fmt.Errorf("conn: open %q: %w", m.url, err)
	}

	m.cancelRetry()
	m.dropTransport(websocket.StatusGoingAway, "superseded")
	m.gen++
	m.state = StateConnecting
	m.log.Info("dialing", zap.String("url", m.url), zap.Int("attempt", m.policy.Attempt))

	go m.dial(ctx, m.gen)
	return nil
}

// dial runs off-loop: it posts Opened on success and then becomes the read
// pump for that generation, or posts Closed on failure.
func (m *Manager) dial(ctx context.Context, gen int) {
	dctx, cancel := context.WithTimeout(ctx, m.dialTimeout)
	ws, _, err := websocket.Dial(dctx, m.url, nil)
	cancel()
	if err != nil {
		m.events <- Closed{Gen: gen, Err: err}
		return
	}
	m.events <- Opened{Gen: gen, WS: ws}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			m.events <- Closed{Gen: gen, Err: err}
			return
		}
		m.events <- FrameReceived{Gen: gen, Data: data}
	}
}

// Live reports whether the event belongs to the current transport generation.
func (m *Manager) Live(gen int) bool { return gen == m.gen }

// Connected reports whether a transport is installed and writable.
func (m *Manager) Connected() bool { return m.ws != nil }

// HandleOpened installs the transport; reports false for a stale generation,
// in which case the orphaned socket is closed and nothing else changes.
func (m *Manager) HandleOpened(ev Opened) bool {
	if !m.Live(ev.Gen) {
		go ev.WS.Close(websocket.StatusGoingAway, "stale")
		return false
	}
	m.ws = ev.WS
	m.policy.Attempt = 0
	m.state = StateConnected
	m.log.Info("connected")
	return true
}

// HandleClosed applies the reconnect policy to a close of the live
// generation and returns the resulting state. Transport-level errors are
// carried in ev.Err for reporting; the close itself drives recovery.
func (m *Manager) HandleClosed(ev Closed) State {
	if !m.Live(ev.Gen) {
		return m.state
	}
	m.ws = nil

	m.policy.Attempt++
	if m.policy.Attempt >= m.policy.MaxAttempts {
		m.state = StateLost
		m.log.Warn("connection lost for good", zap.Int("attempts", m.policy.Attempt), zap.Error(ev.Err))
		return m.state
	}

	m.state = StateDisconnected
	gen := m.gen
	m.retry = time.AfterFunc(m.policy.Delay, func() {
		m.events <- RetryElapsed{Gen: gen}
	})
	m.log.Info("connection closed, retry scheduled",
		zap.Int("attempt", m.policy.Attempt),
		zap.Int("max_attempts", m.policy.MaxAttempts),
		zap.Duration("delay", m.policy.Delay),
		zap.Error(ev.Err))
	return m.state
}

// HandleRetry re-opens after the backoff delay, unless a newer Open already
// superseded the scheduled attempt.
func (m *Manager) HandleRetry(ctx context.Context, ev RetryElapsed) {
	if !m.Live(ev.Gen) {
		return
	}
	if err := m.Open(ctx); err != nil {
		m.log.Warn("reopen failed", zap.Error(err))
	}
}

// Send encodes and writes one frame. It fails fast when no open transport
// exists; the caller must not assume delivery.
func (m *Manager) Send(ctx context.Context, o protocol.Outbound) error {
	if m.ws == nil {
		return ErrNotConnected
	}
	data, err := protocol.Encode(o)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, m.writeTimeout)
	defer cancel()
	if err := m.ws.Write(wctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("conn: write: %w", err)
	}
	return nil
}

// Teardown cancels the pending retry and closes the transport. The generation
// bump orphans any in-flight dial or read so late events are discarded.
func (m *Manager) Teardown() {
	m.cancelRetry()
	m.dropTransport(websocket.StatusNormalClosure, "bye")
	m.gen++
	m.state = StateDisconnected
}

func (m *Manager) cancelRetry() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

func (m *Manager) dropTransport(code websocket.StatusCode, reason string) {
	if m.ws != nil {
		ws := m.ws
		m.ws = nil
		go ws.Close(code, reason)
	}
}
