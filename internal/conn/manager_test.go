package conn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"podium/internal/protocol"
)

func recvEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connection event")
		return nil
	}
}

// wsURL rewrites an httptest server URL to the ws scheme.
func wsURL(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialOpenAndReceive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_ = ws.Write(r.Context(), websocket.MessageText, []byte(`{"type":"pong"}`))
		// Hold the connection until the client walks away.
		_, _, _ = ws.Read(r.Context())
		ws.Close(websocket.StatusNormalClosure, "")
	}))
	defer srv.Close()

	events := make(chan Event, 16)
	m := NewManager(wsURL(t, srv), ReconnectPolicy{MaxAttempts: 3, Delay: time.Second}, events, zaptest.NewLogger(t))

	require.NoError(t, m.Open(context.Background()))
	assert.Equal(t, StateConnecting, m.State())

	opened, ok := recvEvent(t, events).(Opened)
	require.True(t, ok, "first event should be Opened")
	require.True(t, m.HandleOpened(opened))
	assert.Equal(t, StateConnected, m.State())
	assert.Equal(t, 0, m.Attempt())

	fr, ok := recvEvent(t, events).(FrameReceived)
	require.True(t, ok, "second event should be FrameReceived")
	assert.True(t, m.Live(fr.Gen))
	assert.JSONEq(t, `{"type":"pong"}`, string(fr.Data))

	require.NoError(t, m.Send(context.Background(), protocol.NewPingReady(7, 42)))

	m.Teardown()
	assert.Equal(t, StateDisconnected, m.State())
	assert.False(t, m.Live(fr.Gen), "teardown orphans the old generation")
}

func TestBoundedReconnectEndsLost(t *testing.T) {
	// Reject every upgrade so each attempt fails at dial time.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	events := make(chan Event, 16)
	m := NewManager(wsURL(t, srv), ReconnectPolicy{MaxAttempts: 3, Delay: 5 * time.Millisecond}, events, zaptest.NewLogger(t))

	require.NoError(t, m.Open(context.Background()))

	retries := 0
	for m.State() != StateLost {
		switch ev := recvEvent(t, events).(type) {
		case Closed:
			m.HandleClosed(ev)
		case RetryElapsed:
			retries++
			m.HandleRetry(context.Background(), ev)
		default:
			t.Fatalf("unexpected event %T", ev)
		}
	}

	assert.Equal(t, 3, m.Attempt())
	assert.Equal(t, 2, retries, "max attempts 3 means two scheduled retries")

	// Terminal: nothing else may be scheduled.
	select {
	case ev := <-events:
		t.Fatalf("event after terminal state: %T", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSuccessfulOpenResetsAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_, _, _ = ws.Read(r.Context())
	}))
	defer srv.Close()

	events := make(chan Event, 16)
	m := NewManager(wsURL(t, srv), ReconnectPolicy{Attempt: 2, MaxAttempts: 5, Delay: time.Second}, events, zaptest.NewLogger(t))

	require.NoError(t, m.Open(context.Background()))
	opened, ok := recvEvent(t, events).(Opened)
	require.True(t, ok)
	require.True(t, m.HandleOpened(opened))
	assert.Equal(t, 0, m.Attempt())
	m.Teardown()
}

func TestSendBeforeOpen(t *testing.T) {
	events := make(chan Event, 1)
	m := NewManager("ws://127.0.0.1:1/ws", ReconnectPolicy{MaxAttempts: 1, Delay: time.Second}, events, zaptest.NewLogger(t))

	err := m.Send(context.Background(), protocol.NewPingReady(7, 42))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestOpenRejectsNonWebsocketURL(t *testing.T) {
	events := make(chan Event, 1)
	m := NewManager("http://example.com/ws", ReconnectPolicy{MaxAttempts: 3, Delay: time.Second}, events, zaptest.NewLogger(t))

	err := m.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, m.State())

	select {
	case ev := <-events:
		t.Fatalf("construction failure must not schedule work, got %T", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStaleClosedIgnored(t *testing.T) {
	events := make(chan Event, 1)
	m := NewManager("ws://127.0.0.1:1/ws", ReconnectPolicy{MaxAttempts: 3, Delay: time.Second}, events, zaptest.NewLogger(t))

	got := m.HandleClosed(Closed{Gen: 99})
	assert.Equal(t, StateDisconnected, got)
	assert.Equal(t, 0, m.Attempt())
}
