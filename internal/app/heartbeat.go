package app

import (
	"context"
	"time"

	"podium/internal/debate"
	"podium/internal/protocol"
)

// Readiness heartbeat: ping_ready immediately on entering the waiting room,
// then on a fixed cadence until debate_started arrives or the debate flow is
// torn down.
const defaultHeartbeatInterval = 3 * time.Second

func (c *Client) startHeartbeat(ctx context.Context) {
	c.stopHeartbeat()
	c.sendPingReady(ctx)
	c.heartbeat = time.NewTicker(c.hbInterval)
	c.heartbeatC = c.heartbeat.C
}

func (c *Client) stopHeartbeat() {
	if c.heartbeat != nil {
		c.heartbeat.Stop()
		c.heartbeat = nil
	}
	// Nil channel: a tick already buffered at cancellation time can never be
	// received, so zero frames go out after debate_started is processed.
	c.heartbeatC = nil
}

// sendPingReady no-ops without an identity and debate context; a stray tick
// after teardown must not error or send against a dead session.
func (c *Client) sendPingReady(ctx context.Context) {
	id := c.session.Identity
	d := c.session.Debate
	if id == nil || d == nil {
		return
	}
	if d.Phase != debate.PhaseWaitingOpponent {
		return
	}
	c.send(ctx, protocol.NewPingReady(id.ID, d.DebateID))
}
