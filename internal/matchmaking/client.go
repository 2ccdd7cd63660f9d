// Package matchmaking tracks the client's place in the server-side queue and
// turns a match_found push into a fresh debate context.
package matchmaking

import (
	"go.uber.org/zap"

	"podium/internal/debate"
	"podium/internal/protocol"
)

type Client struct {
	log       *zap.Logger
	inQueue   bool
	queueSize int
}

func NewClient(log *zap.Logger) *Client {
	return &Client{log: log}
}

func (c *Client) InQueue() bool  { return c.inQueue }
func (c *Client) QueueSize() int { return c.queueSize }

func (c *Client) Join(userID int) protocol.JoinMatchmaking {
	c.inQueue = true
	return protocol.NewJoinMatchmaking(userID)
}

// Leave clears the local queue observation immediately; the server's
// queue_left ack is informational.
func (c *Client) Leave(userID int) protocol.LeaveMatchmaking {
	c.inQueue = false
	c.queueSize = 0
	return protocol.NewLeaveMatchmaking(userID)
}

func (c *Client) HandleQueueJoined(f *protocol.QueueJoined) int {
	c.inQueue = true
	c.queueSize = f.QueueStatus.QueueSize
	return c.queueSize
}

func (c *Client) HandleQueueLeft(*protocol.QueueLeft) {
	c.inQueue = false
	c.queueSize = 0
}

// HandleMatchFound leaves the queue and constructs the debate context. The
// server may resend match_found; a duplicate simply replaces the context
// (the returned state supersedes whatever the caller held).
func (c *Client) HandleMatchFound(f *protocol.MatchFound) debate.State {
	c.inQueue = false
	c.queueSize = 0
	c.log.Info("match found",
		zap.Int("debate_id", f.DebateID),
		zap.String("topic", f.Topic),
		zap.String("opponent", f.Opponent.Username),
		zap.Int("opponent_mmr", f.Opponent.MMR))
	return debate.NewState(f)
}
