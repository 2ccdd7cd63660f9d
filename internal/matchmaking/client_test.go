package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"podium/internal/debate"
	"podium/internal/protocol"
)

func TestJoinAndQueueJoined(t *testing.T) {
	c := NewClient(zaptest.NewLogger(t))

	fr := c.Join(7)
	assert.Equal(t, "join_matchmaking", fr.Type)
	assert.Equal(t, 7, fr.UserID)
	assert.True(t, c.InQueue())

	size := c.HandleQueueJoined(&protocol.QueueJoined{QueueStatus: protocol.QueueStatus{QueueSize: 3}})
	assert.Equal(t, 3, size)
	assert.Equal(t, 3, c.QueueSize())
}

func TestLeaveClearsObservation(t *testing.T) {
	c := NewClient(zaptest.NewLogger(t))
	c.Join(7)
	c.HandleQueueJoined(&protocol.QueueJoined{QueueStatus: protocol.QueueStatus{QueueSize: 2}})

	fr := c.Leave(7)
	assert.Equal(t, "leave_matchmaking", fr.Type)
	assert.False(t, c.InQueue())
	assert.Equal(t, 0, c.QueueSize())
}

func TestMatchFoundBuildsContext(t *testing.T) {
	c := NewClient(zaptest.NewLogger(t))
	c.Join(7)

	st := c.HandleMatchFound(&protocol.MatchFound{
		DebateID: 42, Topic: "T",
		Opponent: protocol.Opponent{ID: 9, Username: "bob", MMR: 1490},
	})
	assert.Equal(t, 42, st.DebateID)
	assert.Equal(t, "T", st.Topic)
	assert.Equal(t, debate.PhaseIdle, st.Phase)
	assert.Equal(t, "bob", st.Opponent.Username)
	assert.False(t, c.InQueue(), "match removes us from the queue")
}

// The server may resend match_found; the replacement context simply wins.
func TestDuplicateMatchFoundReplaces(t *testing.T) {
	c := NewClient(zaptest.NewLogger(t))
	first := c.HandleMatchFound(&protocol.MatchFound{DebateID: 42, Topic: "A"})
	second := c.HandleMatchFound(&protocol.MatchFound{DebateID: 43, Topic: "B"})

	assert.Equal(t, 42, first.DebateID)
	assert.Equal(t, 43, second.DebateID)
	assert.Equal(t, "B", second.Topic)
}
