package main

import (
	"fmt"

	"podium/internal/auth"
	"podium/internal/conn"
	"podium/internal/debate"
	"podium/internal/protocol"
)

// consoleNotifier is the minimal rendering collaborator: it prints loop
// effects to stdout. Real presentation lives outside this repo.
type consoleNotifier struct{}

func (consoleNotifier) ConnectionState(s conn.State) {
	fmt.Printf("[conn] %s\n", s)
}

func (consoleNotifier) AuthSucceeded(id auth.Identity) {
	fmt.Printf("logged in as %s (mmr %d)\n", id.Username, id.MMR)
}

func (consoleNotifier) TransientError(msg string) {
	fmt.Printf("! %s\n", msg)
}

func (consoleNotifier) QueueUpdate(inQueue bool, size int) {
	if inQueue {
		fmt.Printf("searching for opponent... (%d in queue)\n", size)
	} else {
		fmt.Println("left the queue")
	}
}

func (consoleNotifier) MatchFound(st debate.State) {
	fmt.Printf("match found! debate %d vs %s (mmr %d)\n  topic: %s\n",
		st.DebateID, st.Opponent.Username, st.Opponent.MMR, st.Topic)
}

func (consoleNotifier) StatusLine(s string) {
	fmt.Printf("[status] %s\n", s)
}

func (consoleNotifier) PhaseChanged(p debate.Phase) {
	fmt.Printf("[phase] %s\n", p)
}

func (consoleNotifier) TimerUpdate(kind debate.Kind, display string, progress float64) {
	fmt.Printf("\r[%s] %s (%3.0f%%)", kind, display, progress*100)
	if progress >= 1 {
		fmt.Println()
	}
}

func (consoleNotifier) InputEnabled(on bool) {
	if on {
		fmt.Println("\nyour turn - type: say <argument>")
	} else {
		fmt.Println("\nwaiting...")
	}
}

func (consoleNotifier) TranscriptAppend(m protocol.Message) {
	fmt.Printf("\n[turn %d] %s: %s\n", m.TurnNumber, m.SenderUsername, m.Content)
}

func (consoleNotifier) DebateEnded(topic string, transcript []protocol.Message) {
	fmt.Printf("\ndebate over: %s (%d arguments)\n", topic, len(transcript))
}

func (consoleNotifier) AdminData(dataType string, rows []map[string]any) {
	fmt.Printf("%s (%d rows)\n", dataType, len(rows))
	for _, r := range rows {
		fmt.Printf("  %v\n", r)
	}
}

func (consoleNotifier) AdminItem(dataType string, item map[string]any) {
	fmt.Printf("%s: %v\n", dataType, item)
}

func (consoleNotifier) AdminAck(op string) {
	fmt.Printf("admin %s ok\n", op)
}
