package app

import (
	"podium/internal/auth"
	"podium/internal/conn"
	"podium/internal/debate"
	"podium/internal/protocol"
)

// Notifier is the narrow surface through which the loop requests UI updates.
// Rendering itself lives outside this module; cmd/podium implements a console
// printer, tests plug in recorders.
type Notifier interface {
	ConnectionState(conn.State)
	AuthSucceeded(auth.Identity)
	// TransientError surfaces an application-level failure; it never implies
	// state corruption or a dropped connection.
	TransientError(msg string)
	QueueUpdate(inQueue bool, size int)
	MatchFound(debate.State)
	StatusLine(string)
	PhaseChanged(debate.Phase)
	TimerUpdate(kind debate.Kind, display string, progress float64)
	InputEnabled(bool)
	TranscriptAppend(protocol.Message)
	DebateEnded(topic string, transcript []protocol.Message)
	AdminData(dataType string, rows []map[string]any)
	AdminItem(dataType string, item map[string]any)
	AdminAck(op string)
}

// NopNotifier discards everything.
type NopNotifier struct{}

func (NopNotifier) ConnectionState(conn.State)                      {}
func (NopNotifier) AuthSucceeded(auth.Identity)                     {}
func (NopNotifier) TransientError(string)                           {}
func (NopNotifier) QueueUpdate(bool, int)                           {}
func (NopNotifier) MatchFound(debate.State)                         {}
func (NopNotifier) StatusLine(string)                               {}
func (NopNotifier) PhaseChanged(debate.Phase)                       {}
func (NopNotifier) TimerUpdate(debate.Kind, string, float64)        {}
func (NopNotifier) InputEnabled(bool)                               {}
func (NopNotifier) TranscriptAppend(protocol.Message)               {}
func (NopNotifier) DebateEnded(string, []protocol.Message)          {}
func (NopNotifier) AdminData(string, []map[string]any)              {}
func (NopNotifier) AdminItem(string, map[string]any)                {}
func (NopNotifier) AdminAck(string)                                 {}
