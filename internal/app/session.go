package app

import (
	"podium/internal/auth"
	"podium/internal/debate"
)

// Session is the explicitly owned application context: the authenticated
// identity and the active debate state, passed by reference to the handlers
// that need them. There are no ambient globals; only the loop goroutine
// mutates it.
type Session struct {
	Identity *auth.Identity
	Debate   *debate.State
}
