// Package auth implements the authentication and account-creation handshake.
//
// The wire protocol carries no request correlation IDs, so at most one
// outstanding request of a kind is meaningful. Issuing a second request before
// the response arrives is permitted; the session simply accepts whichever
// response comes back (latest-response-wins). This is a known limitation of
// the server contract, not something the client can fix locally.
package auth

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"podium/internal/protocol"
)

var ErrMissingFields = errors.New("auth: all fields are required")
var ErrPasswordMismatch = errors.New("auth: passwords do not match")
var ErrRejected = errors.New("auth: rejected")

type Status string

const (
	StatusIdle          Status = "idle"
	StatusAwaiting      Status = "awaiting_response"
	StatusAuthenticated Status = "authenticated"
	StatusFailed        Status = "failed"
)

// Identity is created on successful authentication and immutable for the
// session. It survives page loads through the local store and is destroyed on
// logout.
type Identity struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	MMR       int    `json:"mmr"`
	UserClass int    `json:"user_class"`
}

// Admin reports an elevated access tier (user class 0 is a regular user).
func (i Identity) Admin() bool { return i.UserClass > 0 }

type Session struct {
	log      *zap.Logger
	status   Status
	identity *Identity
}

func NewSession(log *zap.Logger) *Session {
	return &Session{log: log, status: StatusIdle}
}

func (s *Session) Status() Status      { return s.status }
func (s *Session) Identity() *Identity { return s.identity }

// Restore seeds the session from a persisted identity, e.g. on startup.
func (s *Session) Restore(id Identity) {
	s.identity = &id
	s.status = StatusAuthenticated
}

// Authenticate builds the authenticate frame. Empty credentials fail locally
// without contacting the server.
func (s *Session) Authenticate(username, password string) (protocol.Authenticate, error) {
	if username == "" || password == "" {
		return protocol.Authenticate{}, ErrMissingFields
	}
	if s.status == StatusAwaiting {
		s.log.Warn("auth request while one is outstanding; responses are uncorrelated")
	}
	s.status = StatusAwaiting
	return protocol.NewAuthenticate(username, password), nil
}

// CreateAccount builds the create_account frame. Both password fields must
// match and all fields must be non-empty, else it fails locally.
func (s *Session) CreateAccount(username, password, confirm string) (protocol.CreateAccount, error) {
	if username == "" || password == "" || confirm == "" {
		return protocol.CreateAccount{}, ErrMissingFields
	}
	if password != confirm {
		return protocol.CreateAccount{}, ErrPasswordMismatch
	}
	s.status = StatusAwaiting
	return protocol.NewCreateAccount(username, password), nil
}

// HandleAuthResponse consumes the server's verdict. On success the identity
// is stored and returned; on failure the server-provided error surfaces and
// the session drops back to failed.
func (s *Session) HandleAuthResponse(f *protocol.AuthResponse) (*Identity, error) {
	if !f.Success {
		s.status = StatusFailed
		s.identity = nil
		return nil, fmt.Errorf("%w: %s", ErrRejected, f.Error)
	}
	s.identity = &Identity{
		ID:        f.UserID,
		Username:  f.Username,
		MMR:       f.MMR,
		UserClass: f.UserClass,
	}
	s.status = StatusAuthenticated
	s.log.Info("authenticated", zap.Int("user_id", f.UserID), zap.String("username", f.Username))
	return s.identity, nil
}

func (s *Session) HandleAccountCreation(f *protocol.AccountCreationResponse) error {
	if !f.Success {
		s.status = StatusFailed
		return fmt.Errorf("%w: %s", ErrRejected, f.Error)
	}
	// Account exists but the user still authenticates explicitly.
	s.status = StatusIdle
	return nil
}

func (s *Session) Logout() {
	s.identity = nil
	s.status = StatusIdle
}
