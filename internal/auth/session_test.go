package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"podium/internal/protocol"
)

func TestAuthenticateSuccess(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))

	fr, err := s.Authenticate("alice", "x")
	require.NoError(t, err)
	assert.Equal(t, "authenticate", fr.Type)
	assert.Equal(t, StatusAwaiting, s.Status())

	id, err := s.HandleAuthResponse(&protocol.AuthResponse{
		Success: true, UserID: 7, Username: "alice", MMR: 1500, UserClass: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, s.Status())
	assert.Equal(t, 7, id.ID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, 1500, id.MMR)
	assert.False(t, id.Admin())
}

func TestAuthenticateRejected(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))
	_, err := s.Authenticate("alice", "wrong")
	require.NoError(t, err)

	id, err := s.HandleAuthResponse(&protocol.AuthResponse{Success: false, Error: "Invalid username or password"})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid username or password")
	assert.Nil(t, id)
	assert.Equal(t, StatusFailed, s.Status())
	assert.Nil(t, s.Identity())
}

func TestAuthenticateLocalValidation(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))
	_, err := s.Authenticate("", "x")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = s.Authenticate("alice", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, StatusIdle, s.Status(), "failed local validation must not contact the server")
}

func TestCreateAccountLocalPreconditions(t *testing.T) {
	cases := []struct {
		name                        string
		username, password, confirm string
		wantErr                     error
	}{
		{"empty username", "", "secret", "secret", ErrMissingFields},
		{"empty confirm", "alice", "secret", "", ErrMissingFields},
		{"mismatch", "alice", "secret", "secrte", ErrPasswordMismatch},
		{"valid", "alice", "secret", "secret", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(zaptest.NewLogger(t))
			fr, err := s.CreateAccount(tc.username, tc.password, tc.confirm)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "create_account", fr.Type)
		})
	}
}

// The wire protocol has no request correlation IDs: a second request before a
// response is permitted, and whichever response arrives settles the session.
func TestStaleResponseTolerated(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))
	_, err := s.Authenticate("alice", "x")
	require.NoError(t, err)
	_, err = s.Authenticate("alice", "y")
	require.NoError(t, err)

	id, err := s.HandleAuthResponse(&protocol.AuthResponse{Success: true, UserID: 7, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 7, id.ID)
	assert.Equal(t, StatusAuthenticated, s.Status())
}

func TestLogoutDestroysIdentity(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))
	s.Restore(Identity{ID: 7, Username: "alice"})
	require.NotNil(t, s.Identity())

	s.Logout()
	assert.Nil(t, s.Identity())
	assert.Equal(t, StatusIdle, s.Status())
}
