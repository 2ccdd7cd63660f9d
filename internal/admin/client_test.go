package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
	"podium/internal/protocol"
)

func TestPrivilegeCheck(t *testing.T) {
	c := NewClient()
	regular := &auth.Identity{ID: 9, Username: "bob", UserClass: 0}
	elevated := &auth.Identity{ID: 7, Username: "alice", UserClass: 1}

	_, err := c.GetData(nil, "users")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = c.GetData(regular, "users")
	assert.ErrorIs(t, err, ErrNotAdmin)

	fr, err := c.GetData(elevated, "users")
	require.NoError(t, err)
	assert.Equal(t, "admin_get_data", fr.Type)
	assert.Equal(t, 7, fr.UserID)
	assert.Equal(t, "users", fr.DataType)

	_, err = c.DeleteItem(nil, "users", 3)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.UpdateItem(regular, "users", map[string]any{"mmr": 1200})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestHandleDataResponse(t *testing.T) {
	c := NewClient()

	rows, err := c.HandleDataResponse(&protocol.AdminDataResponse{
		Success: true, DataType: "users",
		Data: []map[string]any{{"id": 1, "username": "alice"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["username"])

	_, err = c.HandleDataResponse(&protocol.AdminDataResponse{Success: false, Error: "Admin privileges required"})
	assert.ErrorIs(t, err, ErrDenied)
}

func TestHandleItemResponse(t *testing.T) {
	c := NewClient()

	item, err := c.HandleItemResponse(&protocol.AdminItemResponse{
		Success: true, DataType: "users", Item: map[string]any{"id": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, item["id"])

	_, err = c.HandleItemResponse(&protocol.AdminItemResponse{Success: false, Error: "Item not found"})
	assert.ErrorIs(t, err, ErrDenied)
}
