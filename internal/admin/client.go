// Package admin builds the one-shot admin CRUD frames. These are plain
// request/response pairs with no state machine; the only client-side logic is
// the local privilege check so a regular user's panel never hits the server.
package admin

import (
	"errors"
	"fmt"

	"podium/internal/auth"
	"podium/internal/protocol"
)

var ErrNotAuthenticated = errors.New("admin: log in first")
var ErrNotAdmin = errors.New("admin: elevated user class required")
var ErrDenied = errors.New("admin: operation denied")

type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) check(id *auth.Identity) error {
	if id == nil {
		return ErrNotAuthenticated
	}
	if !id.Admin() {
		return ErrNotAdmin
	}
	return nil
}

func (c *Client) GetData(id *auth.Identity, dataType string) (protocol.AdminGetData, error) {
	if err := c.check(id); err != nil {
		return protocol.AdminGetData{}, err
	}
	return protocol.NewAdminGetData(id.ID, dataType), nil
}

func (c *Client) GetItem(id *auth.Identity, dataType string, itemID int) (protocol.AdminGetItem, error) {
	if err := c.check(id); err != nil {
		return protocol.AdminGetItem{}, err
	}
	return protocol.NewAdminGetItem(id.ID, dataType, itemID), nil
}

func (c *Client) UpdateItem(id *auth.Identity, dataType string, itemData map[string]any) (protocol.AdminUpdateItem, error) {
	if err := c.check(id); err != nil {
		return protocol.AdminUpdateItem{}, err
	}
	return protocol.NewAdminUpdateItem(id.ID, dataType, itemData), nil
}

func (c *Client) DeleteItem(id *auth.Identity, dataType string, itemID int) (protocol.AdminDeleteItem, error) {
	if err := c.check(id); err != nil {
		return protocol.AdminDeleteItem{}, err
	}
	return protocol.NewAdminDeleteItem(id.ID, dataType, itemID), nil
}

// HandleDataResponse unwraps an admin_data_response into rows or a denial.
func (c *Client) HandleDataResponse(f *protocol.AdminDataResponse) ([]map[string]any, error) {
	if !f.Success {
		return nil, fmt.Errorf("%w: %s", ErrDenied, f.Error)
	}
	return f.Data, nil
}

func (c *Client) HandleItemResponse(f *protocol.AdminItemResponse) (map[string]any, error) {
	if !f.Success {
		return nil, fmt.Errorf("%w: %s", ErrDenied, f.Error)
	}
	return f.Item, nil
}
