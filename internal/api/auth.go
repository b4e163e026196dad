package api

import (
	"context"
	"net/http"

	"upi-cli/internal/model"
)

// Me fetches the current cookie-authenticated identity. The endpoint wraps
// its payload in {result: ...} rather than the usual {data: ...}.
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var id model.Identity
	if err := c.getJSON(ctx, "/auth/me", &id, "not logged in"); err != nil {
		return nil, err
	}
	return &id, nil
}

// Logout ends the server session and drops the local cookie file.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, "failed to log out"); err != nil {
		return err
	}
	return c.ClearCookies()
}
