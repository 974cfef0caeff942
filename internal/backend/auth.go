package backend

import (
	"context"
	"encoding/json"
)

// LoginResult is the core API's answer to a successful login.
type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.PostJSON(ctx, "", "/login", payload, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

// Logout invalidates the bearer token upstream. Best-effort: the session is
// destroyed locally regardless of the result.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.PostJSON(ctx, token, "/logout", nil, nil)
}
