package twitch

import (
	"context"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

// GetUser returns the user who owns the given access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var users []helix.User
	err := c.call(ctx, accessToken, http.MethodGet, "/users", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetUsers(&helix.UsersParams{})
		if err != nil {
			return nil, err
		}
		users = r.Data.Users
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	user, err := first(users)
	if err != nil {
		return nil, err
	}
	return fromHelixUser(user), nil
}

// GetUserByLogin looks up a user by their login name, returning nil (with no error)
// if no such user exists
func (c *Client) GetUserByLogin(ctx context.Context, accessToken string, login string) (*User, error) {
	var users []helix.User
	err := c.call(ctx, accessToken, http.MethodGet, "/users", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetUsers(&helix.UsersParams{Logins: []string{login}})
		if err != nil {
			return nil, err
		}
		users = r.Data.Users
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return fromHelixUser(&users[0]), nil
}
