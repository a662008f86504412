package twitch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"
)

// appTokenRenewalMargin is how long before expiry a cached App Access Token is
// replaced
const appTokenRenewalMargin = 5 * time.Minute

// AppTokenSource obtains App Access Tokens using our client credentials, reusing each
// token until shortly before Twitch says it will expire
type AppTokenSource struct {
	client       *Client
	clientSecret string
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAppTokenSource shares the client's HTTP timeout and error handling
func (c *Client) NewAppTokenSource(clientSecret string) *AppTokenSource {
	return &AppTokenSource{
		client:       c,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	var credentials helix.AccessCredentials
	opts := &helix.Options{ClientSecret: s.clientSecret}
	err := s.client.do(ctx, opts, http.MethodPost, "/oauth2/token", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.RequestAppAccessToken(nil)
		if err != nil {
			return nil, err
		}
		credentials = r.Data
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return "", err
	}
	if credentials.AccessToken == "" {
		return "", ErrEmptyResponse
	}

	s.token = credentials.AccessToken
	s.expiresAt = s.now().Add(time.Duration(credentials.ExpiresIn)*time.Second - appTokenRenewalMargin)
	return s.token, nil
}

// Ping verifies that Twitch accepts our client ID and secret
func (s *AppTokenSource) Ping(ctx context.Context) error {
	_, err := s.Token(ctx)
	return err
}
