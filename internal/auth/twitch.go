package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

var ErrFailedToInitializeTwitchClient = errors.New("failed to initialize twitch client")
var ErrTwitchReturnedUnauthorized = errors.New("got 401 response from Twitch API")

// ExchangeResult holds the credentials granted to us when a user completes the OAuth
// authorization code flow. The refresh token is not used: when a token expires, the
// user logs in again.
type ExchangeResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scopes       []string
	ExpiresIn    int
}

// TokenExchanger trades an authorization code for a User Access Token
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string, redirectUri string) (*ExchangeResult, error)
}

func NewTokenExchanger(clientId string, clientSecret string) TokenExchanger {
	return &helixTokenExchanger{
		clientId:     clientId,
		clientSecret: clientSecret,
		httpClient:   http.DefaultClient,
	}
}

type helixTokenExchanger struct {
	clientId     string
	clientSecret string
	httpClient   helix.HTTPClient
}

func (t *helixTokenExchanger) ExchangeCode(ctx context.Context, code string, redirectUri string) (*ExchangeResult, error) {
	recorder := &tokenTypeRecorder{client: t.httpClient}
	client, err := helix.NewClientWithContext(ctx, &helix.Options{
		ClientID:     t.clientId,
		ClientSecret: t.clientSecret,
		RedirectURI:  redirectUri,
		HTTPClient:   recorder,
	})
	if err != nil {
		return nil, ErrFailedToInitializeTwitchClient
	}

	r, err := client.RequestUserAccessToken(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get user access token: %w", err)
	}
	if r.StatusCode != http.StatusOK {
		if r.StatusCode == http.StatusUnauthorized {
			return nil, ErrTwitchReturnedUnauthorized
		}
		return nil, fmt.Errorf("Twitch token exchange failed with status %d: %s", r.StatusCode, r.ErrorMessage)
	}
	return &ExchangeResult{
		AccessToken:  r.Data.AccessToken,
		RefreshToken: r.Data.RefreshToken,
		TokenType:    recorder.tokenType,
		Scopes:       r.Data.Scopes,
		ExpiresIn:    r.Data.ExpiresIn,
	}, nil
}

// tokenTypeRecorder reads token_type from a successful token response, since helix
// does not include it in AccessCredentials
type tokenTypeRecorder struct {
	client    helix.HTTPClient
	tokenType string
}

func (r *tokenTypeRecorder) Do(req *http.Request) (*http.Response, error) {
	res, err := r.client.Do(req)
	if err != nil || res.StatusCode != http.StatusOK {
		return res, err
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, err
	}
	var fields struct {
		TokenType string `json:"token_type"`
	}
	if json.Unmarshal(body, &fields) == nil {
		r.tokenType = fields.TokenType
	}
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}

var _ TokenExchanger = (*helixTokenExchanger)(nil)
