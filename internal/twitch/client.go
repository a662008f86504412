package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nicklaw5/helix/v2"
	"github.com/rs/zerolog"
)

const DefaultApiBaseUrl = helix.DefaultAPIBaseURL
const DefaultTimeout = 10 * time.Second

// Client makes requests to the Twitch Helix API on behalf of a logged-in user, using
// the User Access Token from their session
type Client struct {
	baseUrl    string
	clientId   string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(clientId string, baseUrl string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseUrl == "" {
		baseUrl = DefaultApiBaseUrl
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseUrl:  strings.TrimSuffix(baseUrl, "/"),
		clientId: clientId,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// helixFunc makes a single helix request, returning the common portion of its response
type helixFunc func(h *helix.Client) (*helix.ResponseCommon, error)

// call makes a request to Twitch as the user who owns accessToken. method and endpoint
// identify the request in errors and logs.
func (c *Client) call(ctx context.Context, accessToken string, method string, endpoint string, fn helixFunc) error {
	return c.do(ctx, &helix.Options{UserAccessToken: accessToken}, method, endpoint, fn)
}

// do is the only code path that sends requests to Twitch. A fresh helix client is
// built for every request so that the caller's context and credentials are never
// shared, and any non-2xx response is returned as an *UpstreamError. helix's own
// token refresh and rate-limit retries stay disabled: no refresh token or
// RateLimitFunc is ever supplied.
func (c *Client) do(ctx context.Context, opts *helix.Options, method string, endpoint string, fn helixFunc) error {
	ex := &exchange{client: c.httpClient}
	opts.ClientID = c.clientId
	opts.APIBaseURL = c.baseUrl
	opts.HTTPClient = ex

	h, err := helix.NewClientWithContext(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize Twitch API client: %w", err)
	}

	common, err := fn(h)
	if ex.status != 0 {
		return c.newUpstreamError(ex, common, method, endpoint)
	}
	if err != nil {
		return fmt.Errorf("Twitch API %s %s request failed: %w", method, endpoint, err)
	}
	return nil
}

// exchange is the helix.HTTPClient for a single request: it records the status and
// raw body of any non-2xx response, which helix would otherwise discard
type exchange struct {
	client *http.Client
	status int
	body   []byte
}

func (e *exchange) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return res, nil
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, err
	}
	e.status = res.StatusCode
	e.body = body
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}

// newUpstreamError prefers the message helix decoded from the response, then whatever
// can be parsed from the raw body
func (c *Client) newUpstreamError(ex *exchange, common *helix.ResponseCommon, method string, endpoint string) *UpstreamError {
	if common == nil || (common.ErrorMessage == "" && common.Error == "") {
		common = &helix.ResponseCommon{}
		json.Unmarshal(ex.body, common)
	}
	message := common.ErrorMessage
	if message == "" {
		message = common.Error
	}
	if message == "" {
		message = fmt.Sprintf("Twitch API request failed with status %d and unparseable body.", ex.status)
	}

	upstreamErr := &UpstreamError{
		Status:   ex.status,
		Message:  message,
		RawBody:  string(ex.body),
		Method:   method,
		Endpoint: endpoint,
	}
	c.logger.Error().
		Int("status", upstreamErr.Status).
		Str("method", method).
		Str("endpoint", endpoint).
		Str("body", upstreamErr.RawBody).
		Msg("Twitch API request failed")
	switch ex.status {
	case http.StatusUnauthorized:
		c.logger.Warn().
			Str("endpoint", endpoint).
			Msg("Twitch rejected the access token; it may be expired, missing a required scope, or belong to a different user than the request requires")
	case http.StatusForbidden:
		c.logger.Warn().
			Str("endpoint", endpoint).
			Msg("Twitch accepted the access token but the user is not permitted to perform this action")
	}
	return upstreamErr
}
