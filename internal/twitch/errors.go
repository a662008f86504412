package twitch

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse is returned when Twitch reports success but returns no data for a
// request that should yield exactly one result
var ErrEmptyResponse = errors.New("Twitch API returned no data")

// UpstreamError describes a non-2xx response from the Twitch API. It is constructed
// exactly once, in Client.do, and passed through unmodified so that callers can
// relay Twitch's own status and message to the browser.
type UpstreamError struct {
	Status   int
	Message  string
	RawBody  string
	Method   string
	Endpoint string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Twitch API %s %s failed with status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// IsAuthFailure indicates that the access token was rejected or lacks permission
func (e *UpstreamError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func (e *UpstreamError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

func (e *UpstreamError) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// IsTransient indicates a failure that may succeed if the user tries again later
func (e *UpstreamError) IsTransient() bool {
	return e.IsRateLimited() || e.Status >= 500
}

// IsValidation indicates that Twitch rejected the request itself
func (e *UpstreamError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500 && !e.IsAuthFailure() && !e.IsNotFound() && !e.IsRateLimited()
}

// AsUpstreamError returns the UpstreamError in err's chain, if any
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
