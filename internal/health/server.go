package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Status struct {
	IsReady bool   `json:"isReady"`
	Message string `json:"message"`
}

type CheckFunc func(ctx context.Context) error

// Pinger is satisfied by any backing service that can report whether it's reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	checkTwitch     CheckFunc
	checkStateStore CheckFunc
	timeout         time.Duration
}

// NewServer returns a health check that verifies our Twitch app credentials and, if
// non-nil, connectivity to the OAuth state store
func NewServer(twitchApp Pinger, stateStore Pinger) *Server {
	s := &Server{
		checkTwitch: twitchApp.Ping,
		timeout:     10 * time.Second,
	}
	if stateStore != nil {
		s.checkStateStore = stateStore.Ping
	}
	return s
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), s.timeout)
	defer cancel()

	status := s.resolveStatus(ctx)
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(status); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) resolveStatus(ctx context.Context) Status {
	if err := s.checkTwitch(ctx); err != nil {
		return Status{
			IsReady: false,
			Message: fmt.Sprintf("Unable to authenticate with the Twitch API; check TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET. (Error: %s)", err),
		}
	}

	if s.checkStateStore != nil {
		if err := s.checkStateStore(ctx); err != nil {
			return Status{
				IsReady: false,
				Message: fmt.Sprintf("Twitch API credentials are valid, but the login state store is unreachable, so users cannot log in. (Error: %s)", err),
			}
		}
	}

	return Status{
		IsReady: true,
		Message: "Twitch API credentials are valid. The dashboard is fully operational!",
	}
}
