package session

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const contextKeySession contextKey = "session"

// Require rejects requests that do not carry a valid session with a 401, and otherwise
// makes the session available to downstream handlers via GetSession
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		s := m.Load(res, req)
		if s == nil {
			res.Header().Set("content-type", "application/json")
			res.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(res).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(res, req.WithContext(WithSession(req.Context(), s)))
	})
}

// WithSession returns a copy of ctx carrying the given session
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, s)
}

// GetSession returns the session attached by Require, or nil
func GetSession(ctx context.Context) *Session {
	s, ok := ctx.Value(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return s
}
