package session

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const CookieName = "session"

// Manager stores sessions in an httponly cookie on the user's browser
type Manager struct {
	codec  *Codec
	secure bool
	logger zerolog.Logger
}

// NewManager returns a Manager that issues cookies via the given codec; secure should
// be true in production so that the cookie is never sent over plain HTTP
func NewManager(codec *Codec, secure bool, logger zerolog.Logger) *Manager {
	return &Manager{
		codec:  codec,
		secure: secure,
		logger: logger,
	}
}

// Establish issues a new session for the given user and writes it to the response as
// a cookie
func (m *Manager) Establish(res http.ResponseWriter, userID string, accessToken string) (*Session, error) {
	token, s, err := m.codec.Issue(userID, accessToken)
	if err != nil {
		return nil, err
	}
	http.SetCookie(res, m.cookie(token, s.ExpiresAt))
	return s, nil
}

// Load returns the session carried by the request, or nil if there is none. A cookie
// that fails verification is deleted from the browser.
func (m *Manager) Load(res http.ResponseWriter, req *http.Request) *Session {
	c, err := req.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	s, err := m.codec.Verify(c.Value)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Discarding invalid session cookie")
		m.Clear(res)
		return nil
	}
	return s
}

// Clear expires the session cookie
func (m *Manager) Clear(res http.ResponseWriter) {
	c := m.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(res, c)
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
