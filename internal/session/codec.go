package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is how long a session remains valid after login, independent of the
// expiry of the Twitch access token it carries
const DefaultLifetime = 24 * time.Hour

var ErrMissingSecret = errors.New("session secret is not configured")
var ErrInvalidSession = errors.New("invalid session")

// Session identifies a logged-in user and carries the Twitch User Access Token that
// was granted to us on their behalf
type Session struct {
	UserID      string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type claims struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed session tokens
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{
		secret:   []byte(secret),
		lifetime: DefaultLifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a new session token for the given user
func (c *Codec) Issue(userID string, accessToken string) (string, *Session, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("%w: user ID is required", ErrInvalidSession)
	}
	issuedAt := c.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.lifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:      userID,
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, &Session{
		UserID:      userID,
		AccessToken: accessToken,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Verify checks the signature, algorithm, and expiry of a session token and returns
// the session it encodes. Any failure is reported as ErrInvalidSession.
func (c *Codec) Verify(token string) (*Session, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if parsed.UserID == "" {
		return nil, fmt.Errorf("%w: token has no user ID", ErrInvalidSession)
	}

	s := &Session{
		UserID:      parsed.UserID,
		AccessToken: parsed.AccessToken,
		ExpiresAt:   parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		s.IssuedAt = parsed.IssuedAt.Time
	}
	return s, nil
}
