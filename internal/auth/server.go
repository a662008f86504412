package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	oauth2twitch "golang.org/x/oauth2/twitch"
)

const StateCookieName = "oauth_state"

// Scopes lists every permission the dashboard needs. Twitch is asked to force
// re-consent on each login, so users see changes to this list immediately.
var Scopes = []string{
	"user:read:follows",
	"user:read:email",
	"moderation:read",
	"user:read:moderated_channels",
	"channel:moderate",
	"moderator:manage:banned_users",
	"moderator:manage:chat_messages",
	"moderator:read:chat_settings",
	"moderator:manage:chat_settings",
	"user:manage:whispers",
	"moderator:read:chatters",
	"channel:manage:polls",
	"channel:manage:predictions",
}

// UserGetter resolves the user who owns an access token
type UserGetter interface {
	GetUser(ctx context.Context, accessToken string) (*twitch.User, error)
}

type Server struct {
	baseUrl     string
	redirectUri string
	oauth       *oauth2.Config
	exchanger   TokenExchanger
	users       UserGetter
	sessions    *session.Manager
	states      StateStore
	secure      bool
	logger      zerolog.Logger
}

// NewServer initializes the login flow for the app served at baseUrl. states is
// optional: without it, the state parameter is verified against a browser cookie only.
func NewServer(baseUrl string, clientId string, exchanger TokenExchanger, users UserGetter, sessions *session.Manager, states StateStore, secure bool, logger zerolog.Logger) *Server {
	baseUrl = strings.TrimSuffix(baseUrl, "/")
	redirectUri := ""
	if baseUrl != "" {
		redirectUri = baseUrl + "/auth/callback"
	}
	return &Server{
		baseUrl:     baseUrl,
		redirectUri: redirectUri,
		oauth: &oauth2.Config{
			ClientID:    clientId,
			Endpoint:    oauth2twitch.Endpoint,
			RedirectURL: redirectUri,
			Scopes:      Scopes,
		},
		exchanger: exchanger,
		users:     users,
		sessions:  sessions,
		states:    states,
		secure:    secure,
		logger:    logger,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/auth/login").Methods("GET").HandlerFunc(s.handleLogin)
	r.Path("/auth/callback").Methods("GET").HandlerFunc(s.handleCallback)
	r.Path("/auth/logout").Methods("POST").HandlerFunc(s.handleLogout)
}

// handleLogin sends the user to Twitch to approve our app
func (s *Server) handleLogin(res http.ResponseWriter, req *http.Request) {
	if s.baseUrl == "" {
		s.redirectWithError(res, req, "Application configuration error: Missing base URL.")
		return
	}

	state, err := generateState()
	if err == nil && s.states != nil {
		err = s.states.Save(req.Context(), state, StateLifetime)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to begin login")
		s.redirectWithError(res, req, "Unable to start Twitch login. Please try again.")
		return
	}

	http.SetCookie(res, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(StateLifetime.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	authUrl := s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("force_verify", "true"))
	http.Redirect(res, req, authUrl, http.StatusTemporaryRedirect)
}

// handleCallback completes the login after Twitch redirects the user back to us
func (s *Server) handleCallback(res http.ResponseWriter, req *http.Request) {
	expectedState := ""
	if c, err := req.Cookie(StateCookieName); err == nil {
		expectedState = c.Value
	}
	s.clearStateCookie(res)

	if s.baseUrl == "" {
		s.logger.Error().Msg("Login callback received, but no base URL is configured")
		s.redirectWithError(res, req, "Application configuration error: Missing base URL.")
		return
	}

	q := req.URL.Query()
	if errorCode := q.Get("error"); errorCode != "" {
		description := q.Get("error_description")
		s.logger.Warn().Str("error", errorCode).Str("description", description).Msg("Twitch OAuth error")
		if errorCode == "redirect_mismatch" {
			s.redirectWithError(res, req, fmt.Sprintf("Twitch OAuth Error: %s - %s. Please ensure your Twitch Application's OAuth Redirect URI is set to: %s", errorCode, description, s.redirectUri))
			return
		}
		if description == "" {
			description = "Twitch login failed"
		}
		s.redirectWithError(res, req, description)
		return
	}

	if !s.verifyState(req.Context(), q.Get("state"), expectedState) {
		s.logger.Warn().Msg("Rejecting login callback with missing or mismatched state")
		s.redirectWithError(res, req, "Login request could not be verified. Please try again.")
		return
	}

	code := q.Get("code")
	if code == "" {
		s.redirectWithError(res, req, "Authorization code missing.")
		return
	}

	userId, err := s.completeLogin(req.Context(), res, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("Login failed")
		message := err.Error()
		if !strings.Contains(message, s.redirectUri) {
			message = fmt.Sprintf("%s. Ensure Twitch App Redirect URI is: %s", message, s.redirectUri)
		}
		s.redirectWithError(res, req, message)
		return
	}

	s.logger.Info().Str("userId", userId).Msg("User logged in")
	http.Redirect(res, req, s.baseUrl, http.StatusFound)
}

func (s *Server) completeLogin(ctx context.Context, res http.ResponseWriter, code string) (string, error) {
	credentials, err := s.exchanger.ExchangeCode(ctx, code, s.redirectUri)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetUser(ctx, credentials.AccessToken)
	if err != nil {
		if upstreamErr, ok := twitch.AsUpstreamError(err); ok {
			return "", errors.New(upstreamErr.Message)
		}
		return "", err
	}
	if user == nil || user.ID == "" {
		return "", errors.New("Failed to fetch user details from Twitch")
	}
	if _, err := s.sessions.Establish(res, user.ID, credentials.AccessToken); err != nil {
		return "", err
	}
	return user.ID, nil
}

// verifyState requires that the state returned by Twitch matches the one we stored in
// the user's browser and, if a StateStore is configured, that it has not been used
func (s *Server) verifyState(ctx context.Context, got string, expected string) bool {
	if got == "" || got != expected {
		return false
	}
	if s.states == nil {
		return true
	}
	ok, err := s.states.Consume(ctx, got)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check OAuth state")
		return false
	}
	return ok
}

// handleLogout discards the user's session. The Twitch token is not revoked.
func (s *Server) handleLogout(res http.ResponseWriter, req *http.Request) {
	s.sessions.Clear(res)
	res.Header().Set("content-type", "application/json")
	json.NewEncoder(res).Encode(map[string]bool{"success": true})
}

func (s *Server) redirectWithError(res http.ResponseWriter, req *http.Request, message string) {
	http.Redirect(res, req, s.baseUrl+"/?error="+escapeQueryValue(message), http.StatusFound)
}

func (s *Server) clearStateCookie(res http.ResponseWriter) {
	http.SetCookie(res, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
