package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/golden-vcr/moddeck/internal/moderation"
	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// TwitchReader is the subset of the Twitch API used to populate the dashboard
type TwitchReader interface {
	GetUser(ctx context.Context, accessToken string) (*twitch.User, error)
	GetFollowedStreams(ctx context.Context, accessToken string, userId string) ([]twitch.Stream, error)
	GetChatters(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) ([]twitch.Chatter, error)
	GetChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) (*twitch.ChatSettings, error)
}

var _ TwitchReader = (*twitch.Client)(nil)

// ModeratorChecker reports whether a user may moderate a channel
type ModeratorChecker interface {
	IsModerator(ctx context.Context, broadcasterId string, userId string, accessToken string) bool
}

var _ ModeratorChecker = (*moderation.Resolver)(nil)

// Actions carries out moderation actions on behalf of the session user
type Actions interface {
	Timeout(ctx context.Context, s *session.Session, req moderation.TimeoutRequest) (string, error)
	Ban(ctx context.Context, s *session.Session, req moderation.BanRequest) (string, error)
	Unban(ctx context.Context, s *session.Session, req moderation.UnbanRequest) (string, error)
	Whisper(ctx context.Context, s *session.Session, req moderation.WhisperRequest) (string, error)
	UpdateChatSettings(ctx context.Context, s *session.Session, req moderation.ChatSettingsRequest) (*twitch.ChatSettings, error)
	CreatePoll(ctx context.Context, s *session.Session, broadcasterId string, req moderation.PollRequest) (*twitch.Poll, error)
	EndPoll(ctx context.Context, s *session.Session, broadcasterId string, req moderation.EndPollRequest) (*twitch.Poll, error)
	CreatePrediction(ctx context.Context, s *session.Session, broadcasterId string, req moderation.PredictionRequest) (*twitch.Prediction, error)
	EndPrediction(ctx context.Context, s *session.Session, broadcasterId string, req moderation.EndPredictionRequest) (*twitch.Prediction, error)
}

var _ Actions = (*moderation.Facade)(nil)

// Server exposes the dashboard's API. Every route expects a session to have been
// attached to the request context by session.Manager.Require.
type Server struct {
	twitch    TwitchReader
	moderator ModeratorChecker
	actions   Actions
	logger    zerolog.Logger
}

func NewServer(reader TwitchReader, moderator ModeratorChecker, actions Actions, logger zerolog.Logger) *Server {
	return &Server{
		twitch:    reader,
		moderator: moderator,
		actions:   actions,
		logger:    logger,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	// Read-only views of the logged-in user's Twitch account and the channels they watch
	r.Path("/user").Methods("GET").HandlerFunc(s.handleGetUser)
	r.Path("/streams").Methods("GET").HandlerFunc(s.handleGetStreams)
	r.Path("/chatters").Methods("GET").HandlerFunc(s.handleGetChatters)
	r.Path("/chat-settings").Methods("GET").HandlerFunc(s.handleGetChatSettings)
	r.Path("/is-moderator").Methods("GET").HandlerFunc(s.handleGetIsModerator)

	// Moderation actions, each of which is checked against the user's moderator status
	r.Path("/moderate/timeout").Methods("POST").HandlerFunc(s.handleTimeout)
	r.Path("/moderate/ban").Methods("POST").HandlerFunc(s.handleBan)
	r.Path("/moderate/unban").Methods("POST").HandlerFunc(s.handleUnban)
	r.Path("/moderate/whisper").Methods("POST").HandlerFunc(s.handleWhisper)
	r.Path("/moderate/chat-settings").Methods("POST").HandlerFunc(s.handleUpdateChatSettings)
	r.Path("/moderate/polls").Methods("POST").HandlerFunc(s.handleCreatePoll)
	r.Path("/moderate/polls").Methods("PATCH").HandlerFunc(s.handleEndPoll)
	r.Path("/moderate/predictions").Methods("POST").HandlerFunc(s.handleCreatePrediction)
	r.Path("/moderate/predictions").Methods("PATCH").HandlerFunc(s.handleEndPrediction)
}

func respondJSON(res http.ResponseWriter, status int, value interface{}) {
	res.Header().Set("content-type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(value)
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// respondError maps err to an HTTP status, preferring the most specific message
// available; fallback is shown only for unexpected errors
func (s *Server) respondError(res http.ResponseWriter, err error, fallback string) {
	if upstreamErr, ok := twitch.AsUpstreamError(err); ok {
		respondJSON(res, upstreamErr.Status, errorResponse{Error: upstreamErr.Message, Status: upstreamErr.Status})
		return
	}
	switch {
	case errors.Is(err, moderation.ErrInvalidRequest):
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, moderation.ErrUserNotFound):
		respondJSON(res, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, moderation.ErrNotModerator):
		respondJSON(res, http.StatusForbidden, errorResponse{Error: "You are not a moderator of this channel."})
	case errors.Is(err, moderation.ErrNoSession):
		respondJSON(res, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	default:
		s.logger.Error().Err(err).Msg(fallback)
		respondJSON(res, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

// requireSession returns the session attached to the request, writing a 401 if none
func requireSession(res http.ResponseWriter, req *http.Request) *session.Session {
	sess := session.GetSession(req.Context())
	if sess == nil {
		respondJSON(res, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	}
	return sess
}

// maxBodySize caps the JSON body of any moderation request; the largest legitimate
// payload is a 500-character whisper
const maxBodySize = 8 << 10

// decodeBody parses a JSON request body, writing a 400 on failure
func decodeBody(res http.ResponseWriter, req *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(res, req.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return false
	}
	return true
}
