package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/golden-vcr/moddeck/internal/moderation"
	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

var testSession = &session.Session{
	UserID:      "1234",
	AccessToken: "mock-access-token",
}

type mockTwitchReader struct {
	err      error
	streams  []twitch.Stream
	chatters []twitch.Chatter

	lastBroadcaster string
	lastModerator   string
}

var _ TwitchReader = (*mockTwitchReader)(nil)

func (m *mockTwitchReader) GetUser(ctx context.Context, accessToken string) (*twitch.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &twitch.User{ID: "1234", Login: "jenny", DisplayName: "Jenny"}, nil
}

func (m *mockTwitchReader) GetFollowedStreams(ctx context.Context, accessToken string, userId string) ([]twitch.Stream, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.streams, nil
}

func (m *mockTwitchReader) GetChatters(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) ([]twitch.Chatter, error) {
	m.lastBroadcaster, m.lastModerator = broadcasterId, moderatorId
	if m.err != nil {
		return nil, m.err
	}
	return m.chatters, nil
}

func (m *mockTwitchReader) GetChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) (*twitch.ChatSettings, error) {
	m.lastBroadcaster, m.lastModerator = broadcasterId, moderatorId
	if m.err != nil {
		return nil, m.err
	}
	return &twitch.ChatSettings{BroadcasterID: broadcasterId, EmoteMode: true}, nil
}

type mockModeratorChecker struct {
	moderates map[string]bool
}

func (m *mockModeratorChecker) IsModerator(ctx context.Context, broadcasterId string, userId string, accessToken string) bool {
	return m.moderates[broadcasterId]
}

// mockActions records the requests it receives and fails each action with err, if set
type mockActions struct {
	err error

	timeouts        []moderation.TimeoutRequest
	bans            []moderation.BanRequest
	unbans          []moderation.UnbanRequest
	whispers        []moderation.WhisperRequest
	settings        []moderation.ChatSettingsRequest
	polls           []moderation.PollRequest
	endedPolls      []moderation.EndPollRequest
	predictions     []moderation.PredictionRequest
	endedPreds      []moderation.EndPredictionRequest
	lastBroadcaster string
}

var _ Actions = (*mockActions)(nil)

func (m *mockActions) Timeout(ctx context.Context, s *session.Session, req moderation.TimeoutRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.timeouts = append(m.timeouts, req)
	return "User spammer timed out for 60 seconds.", nil
}

func (m *mockActions) Ban(ctx context.Context, s *session.Session, req moderation.BanRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.bans = append(m.bans, req)
	return "User spammer banned.", nil
}

func (m *mockActions) Unban(ctx context.Context, s *session.Session, req moderation.UnbanRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.unbans = append(m.unbans, req)
	return "User spammer unbanned.", nil
}

func (m *mockActions) Whisper(ctx context.Context, s *session.Session, req moderation.WhisperRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.whispers = append(m.whispers, req)
	return "Whisper sent to spammer.", nil
}

func (m *mockActions) UpdateChatSettings(ctx context.Context, s *session.Session, req moderation.ChatSettingsRequest) (*twitch.ChatSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.settings = append(m.settings, req)
	return &twitch.ChatSettings{BroadcasterID: req.BroadcasterID, SlowMode: true}, nil
}

func (m *mockActions) CreatePoll(ctx context.Context, s *session.Session, broadcasterId string, req moderation.PollRequest) (*twitch.Poll, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastBroadcaster = broadcasterId
	m.polls = append(m.polls, req)
	return &twitch.Poll{ID: "poll-1", BroadcasterID: broadcasterId, Title: req.Title, Status: "ACTIVE"}, nil
}

func (m *mockActions) EndPoll(ctx context.Context, s *session.Session, broadcasterId string, req moderation.EndPollRequest) (*twitch.Poll, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastBroadcaster = broadcasterId
	m.endedPolls = append(m.endedPolls, req)
	return &twitch.Poll{ID: req.ID, BroadcasterID: broadcasterId, Status: req.Status}, nil
}

func (m *mockActions) CreatePrediction(ctx context.Context, s *session.Session, broadcasterId string, req moderation.PredictionRequest) (*twitch.Prediction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastBroadcaster = broadcasterId
	m.predictions = append(m.predictions, req)
	return &twitch.Prediction{ID: "prediction-1", BroadcasterID: broadcasterId, Title: req.Title, Status: "ACTIVE"}, nil
}

func (m *mockActions) EndPrediction(ctx context.Context, s *session.Session, broadcasterId string, req moderation.EndPredictionRequest) (*twitch.Prediction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastBroadcaster = broadcasterId
	m.endedPreds = append(m.endedPreds, req)
	return &twitch.Prediction{ID: req.ID, BroadcasterID: broadcasterId, Status: req.Status}, nil
}

// serve runs a single request through a fully-routed Server, attaching sess to the
// request context as session.Manager.Require would
func serve(s *Server, sess *session.Session, method string, target string, body string, header http.Header) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	s.RegisterRoutes(r)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if sess != nil {
		req = req.WithContext(session.WithSession(req.Context(), sess))
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}

func newTestServer(reader *mockTwitchReader, actions *mockActions) *Server {
	checker := &mockModeratorChecker{moderates: map[string]bool{"999": true}}
	return NewServer(reader, checker, actions, zerolog.Nop())
}
