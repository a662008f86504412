package moderation

import (
	"context"

	"github.com/golden-vcr/moddeck/internal/twitch"
)

const (
	mockModeratorId   = "1234"
	mockAccessToken   = "mock-access-token"
	mockBroadcasterId = "999"
	mockOtherChannel  = "555"
)

// mockUpstream simulates a Twitch API in which user 1234 moderates channel 999, and
// the only known users are 'spammer' (5678) and 'jenny' (1234)
type mockUpstream struct {
	listErr   error
	lookupErr error
	actionErr error

	numListCalls    int
	numLookupCalls  int
	bans            []twitch.BanRequest
	unbans          []string
	whispers        []string
	settings        []twitch.ChatSettingsUpdate
	polls           []twitch.CreatePollRequest
	endedPolls      []twitch.EndPollRequest
	predictions     []twitch.CreatePredictionRequest
	endedPreds      []twitch.EndPredictionRequest
	lastModerator   string
	lastBroadcaster string
}

var _ Upstream = (*mockUpstream)(nil)

func (m *mockUpstream) numMutations() int {
	return len(m.bans) + len(m.unbans) + len(m.whispers) + len(m.settings) + len(m.polls) + len(m.endedPolls) + len(m.predictions) + len(m.endedPreds)
}

func (m *mockUpstream) GetModeratedChannels(ctx context.Context, accessToken string, userId string) ([]twitch.ModeratedChannel, error) {
	m.numListCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if userId == mockModeratorId {
		return []twitch.ModeratedChannel{
			{BroadcasterID: "111", BroadcasterLogin: "someone", BroadcasterName: "Someone"},
			{BroadcasterID: mockBroadcasterId, BroadcasterLogin: "channel", BroadcasterName: "Channel"},
		}, nil
	}
	return []twitch.ModeratedChannel{}, nil
}

func (m *mockUpstream) GetUserByLogin(ctx context.Context, accessToken string, login string) (*twitch.User, error) {
	m.numLookupCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	switch login {
	case "spammer":
		return &twitch.User{ID: "5678", Login: "spammer"}, nil
	case "jenny":
		return &twitch.User{ID: mockModeratorId, Login: "jenny"}, nil
	}
	return nil, nil
}

func (m *mockUpstream) BanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, ban twitch.BanRequest) (*twitch.Ban, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.lastBroadcaster, m.lastModerator = broadcasterId, moderatorId
	m.bans = append(m.bans, ban)
	return &twitch.Ban{BroadcasterID: broadcasterId, ModeratorID: moderatorId, UserID: ban.UserID}, nil
}

func (m *mockUpstream) UnbanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, userId string) error {
	if m.actionErr != nil {
		return m.actionErr
	}
	m.lastBroadcaster, m.lastModerator = broadcasterId, moderatorId
	m.unbans = append(m.unbans, userId)
	return nil
}

func (m *mockUpstream) SendWhisper(ctx context.Context, accessToken string, fromUserId string, toUserId string, message string) error {
	if m.actionErr != nil {
		return m.actionErr
	}
	m.whispers = append(m.whispers, fromUserId+"->"+toUserId+": "+message)
	return nil
}

func (m *mockUpstream) UpdateChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, update twitch.ChatSettingsUpdate) (*twitch.ChatSettings, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.lastBroadcaster, m.lastModerator = broadcasterId, moderatorId
	m.settings = append(m.settings, update)
	settings := &twitch.ChatSettings{BroadcasterID: broadcasterId}
	if update.EmoteMode != nil {
		settings.EmoteMode = *update.EmoteMode
	}
	return settings, nil
}

func (m *mockUpstream) CreatePoll(ctx context.Context, accessToken string, poll twitch.CreatePollRequest) (*twitch.Poll, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.polls = append(m.polls, poll)
	return &twitch.Poll{ID: "poll-1", BroadcasterID: poll.BroadcasterID, Title: poll.Title, Status: "ACTIVE"}, nil
}

func (m *mockUpstream) EndPoll(ctx context.Context, accessToken string, end twitch.EndPollRequest) (*twitch.Poll, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.endedPolls = append(m.endedPolls, end)
	return &twitch.Poll{ID: end.ID, BroadcasterID: end.BroadcasterID, Status: end.Status}, nil
}

func (m *mockUpstream) CreatePrediction(ctx context.Context, accessToken string, prediction twitch.CreatePredictionRequest) (*twitch.Prediction, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.predictions = append(m.predictions, prediction)
	return &twitch.Prediction{ID: "prediction-1", BroadcasterID: prediction.BroadcasterID, Title: prediction.Title, Status: "ACTIVE"}, nil
}

func (m *mockUpstream) EndPrediction(ctx context.Context, accessToken string, end twitch.EndPredictionRequest) (*twitch.Prediction, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	m.endedPreds = append(m.endedPreds, end)
	return &twitch.Prediction{ID: end.ID, BroadcasterID: end.BroadcasterID, Status: end.Status}, nil
}
