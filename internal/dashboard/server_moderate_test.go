package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/golden-vcr/moddeck/internal/moderation"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/stretchr/testify/assert"
)

func Test_Server_moderation_actions(t *testing.T) {
	tests := []struct {
		target   string
		body     string
		wantBody string
	}{
		{
			"/moderate/timeout",
			`{"broadcaster_id":"999","target_username":"spammer","duration":60}`,
			`{"success":true,"message":"User spammer timed out for 60 seconds."}`,
		},
		{
			"/moderate/ban",
			`{"broadcaster_id":"999","target_username":"spammer"}`,
			`{"success":true,"message":"User spammer banned."}`,
		},
		{
			"/moderate/unban",
			`{"broadcaster_id":"999","target_username":"spammer"}`,
			`{"success":true,"message":"User spammer unbanned."}`,
		},
		{
			"/moderate/whisper",
			`{"target_username":"spammer","message":"please stop"}`,
			`{"success":true,"message":"Whisper sent to spammer."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			actions := &mockActions{}
			s := newTestServer(&mockTwitchReader{}, actions)
			res := serve(s, testSession, "POST", tt.target, tt.body, nil)
			assert.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSuffix(res.Body.String(), "\n"))
		})
	}
}

func Test_Server_handleTimeout_decodes_request(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	res := serve(s, testSession, "POST", "/moderate/timeout", `{"broadcaster_id":"999","target_username":"@spammer","duration":60,"reason":"spam"}`, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []moderation.TimeoutRequest{{
		BroadcasterID:  "999",
		TargetUsername: "@spammer",
		Duration:       60,
		Reason:         "spam",
	}}, actions.timeouts)
}

func Test_Server_moderation_errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			"validation failure",
			fmt.Errorf("%w", moderation.ErrInvalidRequest),
			http.StatusBadRequest,
			`{"error":"invalid moderation request"}`,
		},
		{
			"unknown target",
			fmt.Errorf("User 'nobody' not found.: %w", moderation.ErrUserNotFound),
			http.StatusNotFound,
			`{"error":"User 'nobody' not found.: user not found"}`,
		},
		{
			"not a moderator",
			moderation.ErrNotModerator,
			http.StatusForbidden,
			`{"error":"You are not a moderator of this channel."}`,
		},
		{
			"no session",
			moderation.ErrNoSession,
			http.StatusUnauthorized,
			`{"error":"Unauthorized"}`,
		},
		{
			"upstream error",
			&twitch.UpstreamError{Status: http.StatusBadRequest, Message: "The user specified in the user_id field is already banned."},
			http.StatusBadRequest,
			`{"error":"The user specified in the user_id field is already banned.","status":400}`,
		},
		{
			"rate limited",
			&twitch.UpstreamError{Status: http.StatusTooManyRequests, Message: "Too Many Requests"},
			http.StatusTooManyRequests,
			`{"error":"Too Many Requests","status":429}`,
		},
		{
			"unexpected failure",
			fmt.Errorf("dial tcp: connection refused"),
			http.StatusInternalServerError,
			`{"error":"Failed to ban user."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := &mockActions{err: tt.err}
			s := newTestServer(&mockTwitchReader{}, actions)
			res := serve(s, testSession, "POST", "/moderate/ban", `{"broadcaster_id":"999","target_username":"nobody"}`, nil)
			assert.Equal(t, tt.wantStatus, res.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSuffix(res.Body.String(), "\n"))
		})
	}
}

func Test_Server_rejects_malformed_body(t *testing.T) {
	for _, target := range []string{"/moderate/timeout", "/moderate/ban", "/moderate/unban", "/moderate/whisper", "/moderate/chat-settings"} {
		t.Run(target, func(t *testing.T) {
			actions := &mockActions{}
			s := newTestServer(&mockTwitchReader{}, actions)
			res := serve(s, testSession, "POST", target, `{not json`, nil)
			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, `{"error":"Invalid request body."}`, strings.TrimSuffix(res.Body.String(), "\n"))
		})
	}
}

func Test_Server_rejects_oversized_body(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	body := fmt.Sprintf(`{"target_username":"spammer","message":"%s"}`, strings.Repeat("x", maxBodySize))
	res := serve(s, testSession, "POST", "/moderate/whisper", body, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, `{"error":"Invalid request body."}`, strings.TrimSuffix(res.Body.String(), "\n"))
	assert.Len(t, actions.whispers, 0)

	// A maximal whisper still fits
	body = fmt.Sprintf(`{"target_username":"spammer","message":"%s"}`, strings.Repeat("é", 500))
	res = serve(s, testSession, "POST", "/moderate/whisper", body, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, actions.whispers, 1)
}

func Test_Server_handleUpdateChatSettings(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	res := serve(s, testSession, "POST", "/moderate/chat-settings", `{"broadcaster_id":"999","settings":{"slow_mode":true,"slow_mode_wait_time":30}}`, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	assert.Len(t, actions.settings, 1)
	assert.Equal(t, "999", actions.settings[0].BroadcasterID)
	if assert.NotNil(t, actions.settings[0].Settings) {
		assert.Equal(t, true, *actions.settings[0].Settings.SlowMode)
		assert.Equal(t, 30, *actions.settings[0].Settings.SlowModeWaitTime)
		assert.Nil(t, actions.settings[0].Settings.EmoteMode)
	}

	var body struct {
		Success  bool                `json:"success"`
		Settings twitch.ChatSettings `json:"settings"`
		Message  string              `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Settings.SlowMode)
	assert.Equal(t, "Chat settings updated successfully.", body.Message)
}

func Test_Server_polls_and_predictions_require_broadcaster_header(t *testing.T) {
	tests := []struct {
		method string
		target string
	}{
		{"POST", "/moderate/polls"},
		{"PATCH", "/moderate/polls"},
		{"POST", "/moderate/predictions"},
		{"PATCH", "/moderate/predictions"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			actions := &mockActions{}
			s := newTestServer(&mockTwitchReader{}, actions)
			res := serve(s, testSession, tt.method, tt.target, `{}`, nil)
			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, `{"error":"X-Broadcaster-ID header is required."}`, strings.TrimSuffix(res.Body.String(), "\n"))
			assert.Empty(t, actions.polls)
			assert.Empty(t, actions.endedPolls)
			assert.Empty(t, actions.predictions)
			assert.Empty(t, actions.endedPreds)
		})
	}
}

func Test_Server_handleCreatePoll(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	body := `{"title":"Best tape?","choices":[{"title":"VHS"},{"title":"Betamax"}],"duration":60}`
	res := serve(s, testSession, "POST", "/moderate/polls", body, http.Header{"X-Broadcaster-Id": {"999"}})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "999", actions.lastBroadcaster)
	assert.Equal(t, []moderation.PollRequest{{
		Title:    "Best tape?",
		Choices:  []twitch.PollChoiceTitle{{Title: "VHS"}, {Title: "Betamax"}},
		Duration: 60,
	}}, actions.polls)

	var result struct {
		Success bool        `json:"success"`
		Poll    twitch.Poll `json:"poll"`
		Message string      `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "poll-1", result.Poll.ID)
	assert.Equal(t, "Poll created successfully.", result.Message)
}

func Test_Server_handleEndPoll(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	res := serve(s, testSession, "PATCH", "/moderate/polls", `{"id":"poll-1","status":"TERMINATED"}`, http.Header{"X-Broadcaster-Id": {"999"}})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []moderation.EndPollRequest{{ID: "poll-1", Status: "TERMINATED"}}, actions.endedPolls)

	var result struct {
		Poll    twitch.Poll `json:"poll"`
		Message string      `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.Equal(t, "TERMINATED", result.Poll.Status)
	assert.Equal(t, "Poll ended successfully.", result.Message)
}

func Test_Server_handleCreatePrediction(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	body := `{"title":"Will it rewind?","outcomes":[{"title":"Yes"},{"title":"No"}],"prediction_window":120}`
	res := serve(s, testSession, "POST", "/moderate/predictions", body, http.Header{"X-Broadcaster-Id": {"999"}})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "999", actions.lastBroadcaster)
	assert.Len(t, actions.predictions, 1)
	assert.Equal(t, 120, actions.predictions[0].PredictionWindow)

	var result struct {
		Success    bool              `json:"success"`
		Prediction twitch.Prediction `json:"prediction"`
		Message    string            `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "prediction-1", result.Prediction.ID)
	assert.Equal(t, "Prediction created successfully.", result.Message)
}

func Test_Server_handleEndPrediction(t *testing.T) {
	actions := &mockActions{}
	s := newTestServer(&mockTwitchReader{}, actions)
	res := serve(s, testSession, "PATCH", "/moderate/predictions", `{"id":"prediction-1","status":"RESOLVED","winning_outcome_id":"o1"}`, http.Header{"X-Broadcaster-Id": {"999"}})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []moderation.EndPredictionRequest{{ID: "prediction-1", Status: "RESOLVED", WinningOutcomeID: "o1"}}, actions.endedPreds)
}

func Test_Server_handleEndPoll_relays_not_moderator(t *testing.T) {
	actions := &mockActions{err: moderation.ErrNotModerator}
	s := newTestServer(&mockTwitchReader{}, actions)
	res := serve(s, testSession, "PATCH", "/moderate/polls", `{"id":"poll-1","status":"ARCHIVED"}`, http.Header{"X-Broadcaster-Id": {"555"}})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, `{"error":"You are not a moderator of this channel."}`, strings.TrimSuffix(res.Body.String(), "\n"))
}
