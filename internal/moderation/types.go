package moderation

import (
	"strings"

	"github.com/golden-vcr/moddeck/internal/twitch"
)

const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 1209600
	MaxReasonLength   = 500
	MaxWhisperLength  = 500

	MaxPollTitleLength    = 60
	MaxPollChoiceLength   = 25
	MinPollChoices        = 2
	MaxPollChoices        = 5
	MinPollDuration       = 15
	MaxPollDuration       = 1800
	MaxPredictionTitle    = 45
	MaxOutcomeTitleLength = 25
	NumPredictionOutcomes = 2
	MinPredictionWindow   = 30
	MaxPredictionWindow   = 1800

	MinSlowModeWaitTime      = 3
	MaxSlowModeWaitTime      = 120
	MaxFollowerModeDuration  = 129600
	PollStatusTerminated     = "TERMINATED"
	PollStatusArchived       = "ARCHIVED"
	PredictionStatusResolved = "RESOLVED"
	PredictionStatusCanceled = "CANCELED"
	PredictionStatusLocked   = "LOCKED"
)

// AllowedChatDelays are the only values Twitch accepts for
// non_moderator_chat_delay_duration, in seconds
var AllowedChatDelays = []int{2, 4, 6}

type TimeoutRequest struct {
	BroadcasterID  string `json:"broadcaster_id"`
	TargetUsername string `json:"target_username"`
	Duration       int    `json:"duration"`
	Reason         string `json:"reason,omitempty"`
}

type BanRequest struct {
	BroadcasterID  string `json:"broadcaster_id"`
	TargetUsername string `json:"target_username"`
	Reason         string `json:"reason,omitempty"`
}

type UnbanRequest struct {
	BroadcasterID  string `json:"broadcaster_id"`
	TargetUsername string `json:"target_username"`
}

type WhisperRequest struct {
	TargetUsername string `json:"target_username"`
	Message        string `json:"message"`
}

type ChatSettingsRequest struct {
	BroadcasterID string                     `json:"broadcaster_id"`
	Settings      *twitch.ChatSettingsUpdate `json:"settings"`
}

type PollRequest struct {
	Title                      string                   `json:"title"`
	Choices                    []twitch.PollChoiceTitle `json:"choices"`
	Duration                   int                      `json:"duration"`
	ChannelPointsVotingEnabled bool                     `json:"channel_points_voting_enabled,omitempty"`
	ChannelPointsPerVote       int                      `json:"channel_points_per_vote,omitempty"`
}

type EndPollRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type PredictionRequest struct {
	Title            string                          `json:"title"`
	Outcomes         []twitch.PredictionOutcomeTitle `json:"outcomes"`
	PredictionWindow int                             `json:"prediction_window"`
}

type EndPredictionRequest struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	WinningOutcomeID string `json:"winning_outcome_id,omitempty"`
}

// normalizeUsername accepts a login name as a moderator might type it, e.g. "@Name"
func normalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}
