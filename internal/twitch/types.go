package twitch

import "time"

type User struct {
	ID              string    `json:"id"`
	Login           string    `json:"login"`
	DisplayName     string    `json:"display_name"`
	Type            string    `json:"type"`
	BroadcasterType string    `json:"broadcaster_type"`
	Description     string    `json:"description"`
	ProfileImageURL string    `json:"profile_image_url"`
	OfflineImageURL string    `json:"offline_image_url"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type Stream struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserLogin    string    `json:"user_login"`
	UserName     string    `json:"user_name"`
	GameID       string    `json:"game_id"`
	GameName     string    `json:"game_name"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags"`
	ViewerCount  int       `json:"viewer_count"`
	StartedAt    time.Time `json:"started_at"`
	Language     string    `json:"language"`
	ThumbnailURL string    `json:"thumbnail_url"`
	IsMature     bool      `json:"is_mature"`
}

type ModeratedChannel struct {
	BroadcasterID    string `json:"broadcaster_id"`
	BroadcasterLogin string `json:"broadcaster_login"`
	BroadcasterName  string `json:"broadcaster_name"`
}

type Chatter struct {
	UserID    string `json:"user_id"`
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
}

type ChatSettings struct {
	BroadcasterID                 string `json:"broadcaster_id"`
	ModeratorID                   string `json:"moderator_id,omitempty"`
	EmoteMode                     bool   `json:"emote_mode"`
	FollowerMode                  bool   `json:"follower_mode"`
	FollowerModeDuration          *int   `json:"follower_mode_duration"`
	NonModeratorChatDelay         bool   `json:"non_moderator_chat_delay"`
	NonModeratorChatDelayDuration *int   `json:"non_moderator_chat_delay_duration"`
	SlowMode                      bool   `json:"slow_mode"`
	SlowModeWaitTime              *int   `json:"slow_mode_wait_time"`
	SubscriberMode                bool   `json:"subscriber_mode"`
	UniqueChatMode                bool   `json:"unique_chat_mode"`
}

// ChatSettingsUpdate is a partial update to a channel's chat settings: nil fields are
// left unchanged
type ChatSettingsUpdate struct {
	EmoteMode                     *bool `json:"emote_mode,omitempty"`
	FollowerMode                  *bool `json:"follower_mode,omitempty"`
	FollowerModeDuration          *int  `json:"follower_mode_duration,omitempty"`
	NonModeratorChatDelay         *bool `json:"non_moderator_chat_delay,omitempty"`
	NonModeratorChatDelayDuration *int  `json:"non_moderator_chat_delay_duration,omitempty"`
	SlowMode                      *bool `json:"slow_mode,omitempty"`
	SlowModeWaitTime              *int  `json:"slow_mode_wait_time,omitempty"`
	SubscriberMode                *bool `json:"subscriber_mode,omitempty"`
	UniqueChatMode                *bool `json:"unique_chat_mode,omitempty"`
}

type BanRequest struct {
	UserID   string `json:"user_id"`
	Duration int    `json:"duration,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type Ban struct {
	BroadcasterID string     `json:"broadcaster_id"`
	ModeratorID   string     `json:"moderator_id"`
	UserID        string     `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	EndTime       *time.Time `json:"end_time"`
}

type PollChoiceTitle struct {
	Title string `json:"title"`
}

type CreatePollRequest struct {
	BroadcasterID              string            `json:"broadcaster_id"`
	Title                      string            `json:"title"`
	Choices                    []PollChoiceTitle `json:"choices"`
	Duration                   int               `json:"duration"`
	ChannelPointsVotingEnabled bool              `json:"channel_points_voting_enabled,omitempty"`
	ChannelPointsPerVote       int               `json:"channel_points_per_vote,omitempty"`
}

type EndPollRequest struct {
	BroadcasterID string `json:"broadcaster_id"`
	ID            string `json:"id"`
	Status        string `json:"status"`
}

type PollChoice struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Votes              int    `json:"votes"`
	ChannelPointsVotes int    `json:"channel_points_votes"`
	BitsVotes          int    `json:"bits_votes"`
}

type Poll struct {
	ID                         string       `json:"id"`
	BroadcasterID              string       `json:"broadcaster_id"`
	BroadcasterName            string       `json:"broadcaster_name"`
	BroadcasterLogin           string       `json:"broadcaster_login"`
	Title                      string       `json:"title"`
	Choices                    []PollChoice `json:"choices"`
	ChannelPointsVotingEnabled bool         `json:"channel_points_voting_enabled"`
	ChannelPointsPerVote       int          `json:"channel_points_per_vote"`
	Status                     string       `json:"status"`
	Duration                   int          `json:"duration"`
	StartedAt                  time.Time    `json:"started_at"`
	EndedAt                    *time.Time   `json:"ended_at"`
}

type PredictionOutcomeTitle struct {
	Title string `json:"title"`
}

type CreatePredictionRequest struct {
	BroadcasterID    string                   `json:"broadcaster_id"`
	Title            string                   `json:"title"`
	Outcomes         []PredictionOutcomeTitle `json:"outcomes"`
	PredictionWindow int                      `json:"prediction_window"`
}

type EndPredictionRequest struct {
	BroadcasterID    string `json:"broadcaster_id"`
	ID               string `json:"id"`
	Status           string `json:"status"`
	WinningOutcomeID string `json:"winning_outcome_id,omitempty"`
}

type PredictionOutcome struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Users         int    `json:"users"`
	ChannelPoints int    `json:"channel_points"`
	Color         string `json:"color"`
}

type Prediction struct {
	ID               string              `json:"id"`
	BroadcasterID    string              `json:"broadcaster_id"`
	BroadcasterName  string              `json:"broadcaster_name"`
	BroadcasterLogin string              `json:"broadcaster_login"`
	Title            string              `json:"title"`
	WinningOutcomeID *string             `json:"winning_outcome_id"`
	Outcomes         []PredictionOutcome `json:"outcomes"`
	PredictionWindow int                 `json:"prediction_window"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	EndedAt          *time.Time          `json:"ended_at"`
	LockedAt         *time.Time          `json:"locked_at"`
}
