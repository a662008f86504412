package twitch

import (
	"time"

	"github.com/nicklaw5/helix/v2"
)

// Twitch reports an unset timestamp as null or "", which helix decodes as zero
func optionalTime(t helix.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// Twitch sends null for a duration whose mode is disabled; helix decodes that as 0
func optionalDuration(enabled bool, value int) *int {
	if !enabled {
		return nil
	}
	return &value
}

func fromHelixUser(u *helix.User) *User {
	return &User{
		ID:              u.ID,
		Login:           u.Login,
		DisplayName:     u.DisplayName,
		Type:            u.Type,
		BroadcasterType: u.BroadcasterType,
		Description:     u.Description,
		ProfileImageURL: u.ProfileImageURL,
		OfflineImageURL: u.OfflineImageURL,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt.Time,
	}
}

func fromHelixStream(s *helix.Stream) Stream {
	return Stream{
		ID:           s.ID,
		UserID:       s.UserID,
		UserLogin:    s.UserLogin,
		UserName:     s.UserName,
		GameID:       s.GameID,
		GameName:     s.GameName,
		Type:         s.Type,
		Title:        s.Title,
		Tags:         s.Tags,
		ViewerCount:  s.ViewerCount,
		StartedAt:    s.StartedAt,
		Language:     s.Language,
		ThumbnailURL: s.ThumbnailURL,
		IsMature:     s.IsMature,
	}
}

func fromHelixChatSettings(s *helix.ChatSettings) *ChatSettings {
	return &ChatSettings{
		BroadcasterID:                 s.BroadcasterID,
		ModeratorID:                   s.ModeratorID,
		EmoteMode:                     s.EmoteMode,
		FollowerMode:                  s.FollowerMode,
		FollowerModeDuration:          optionalDuration(s.FollowerMode, s.FollowerModeDuration),
		NonModeratorChatDelay:         s.NonModeratorChatDelay,
		NonModeratorChatDelayDuration: optionalDuration(s.NonModeratorChatDelay, s.NonModeratorChatDelayDuration),
		SlowMode:                      s.SlowMode,
		SlowModeWaitTime:              optionalDuration(s.SlowMode, s.SlowModeWaitTime),
		SubscriberMode:                s.SubscriberMode,
		UniqueChatMode:                s.UniqueChatMode,
	}
}

func fromHelixBan(b *helix.BanUser) *Ban {
	return &Ban{
		BroadcasterID: b.BoardcasterId,
		ModeratorID:   b.ModeratorId,
		UserID:        b.UserId,
		CreatedAt:     b.CreatedAt.Time,
		EndTime:       optionalTime(b.EndTime),
	}
}

func fromHelixPoll(p *helix.Poll) *Poll {
	choices := make([]PollChoice, 0, len(p.Choices))
	for _, c := range p.Choices {
		choices = append(choices, PollChoice{
			ID:                 c.ID,
			Title:              c.Title,
			Votes:              c.Votes,
			ChannelPointsVotes: c.ChannelPointsVotes,
			BitsVotes:          c.BitsVotes,
		})
	}
	return &Poll{
		ID:                         p.ID,
		BroadcasterID:              p.BroadcasterID,
		BroadcasterName:            p.BroadcasterName,
		BroadcasterLogin:           p.BroadcasterLogin,
		Title:                      p.Title,
		Choices:                    choices,
		ChannelPointsVotingEnabled: p.ChannelPointsVotingEnabled,
		ChannelPointsPerVote:       p.ChannelPointsPerVote,
		Status:                     p.Status,
		Duration:                   p.Duration,
		StartedAt:                  p.StartedAt.Time,
		EndedAt:                    optionalTime(p.EndedAt),
	}
}

func fromHelixPrediction(p *helix.Prediction) *Prediction {
	outcomes := make([]PredictionOutcome, 0, len(p.Outcomes))
	for _, o := range p.Outcomes {
		outcomes = append(outcomes, PredictionOutcome{
			ID:            o.ID,
			Title:         o.Title,
			Users:         o.Users,
			ChannelPoints: o.ChannelPoints,
			Color:         o.Color,
		})
	}
	var winningOutcomeId *string
	if p.WinningOutcomeID != "" {
		id := p.WinningOutcomeID
		winningOutcomeId = &id
	}
	return &Prediction{
		ID:               p.ID,
		BroadcasterID:    p.BroadcasterUserID,
		BroadcasterName:  p.BroadcasterUserName,
		BroadcasterLogin: p.BroadcasterUserLogin,
		Title:            p.Title,
		WinningOutcomeID: winningOutcomeId,
		Outcomes:         outcomes,
		PredictionWindow: p.PredictionWindow,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt.Time,
		EndedAt:          optionalTime(p.EndedAt),
		LockedAt:         optionalTime(p.LockedAt),
	}
}

// first returns the single result expected from a successful request
func first[T any](items []T) (*T, error) {
	if len(items) == 0 {
		return nil, ErrEmptyResponse
	}
	return &items[0], nil
}
