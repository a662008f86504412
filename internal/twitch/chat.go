package twitch

import (
	"context"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

func (c *Client) GetChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) (*ChatSettings, error) {
	var settings []helix.ChatSettings
	err := c.call(ctx, accessToken, http.MethodGet, "/chat/settings", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetChatSettings(&helix.GetChatSettingsParams{
			BroadcasterID: broadcasterId,
			ModeratorID:   moderatorId,
		})
		if err != nil {
			return nil, err
		}
		settings = r.Data.Settings
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	s, err := first(settings)
	if err != nil {
		return nil, err
	}
	return fromHelixChatSettings(s), nil
}

// UpdateChatSettings applies a partial update: only the non-nil fields of update are
// sent to Twitch
func (c *Client) UpdateChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, update ChatSettingsUpdate) (*ChatSettings, error) {
	var settings []helix.ChatSettings
	err := c.call(ctx, accessToken, http.MethodPatch, "/chat/settings", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.UpdateChatSettings(&helix.UpdateChatSettingsParams{
			BroadcasterID:                 broadcasterId,
			ModeratorID:                   moderatorId,
			EmoteMode:                     update.EmoteMode,
			FollowerMode:                  update.FollowerMode,
			FollowerModeDuration:          update.FollowerModeDuration,
			NonModeratorChatDelay:         update.NonModeratorChatDelay,
			NonModeratorChatDelayDuration: update.NonModeratorChatDelayDuration,
			SlowMode:                      update.SlowMode,
			SlowModeWaitTime:              update.SlowModeWaitTime,
			SubscriberMode:                update.SubscriberMode,
			UniqueChatMode:                update.UniqueChatMode,
		})
		if err != nil {
			return nil, err
		}
		settings = r.Data.Settings
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	s, err := first(settings)
	if err != nil {
		return nil, err
	}
	return fromHelixChatSettings(s), nil
}

// GetChatters returns up to 1000 users currently connected to the broadcaster's chat
func (c *Client) GetChatters(ctx context.Context, accessToken string, broadcasterId string, moderatorId string) ([]Chatter, error) {
	var chatters []helix.ChatChatter
	err := c.call(ctx, accessToken, http.MethodGet, "/chat/chatters", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetChannelChatChatters(&helix.GetChatChattersParams{
			BroadcasterID: broadcasterId,
			ModeratorID:   moderatorId,
			First:         "1000",
		})
		if err != nil {
			return nil, err
		}
		chatters = r.Data.Chatters
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]Chatter, 0, len(chatters))
	for _, chatter := range chatters {
		result = append(result, Chatter{
			UserID:    chatter.UserID,
			UserLogin: chatter.UserLogin,
			UserName:  chatter.Username,
		})
	}
	return result, nil
}

// SendWhisper sends a private message; Twitch responds with no content on success
func (c *Client) SendWhisper(ctx context.Context, accessToken string, fromUserId string, toUserId string, message string) error {
	return c.call(ctx, accessToken, http.MethodPost, "/whispers", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.SendUserWhisper(&helix.SendUserWhisperParams{
			FromUserID: fromUserId,
			ToUserID:   toUserId,
			Message:    message,
		})
		if err != nil {
			return nil, err
		}
		return &r.ResponseCommon, nil
	})
}
