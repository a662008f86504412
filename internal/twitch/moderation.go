package twitch

import (
	"context"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

// GetModeratedChannels returns the first page (up to 100) of channels in which the
// given user is a moderator
func (c *Client) GetModeratedChannels(ctx context.Context, accessToken string, userId string) ([]ModeratedChannel, error) {
	var channels []helix.ModeratedChannel
	err := c.call(ctx, accessToken, http.MethodGet, "/moderation/channels", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetModeratedChannels(&helix.GetModeratedChannelsParams{
			UserID: userId,
			First:  100,
		})
		if err != nil {
			return nil, err
		}
		channels = r.Data.ModeratedChannels
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]ModeratedChannel, 0, len(channels))
	for _, channel := range channels {
		result = append(result, ModeratedChannel(channel))
	}
	return result, nil
}

// BanUser bans a user from the broadcaster's chat; if ban.Duration is nonzero, the ban
// is a timeout lasting that many seconds
func (c *Client) BanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, ban BanRequest) (*Ban, error) {
	var bans []helix.BanUser
	err := c.call(ctx, accessToken, http.MethodPost, "/moderation/bans", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.BanUser(&helix.BanUserParams{
			BroadcasterID: broadcasterId,
			ModeratorId:   moderatorId,
			Body: helix.BanUserRequestBody{
				UserId:   ban.UserID,
				Duration: ban.Duration,
				Reason:   ban.Reason,
			},
		})
		if err != nil {
			return nil, err
		}
		bans = r.Data.Bans
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	b, err := first(bans)
	if err != nil {
		return nil, err
	}
	return fromHelixBan(b), nil
}

// UnbanUser lifts a ban or timeout
func (c *Client) UnbanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, userId string) error {
	return c.call(ctx, accessToken, http.MethodDelete, "/moderation/bans", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.UnbanUser(&helix.UnbanUserParams{
			BroadcasterID: broadcasterId,
			ModeratorID:   moderatorId,
			UserID:        userId,
		})
		if err != nil {
			return nil, err
		}
		return &r.ResponseCommon, nil
	})
}
