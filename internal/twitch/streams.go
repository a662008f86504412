package twitch

import (
	"context"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

// GetFollowedStreams returns the first page of live streams followed by the given
// user, in the order Twitch returns them
func (c *Client) GetFollowedStreams(ctx context.Context, accessToken string, userId string) ([]Stream, error) {
	var streams []helix.Stream
	err := c.call(ctx, accessToken, http.MethodGet, "/streams/followed", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := h.GetFollowedStream(&helix.FollowedStreamsParams{UserID: userId})
		if err != nil {
			return nil, err
		}
		streams = r.Data.Streams
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]Stream, 0, len(streams))
	for i := range streams {
		result = append(result, fromHelixStream(&streams[i]))
	}
	return result, nil
}
