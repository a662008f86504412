package moderation

import "github.com/golden-vcr/moddeck/internal/session"

// ChannelModerationContext identifies the channel in which a moderation action is
// taken and the moderator taking it. Values can only be obtained from
// Resolver.Authorize, so the moderator is always the owner of a verified session and
// never a value supplied by the client.
type ChannelModerationContext struct {
	broadcasterId string
	moderatorId   string
	accessToken   string
}

func newChannelModerationContext(s *session.Session, broadcasterId string) ChannelModerationContext {
	return ChannelModerationContext{
		broadcasterId: broadcasterId,
		moderatorId:   s.UserID,
		accessToken:   s.AccessToken,
	}
}

func (c ChannelModerationContext) BroadcasterID() string {
	return c.broadcasterId
}

func (c ChannelModerationContext) ModeratorID() string {
	return c.moderatorId
}
