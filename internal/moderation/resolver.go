package moderation

import (
	"context"

	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/rs/zerolog"
)

// ModeratedChannelLister is the subset of the Twitch API needed to determine which
// channels a user moderates
type ModeratedChannelLister interface {
	GetModeratedChannels(ctx context.Context, accessToken string, userId string) ([]twitch.ModeratedChannel, error)
}

// Resolver decides whether a user may moderate a given channel
type Resolver struct {
	lister ModeratedChannelLister
	logger zerolog.Logger
}

func NewResolver(lister ModeratedChannelLister, logger zerolog.Logger) *Resolver {
	return &Resolver{
		lister: lister,
		logger: logger,
	}
}

// IsModerator returns true if the user is the broadcaster or appears in the first page
// of channels they moderate. Any failure to determine moderator status yields false.
func (r *Resolver) IsModerator(ctx context.Context, broadcasterId string, userId string, accessToken string) bool {
	if broadcasterId == "" || userId == "" {
		return false
	}
	if userId == broadcasterId {
		return true
	}

	// Only the first 100 moderated channels are considered
	channels, err := r.lister.GetModeratedChannels(ctx, accessToken, userId)
	if err != nil {
		l := r.logger.Warn().Err(err).Str("broadcasterId", broadcasterId).Str("userId", userId)
		if upstreamErr, ok := twitch.AsUpstreamError(err); ok && upstreamErr.IsAuthFailure() {
			l.Msg("Could not check moderator status; ensure the user:read:moderated_channels scope was granted")
		} else {
			l.Msg("Could not check moderator status")
		}
		return false
	}
	for i := range channels {
		if channels[i].BroadcasterID == broadcasterId {
			return true
		}
	}
	return false
}

// Authorize returns a ChannelModerationContext for the session's user in the given
// channel, or ErrNotModerator if they do not moderate it
func (r *Resolver) Authorize(ctx context.Context, s *session.Session, broadcasterId string) (ChannelModerationContext, error) {
	if s == nil {
		return ChannelModerationContext{}, ErrNoSession
	}
	if !r.IsModerator(ctx, broadcasterId, s.UserID, s.AccessToken) {
		return ChannelModerationContext{}, ErrNotModerator
	}
	return newChannelModerationContext(s, broadcasterId), nil
}
