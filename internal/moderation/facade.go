package moderation

import (
	"context"
	"fmt"

	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
	"github.com/rs/zerolog"
)

// Upstream is the subset of the Twitch API used to carry out moderation actions
type Upstream interface {
	ModeratedChannelLister
	GetUserByLogin(ctx context.Context, accessToken string, login string) (*twitch.User, error)
	BanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, ban twitch.BanRequest) (*twitch.Ban, error)
	UnbanUser(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, userId string) error
	SendWhisper(ctx context.Context, accessToken string, fromUserId string, toUserId string, message string) error
	UpdateChatSettings(ctx context.Context, accessToken string, broadcasterId string, moderatorId string, update twitch.ChatSettingsUpdate) (*twitch.ChatSettings, error)
	CreatePoll(ctx context.Context, accessToken string, poll twitch.CreatePollRequest) (*twitch.Poll, error)
	EndPoll(ctx context.Context, accessToken string, end twitch.EndPollRequest) (*twitch.Poll, error)
	CreatePrediction(ctx context.Context, accessToken string, prediction twitch.CreatePredictionRequest) (*twitch.Prediction, error)
	EndPrediction(ctx context.Context, accessToken string, end twitch.EndPredictionRequest) (*twitch.Prediction, error)
}

var _ Upstream = (*twitch.Client)(nil)

// Facade carries out moderation actions on behalf of a logged-in user. Every action is
// validated locally, then authorized against the user's moderator status in the
// target channel, before any mutating request is sent to Twitch.
type Facade struct {
	upstream Upstream
	resolver *Resolver
	logger   zerolog.Logger
}

func NewFacade(upstream Upstream, resolver *Resolver, logger zerolog.Logger) *Facade {
	return &Facade{
		upstream: upstream,
		resolver: resolver,
		logger:   logger,
	}
}

// Timeout temporarily bans the target user from chatting in the channel
func (f *Facade) Timeout(ctx context.Context, s *session.Session, req TimeoutRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	mc, err := f.resolver.Authorize(ctx, s, req.BroadcasterID)
	if err != nil {
		return "", err
	}
	username := normalizeUsername(req.TargetUsername)
	target, err := f.resolveTarget(ctx, s, username)
	if err != nil {
		return "", err
	}
	if _, err := f.upstream.BanUser(ctx, mc.accessToken, mc.broadcasterId, mc.moderatorId, twitch.BanRequest{
		UserID:   target.ID,
		Duration: req.Duration,
		Reason:   req.Reason,
	}); err != nil {
		return "", err
	}
	f.logAction(mc, "timeout", target).Int("duration", req.Duration).Msg("User timed out")
	return fmt.Sprintf("User %s timed out for %d seconds.", username, req.Duration), nil
}

// Ban permanently bans the target user from the channel
func (f *Facade) Ban(ctx context.Context, s *session.Session, req BanRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	mc, err := f.resolver.Authorize(ctx, s, req.BroadcasterID)
	if err != nil {
		return "", err
	}
	username := normalizeUsername(req.TargetUsername)
	target, err := f.resolveTarget(ctx, s, username)
	if err != nil {
		return "", err
	}
	if _, err := f.upstream.BanUser(ctx, mc.accessToken, mc.broadcasterId, mc.moderatorId, twitch.BanRequest{
		UserID: target.ID,
		Reason: req.Reason,
	}); err != nil {
		return "", err
	}
	f.logAction(mc, "ban", target).Msg("User banned")
	return fmt.Sprintf("User %s banned.", username), nil
}

// Unban lifts a ban or timeout on the target user
func (f *Facade) Unban(ctx context.Context, s *session.Session, req UnbanRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	mc, err := f.resolver.Authorize(ctx, s, req.BroadcasterID)
	if err != nil {
		return "", err
	}
	username := normalizeUsername(req.TargetUsername)
	target, err := f.resolveTarget(ctx, s, username)
	if err != nil {
		return "", err
	}
	if err := f.upstream.UnbanUser(ctx, mc.accessToken, mc.broadcasterId, mc.moderatorId, target.ID); err != nil {
		return "", err
	}
	f.logAction(mc, "unban", target).Msg("User unbanned")
	return fmt.Sprintf("User %s unbanned.", username), nil
}

// Whisper sends a private message from the logged-in user to the target user. Whispers
// are not tied to a channel, so no moderator check applies.
func (f *Facade) Whisper(ctx context.Context, s *session.Session, req WhisperRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	if s == nil {
		return "", ErrNoSession
	}
	username := normalizeUsername(req.TargetUsername)
	target, err := f.resolveTarget(ctx, s, username)
	if err != nil {
		return "", err
	}
	if target.ID == s.UserID {
		return "", invalid("You cannot send a whisper to yourself.")
	}
	if err := f.upstream.SendWhisper(ctx, s.AccessToken, s.UserID, target.ID, req.Message); err != nil {
		return "", err
	}
	f.logger.Info().Str("fromUserId", s.UserID).Str("toUserId", target.ID).Msg("Whisper sent")
	return fmt.Sprintf("Whisper sent to %s.", username), nil
}

// UpdateChatSettings applies a partial update to the channel's chat modes
func (f *Facade) UpdateChatSettings(ctx context.Context, s *session.Session, req ChatSettingsRequest) (*twitch.ChatSettings, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mc, err := f.resolver.Authorize(ctx, s, req.BroadcasterID)
	if err != nil {
		return nil, err
	}
	settings, err := f.upstream.UpdateChatSettings(ctx, mc.accessToken, mc.broadcasterId, mc.moderatorId, *req.Settings)
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("broadcasterId", mc.broadcasterId).Str("moderatorId", mc.moderatorId).Msg("Chat settings updated")
	return settings, nil
}

func (f *Facade) CreatePoll(ctx context.Context, s *session.Session, broadcasterId string, req PollRequest) (*twitch.Poll, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mc, err := f.authorizeChannel(ctx, s, broadcasterId)
	if err != nil {
		return nil, err
	}
	poll, err := f.upstream.CreatePoll(ctx, mc.accessToken, twitch.CreatePollRequest{
		BroadcasterID:              mc.broadcasterId,
		Title:                      req.Title,
		Choices:                    req.Choices,
		Duration:                   req.Duration,
		ChannelPointsVotingEnabled: req.ChannelPointsVotingEnabled,
		ChannelPointsPerVote:       req.ChannelPointsPerVote,
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("broadcasterId", mc.broadcasterId).Str("pollId", poll.ID).Msg("Poll created")
	return poll, nil
}

func (f *Facade) EndPoll(ctx context.Context, s *session.Session, broadcasterId string, req EndPollRequest) (*twitch.Poll, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mc, err := f.authorizeChannel(ctx, s, broadcasterId)
	if err != nil {
		return nil, err
	}
	poll, err := f.upstream.EndPoll(ctx, mc.accessToken, twitch.EndPollRequest{
		BroadcasterID: mc.broadcasterId,
		ID:            req.ID,
		Status:        req.Status,
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("broadcasterId", mc.broadcasterId).Str("pollId", req.ID).Str("status", req.Status).Msg("Poll ended")
	return poll, nil
}

func (f *Facade) CreatePrediction(ctx context.Context, s *session.Session, broadcasterId string, req PredictionRequest) (*twitch.Prediction, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mc, err := f.authorizeChannel(ctx, s, broadcasterId)
	if err != nil {
		return nil, err
	}
	prediction, err := f.upstream.CreatePrediction(ctx, mc.accessToken, twitch.CreatePredictionRequest{
		BroadcasterID:    mc.broadcasterId,
		Title:            req.Title,
		Outcomes:         req.Outcomes,
		PredictionWindow: req.PredictionWindow,
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("broadcasterId", mc.broadcasterId).Str("predictionId", prediction.ID).Msg("Prediction created")
	return prediction, nil
}

func (f *Facade) EndPrediction(ctx context.Context, s *session.Session, broadcasterId string, req EndPredictionRequest) (*twitch.Prediction, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mc, err := f.authorizeChannel(ctx, s, broadcasterId)
	if err != nil {
		return nil, err
	}
	prediction, err := f.upstream.EndPrediction(ctx, mc.accessToken, twitch.EndPredictionRequest{
		BroadcasterID:    mc.broadcasterId,
		ID:               req.ID,
		Status:           req.Status,
		WinningOutcomeID: req.WinningOutcomeID,
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("broadcasterId", mc.broadcasterId).Str("predictionId", req.ID).Str("status", req.Status).Msg("Prediction ended")
	return prediction, nil
}

func (f *Facade) authorizeChannel(ctx context.Context, s *session.Session, broadcasterId string) (ChannelModerationContext, error) {
	if broadcasterId == "" {
		return ChannelModerationContext{}, invalid("Missing required field: broadcaster_id.")
	}
	return f.resolver.Authorize(ctx, s, broadcasterId)
}

func (f *Facade) resolveTarget(ctx context.Context, s *session.Session, username string) (*twitch.User, error) {
	user, err := f.upstream.GetUserByLogin(ctx, s.AccessToken, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" {
		return nil, &userNotFoundError{username: username}
	}
	return user, nil
}

func (f *Facade) logAction(mc ChannelModerationContext, action string, target *twitch.User) *zerolog.Event {
	return f.logger.Info().
		Str("action", action).
		Str("broadcasterId", mc.broadcasterId).
		Str("moderatorId", mc.moderatorId).
		Str("targetUserId", target.ID).
		Str("targetLogin", target.Login)
}
