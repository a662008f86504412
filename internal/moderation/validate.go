package moderation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/golden-vcr/moddeck/internal/twitch"
)

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func (r TimeoutRequest) validate() error {
	if r.BroadcasterID == "" || normalizeUsername(r.TargetUsername) == "" || r.Duration <= 0 {
		return invalid("Missing required fields: broadcaster_id, target_username, or valid duration.")
	}
	if r.Duration < MinTimeoutSeconds || r.Duration > MaxTimeoutSeconds {
		return invalid(fmt.Sprintf("Timeout duration must be between %d and %d seconds.", MinTimeoutSeconds, MaxTimeoutSeconds))
	}
	if length(r.Reason) > MaxReasonLength {
		return invalid(fmt.Sprintf("Reason exceeds %d character limit.", MaxReasonLength))
	}
	return nil
}

func (r BanRequest) validate() error {
	if r.BroadcasterID == "" || normalizeUsername(r.TargetUsername) == "" {
		return invalid("Missing required fields: broadcaster_id or target_username.")
	}
	if length(r.Reason) > MaxReasonLength {
		return invalid(fmt.Sprintf("Reason exceeds %d character limit.", MaxReasonLength))
	}
	return nil
}

func (r UnbanRequest) validate() error {
	if r.BroadcasterID == "" || normalizeUsername(r.TargetUsername) == "" {
		return invalid("Missing required fields: broadcaster_id or target_username.")
	}
	return nil
}

func (r WhisperRequest) validate() error {
	if normalizeUsername(r.TargetUsername) == "" || strings.TrimSpace(r.Message) == "" {
		return invalid("Missing required fields: target_username or message.")
	}
	if length(r.Message) > MaxWhisperLength {
		return invalid(fmt.Sprintf("Message exceeds %d character limit.", MaxWhisperLength))
	}
	return nil
}

func (r ChatSettingsRequest) validate() error {
	if r.BroadcasterID == "" || r.Settings == nil || isEmptyUpdate(r.Settings) {
		return invalid("Missing required fields: broadcaster_id or valid settings object.")
	}
	s := r.Settings
	if s.SlowModeWaitTime != nil {
		if isFalse(s.SlowMode) {
			return invalid("slow_mode_wait_time cannot be set when slow_mode is false.")
		}
		if *s.SlowModeWaitTime < MinSlowModeWaitTime || *s.SlowModeWaitTime > MaxSlowModeWaitTime {
			return invalid(fmt.Sprintf("Slow mode wait time must be between %d and %d seconds.", MinSlowModeWaitTime, MaxSlowModeWaitTime))
		}
	}
	if s.FollowerModeDuration != nil {
		if isFalse(s.FollowerMode) {
			return invalid("follower_mode_duration cannot be set when follower_mode is false.")
		}
		if *s.FollowerModeDuration < 0 || *s.FollowerModeDuration > MaxFollowerModeDuration {
			return invalid(fmt.Sprintf("Follower mode duration must be between 0 and %d minutes.", MaxFollowerModeDuration))
		}
	}
	if s.NonModeratorChatDelayDuration != nil {
		if isFalse(s.NonModeratorChatDelay) {
			return invalid("non_moderator_chat_delay_duration cannot be set when non_moderator_chat_delay is false.")
		}
		if !slices.Contains(AllowedChatDelays, *s.NonModeratorChatDelayDuration) {
			return invalid("Non-moderator chat delay must be 2, 4, or 6 seconds.")
		}
	}
	return nil
}

func (r PollRequest) validate() error {
	if r.Title == "" || len(r.Choices) < MinPollChoices || len(r.Choices) > MaxPollChoices || r.Duration == 0 {
		return invalid("Invalid poll data. Title, 2-5 choices, and duration are required.")
	}
	for _, choice := range r.Choices {
		if choice.Title == "" || length(choice.Title) > MaxPollChoiceLength {
			return invalid("Invalid choice title. Max 25 characters per choice.")
		}
	}
	if length(r.Title) > MaxPollTitleLength {
		return invalid("Poll title exceeds 60 characters.")
	}
	if r.Duration < MinPollDuration || r.Duration > MaxPollDuration {
		return invalid("Poll duration must be between 15 and 1800 seconds.")
	}
	if r.ChannelPointsVotingEnabled && r.ChannelPointsPerVote < 1 {
		return invalid("Channel points per vote must be at least 1 if enabled.")
	}
	return nil
}

func (r EndPollRequest) validate() error {
	if r.ID == "" || (r.Status != PollStatusTerminated && r.Status != PollStatusArchived) {
		return invalid("Invalid poll update. id and status (TERMINATED or ARCHIVED) are required.")
	}
	return nil
}

func (r PredictionRequest) validate() error {
	if r.Title == "" || len(r.Outcomes) != NumPredictionOutcomes || r.PredictionWindow == 0 {
		return invalid("Invalid prediction data. Title, exactly 2 outcomes, and prediction window are required.")
	}
	for _, outcome := range r.Outcomes {
		if outcome.Title == "" || length(outcome.Title) > MaxOutcomeTitleLength {
			return invalid("Invalid outcome title. Max 25 characters per outcome.")
		}
	}
	if length(r.Title) > MaxPredictionTitle {
		return invalid("Prediction title exceeds 45 characters.")
	}
	if r.PredictionWindow < MinPredictionWindow || r.PredictionWindow > MaxPredictionWindow {
		return invalid("Prediction window must be between 30 and 1800 seconds.")
	}
	return nil
}

func (r EndPredictionRequest) validate() error {
	switch r.Status {
	case PredictionStatusResolved, PredictionStatusCanceled, PredictionStatusLocked:
	default:
		return invalid("Invalid prediction update. id and status (RESOLVED, CANCELED, or LOCKED) are required.")
	}
	if r.ID == "" {
		return invalid("Invalid prediction update. id and status (RESOLVED, CANCELED, or LOCKED) are required.")
	}
	if r.Status == PredictionStatusResolved && r.WinningOutcomeID == "" {
		return invalid("winning_outcome_id is required when resolving a prediction.")
	}
	return nil
}

func isEmptyUpdate(u *twitch.ChatSettingsUpdate) bool {
	return *u == twitch.ChatSettingsUpdate{}
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}
