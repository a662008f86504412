package twitch

import (
	"context"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

func (c *Client) CreatePoll(ctx context.Context, accessToken string, poll CreatePollRequest) (*Poll, error) {
	choices := make([]helix.PollChoiceParam, 0, len(poll.Choices))
	for _, choice := range poll.Choices {
		choices = append(choices, helix.PollChoiceParam{Title: choice.Title})
	}
	return c.callPolls(ctx, accessToken, http.MethodPost, func(h *helix.Client) (*helix.PollsResponse, error) {
		return h.CreatePoll(&helix.CreatePollParams{
			BroadcasterID:              poll.BroadcasterID,
			Title:                      poll.Title,
			Choices:                    choices,
			Duration:                   poll.Duration,
			ChannelPointsVotingEnabled: poll.ChannelPointsVotingEnabled,
			ChannelPointsPerVote:       poll.ChannelPointsPerVote,
		})
	})
}

func (c *Client) EndPoll(ctx context.Context, accessToken string, end EndPollRequest) (*Poll, error) {
	return c.callPolls(ctx, accessToken, http.MethodPatch, func(h *helix.Client) (*helix.PollsResponse, error) {
		return h.EndPoll(&helix.EndPollParams{
			BroadcasterID: end.BroadcasterID,
			ID:            end.ID,
			Status:        end.Status,
		})
	})
}

func (c *Client) callPolls(ctx context.Context, accessToken string, method string, fn func(h *helix.Client) (*helix.PollsResponse, error)) (*Poll, error) {
	var polls []helix.Poll
	err := c.call(ctx, accessToken, method, "/polls", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := fn(h)
		if err != nil {
			return nil, err
		}
		polls = r.Data.Polls
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	p, err := first(polls)
	if err != nil {
		return nil, err
	}
	return fromHelixPoll(p), nil
}

func (c *Client) CreatePrediction(ctx context.Context, accessToken string, prediction CreatePredictionRequest) (*Prediction, error) {
	outcomes := make([]helix.PredictionChoiceParam, 0, len(prediction.Outcomes))
	for _, outcome := range prediction.Outcomes {
		outcomes = append(outcomes, helix.PredictionChoiceParam{Title: outcome.Title})
	}
	return c.callPredictions(ctx, accessToken, http.MethodPost, func(h *helix.Client) (*helix.PredictionsResponse, error) {
		return h.CreatePrediction(&helix.CreatePredictionParams{
			BroadcasterID:    prediction.BroadcasterID,
			Title:            prediction.Title,
			Outcomes:         outcomes,
			PredictionWindow: prediction.PredictionWindow,
		})
	})
}

func (c *Client) EndPrediction(ctx context.Context, accessToken string, end EndPredictionRequest) (*Prediction, error) {
	return c.callPredictions(ctx, accessToken, http.MethodPatch, func(h *helix.Client) (*helix.PredictionsResponse, error) {
		return h.EndPrediction(&helix.EndPredictionParams{
			BroadcasterID:    end.BroadcasterID,
			ID:               end.ID,
			Status:           end.Status,
			WinningOutcomeID: end.WinningOutcomeID,
		})
	})
}

func (c *Client) callPredictions(ctx context.Context, accessToken string, method string, fn func(h *helix.Client) (*helix.PredictionsResponse, error)) (*Prediction, error) {
	var predictions []helix.Prediction
	err := c.call(ctx, accessToken, method, "/predictions", func(h *helix.Client) (*helix.ResponseCommon, error) {
		r, err := fn(h)
		if err != nil {
			return nil, err
		}
		predictions = r.Data.Predictions
		return &r.ResponseCommon, nil
	})
	if err != nil {
		return nil, err
	}
	p, err := first(predictions)
	if err != nil {
		return nil, err
	}
	return fromHelixPrediction(p), nil
}
