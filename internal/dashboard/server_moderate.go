package dashboard

import (
	"net/http"

	"github.com/golden-vcr/moddeck/internal/moderation"
)

const broadcasterIdHeader = "X-Broadcaster-ID"

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleTimeout(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	var body moderation.TimeoutRequest
	if !decodeBody(res, req, &body) {
		return
	}
	message, err := s.actions.Timeout(req.Context(), sess, body)
	if err != nil {
		s.respondError(res, err, "Failed to timeout user.")
		return
	}
	respondJSON(res, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (s *Server) handleBan(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	var body moderation.BanRequest
	if !decodeBody(res, req, &body) {
		return
	}
	message, err := s.actions.Ban(req.Context(), sess, body)
	if err != nil {
		s.respondError(res, err, "Failed to ban user.")
		return
	}
	respondJSON(res, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (s *Server) handleUnban(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	var body moderation.UnbanRequest
	if !decodeBody(res, req, &body) {
		return
	}
	message, err := s.actions.Unban(req.Context(), sess, body)
	if err != nil {
		s.respondError(res, err, "Failed to unban user.")
		return
	}
	respondJSON(res, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (s *Server) handleWhisper(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	var body moderation.WhisperRequest
	if !decodeBody(res, req, &body) {
		return
	}
	message, err := s.actions.Whisper(req.Context(), sess, body)
	if err != nil {
		s.respondError(res, err, "Failed to send whisper.")
		return
	}
	respondJSON(res, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (s *Server) handleUpdateChatSettings(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	var body moderation.ChatSettingsRequest
	if !decodeBody(res, req, &body) {
		return
	}
	settings, err := s.actions.UpdateChatSettings(req.Context(), sess, body)
	if err != nil {
		s.respondError(res, err, "Failed to update chat settings.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
		"message":  "Chat settings updated successfully.",
	})
}

func (s *Server) handleCreatePoll(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId, ok := requireBroadcasterHeader(res, req)
	if !ok {
		return
	}
	var body moderation.PollRequest
	if !decodeBody(res, req, &body) {
		return
	}
	poll, err := s.actions.CreatePoll(req.Context(), sess, broadcasterId, body)
	if err != nil {
		s.respondError(res, err, "Failed to create poll.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]interface{}{
		"success": true,
		"poll":    poll,
		"message": "Poll created successfully.",
	})
}

func (s *Server) handleEndPoll(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId, ok := requireBroadcasterHeader(res, req)
	if !ok {
		return
	}
	var body moderation.EndPollRequest
	if !decodeBody(res, req, &body) {
		return
	}
	poll, err := s.actions.EndPoll(req.Context(), sess, broadcasterId, body)
	if err != nil {
		s.respondError(res, err, "Failed to end poll.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]interface{}{
		"success": true,
		"poll":    poll,
		"message": "Poll ended successfully.",
	})
}

func (s *Server) handleCreatePrediction(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId, ok := requireBroadcasterHeader(res, req)
	if !ok {
		return
	}
	var body moderation.PredictionRequest
	if !decodeBody(res, req, &body) {
		return
	}
	prediction, err := s.actions.CreatePrediction(req.Context(), sess, broadcasterId, body)
	if err != nil {
		s.respondError(res, err, "Failed to create prediction.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]interface{}{
		"success":    true,
		"prediction": prediction,
		"message":    "Prediction created successfully.",
	})
}

func (s *Server) handleEndPrediction(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId, ok := requireBroadcasterHeader(res, req)
	if !ok {
		return
	}
	var body moderation.EndPredictionRequest
	if !decodeBody(res, req, &body) {
		return
	}
	prediction, err := s.actions.EndPrediction(req.Context(), sess, broadcasterId, body)
	if err != nil {
		s.respondError(res, err, "Failed to end prediction.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]interface{}{
		"success":    true,
		"prediction": prediction,
		"message":    "Prediction ended successfully.",
	})
}

func requireBroadcasterHeader(res http.ResponseWriter, req *http.Request) (string, bool) {
	broadcasterId := req.Header.Get(broadcasterIdHeader)
	if broadcasterId == "" {
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: "X-Broadcaster-ID header is required."})
		return "", false
	}
	return broadcasterId, true
}
