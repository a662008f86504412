package dashboard

import (
	"net/http"

	"github.com/golden-vcr/moddeck/internal/twitch"
)

// stream is a followed live stream annotated with its 1-based position in the list
// returned by Twitch
type stream struct {
	twitch.Stream
	Order int `json:"order"`
}

func (s *Server) handleGetUser(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	user, err := s.twitch.GetUser(req.Context(), sess.AccessToken)
	if err != nil {
		s.respondError(res, err, "Failed to get user details.")
		return
	}
	respondJSON(res, http.StatusOK, map[string]*twitch.User{"user": user})
}

func (s *Server) handleGetStreams(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	followed, err := s.twitch.GetFollowedStreams(req.Context(), sess.AccessToken, sess.UserID)
	if err != nil {
		s.respondError(res, err, "Failed to get followed streams.")
		return
	}
	streams := make([]stream, 0, len(followed))
	for i := range followed {
		streams = append(streams, stream{Stream: followed[i], Order: i + 1})
	}
	respondJSON(res, http.StatusOK, map[string][]stream{"streams": streams})
}

func (s *Server) handleGetChatters(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId := req.URL.Query().Get("broadcaster_id")
	if broadcasterId == "" {
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: "Missing required field: broadcaster_id."})
		return
	}
	chatters, err := s.twitch.GetChatters(req.Context(), sess.AccessToken, broadcasterId, sess.UserID)
	if err != nil {
		s.respondError(res, err, "Failed to get chatters.")
		return
	}
	respondJSON(res, http.StatusOK, map[string][]twitch.Chatter{"chatters": chatters})
}

func (s *Server) handleGetChatSettings(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId := req.URL.Query().Get("broadcaster_id")
	if broadcasterId == "" {
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: "Missing required field: broadcaster_id."})
		return
	}
	settings, err := s.twitch.GetChatSettings(req.Context(), sess.AccessToken, broadcasterId, sess.UserID)
	if err != nil {
		s.respondError(res, err, "Failed to get chat settings. Please ensure you have the necessary permissions for this channel.")
		return
	}
	respondJSON(res, http.StatusOK, settings)
}

func (s *Server) handleGetIsModerator(res http.ResponseWriter, req *http.Request) {
	sess := requireSession(res, req)
	if sess == nil {
		return
	}
	broadcasterId := req.URL.Query().Get("broadcaster_id")
	if broadcasterId == "" {
		respondJSON(res, http.StatusBadRequest, errorResponse{Error: "Missing required field: broadcaster_id."})
		return
	}
	isModerator := s.moderator.IsModerator(req.Context(), broadcasterId, sess.UserID, sess.AccessToken)
	respondJSON(res, http.StatusOK, map[string]bool{"isModerator": isModerator})
}
