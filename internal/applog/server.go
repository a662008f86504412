package applog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golden-vcr/moddeck/internal/sse"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Server struct {
	buffer *Buffer
	stream *sse.Handler[Entry]
}

func NewServer(ctx context.Context, logger zerolog.Logger, buffer *Buffer) *Server {
	return &Server{
		buffer: buffer,
		stream: sse.NewHandler[Entry](ctx, logger, buffer.Updates()),
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/logs").Methods("GET").HandlerFunc(s.handleGetLogs)
	r.Path("/logs/stream").Methods("GET").Handler(s.stream)
}

func (s *Server) handleGetLogs(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("content-type", "application/json")
	json.NewEncoder(res).Encode(struct {
		Logs []Entry `json:"logs"`
	}{
		Logs: s.buffer.Recent(),
	})
}
