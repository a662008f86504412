package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Handler is an HTTP handler that serves a stream of data using Server-Sent Events
type Handler[T any] struct {
	ctx    context.Context
	logger zerolog.Logger
	b      bus[T]

	OnConnectEventFunc func() T
}

// NewHandler initializes an SSE handler that will read messages from the given channel
// and fan them out to all extant HTTP connections
func NewHandler[T any](ctx context.Context, logger zerolog.Logger, ch <-chan T) *Handler[T] {
	h := &Handler[T]{
		ctx:    ctx,
		logger: logger,
		b: bus[T]{
			chs: make(map[chan T]struct{}),
		},
	}
	go func() {
		done := false
		for !done {
			select {
			case <-ctx.Done():
				done = true
				h.b.clear()
			case message := <-ch:
				h.b.publish(message)
			}
		}
	}()
	return h
}

// ServeHTTP responds by opening a long-lived HTTP connection to which events will be
// written as the handler receives them, formatted as text/event-stream messages with
// 'data' consisting of a JSON-encoded message payload
func (h *Handler[T]) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	// If a content-type is explicitly requested, require that it's text/event-stream
	accept := req.Header.Get("accept")
	if accept != "" && accept != "*/*" && !strings.HasPrefix(accept, "text/event-stream") {
		message := fmt.Sprintf("content-type %s is not supported", accept)
		http.Error(res, message, http.StatusBadRequest)
		return
	}

	// Keep the connection alive and open a text/event-stream response body
	res.Header().Set("content-type", "text/event-stream")
	res.Header().Set("cache-control", "no-cache")
	res.Header().Set("connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.(http.Flusher).Flush()

	// If configured to send an initial value immediately upon connect, resolve that
	// value and send it: otherwise send an initial keepalive comment so that proxies
	// start streaming immediately
	if h.OnConnectEventFunc != nil {
		message := h.OnConnectEventFunc()
		data, err := json.Marshal(message)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to serialize SSE message as JSON")
		} else {
			fmt.Fprintf(res, "data: %s\n\n", data)
			res.(http.Flusher).Flush()
		}
	} else {
		res.Write([]byte(":\n\n"))
		res.(http.Flusher).Flush()
	}

	ch := make(chan T, 32)
	h.b.register(ch)

	h.logger.Debug().Str("remoteAddr", req.RemoteAddr).Msg("Opened SSE connection")
	for {
		select {
		case <-time.After(30 * time.Second):
			res.Write([]byte(":\n\n"))
			res.(http.Flusher).Flush()
		case message := <-ch:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to serialize SSE message as JSON")
				continue
			}
			fmt.Fprintf(res, "data: %s\n\n", data)
			res.(http.Flusher).Flush()
		case <-h.ctx.Done():
			h.logger.Debug().Str("remoteAddr", req.RemoteAddr).Msg("Server is shutting down; abandoning SSE connection")
			h.b.unregister(ch)
			return
		case <-req.Context().Done():
			h.logger.Debug().Str("remoteAddr", req.RemoteAddr).Msg("SSE connection closed")
			h.b.unregister(ch)
			return
		}
	}
}
