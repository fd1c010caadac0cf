// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/retropoll/middleware"
	"github.com/danielhkuo/retropoll/poll"
)

type EventsHandler struct {
	poll *poll.Poll
}

func NewEventsHandler(p *poll.Poll) *EventsHandler {
	return &EventsHandler{poll: p}
}

// Stream handles GET /event. It attaches the caller as a broadcast
// subscriber and writes each published state message as a server-sent
// event. The first event is always a full snapshot of the current state.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.poll.Subscribe()
	defer h.poll.Unsubscribe(sub)

	slog.Info("viewer connected", "subscriber_id", sub.ID, "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("viewer disconnected", "subscriber_id", sub.ID)
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				slog.Error("failed to encode state message", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				slog.Info("viewer write failed", "subscriber_id", sub.ID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
