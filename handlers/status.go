// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/retropoll/history"
	"github.com/danielhkuo/retropoll/middleware"
	"github.com/danielhkuo/retropoll/models"
	"github.com/danielhkuo/retropoll/poll"
)

type StatusHandler struct {
	poll       *poll.Poll
	store      *history.Store
	retryDelay time.Duration
	startedAt  time.Time
}

func NewStatusHandler(p *poll.Poll, store *history.Store, retryDelay time.Duration) *StatusHandler {
	return &StatusHandler{poll: p, store: store, retryDelay: retryDelay, startedAt: time.Now()}
}

// Status handles GET /status with an operator-facing summary.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	archived, err := h.store.Count()
	if err != nil {
		slog.Error("failed to count archived polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Archive error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		Version:     h.poll.Version(),
		Phase:       h.poll.Phase(),
		Subscribers: h.poll.Subscribers(),
		Uptime:      humanize.Time(h.startedAt),
		Archived:    archived,
		RetryDelay:  h.retryDelay.String(),
	})
}
