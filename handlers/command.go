// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/retropoll/middleware"
	"github.com/danielhkuo/retropoll/models"
	"github.com/danielhkuo/retropoll/poll"
)

type CommandHandler struct {
	poll *poll.Poll
}

func NewCommandHandler(p *poll.Poll) *CommandHandler {
	return &CommandHandler{poll: p}
}

// Apply handles POST /api. One action per request; a failure is scoped to
// the offending request and never disturbs connected viewers.
func (h *CommandHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.CommandRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Action {
	case models.ActionDeclareKey:
		if err := h.poll.Declare(req.Key); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

	case models.ActionPostFeedback:
		if req.Note == nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "note is required")
			return
		}
		if err := h.poll.PostFeedback(req.Key, req.Text, *req.Note); err != nil {
			if errors.Is(err, poll.ErrNotCollecting) {
				middleware.ErrorResponse(w, http.StatusConflict, err.Error())
				return
			}
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

	case models.ActionNewPoll:
		if req.Subject == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "subject is required")
			return
		}
		h.poll.NewPoll(req.Subject)

	case models.ActionForceResults:
		h.poll.ForceResults()

	case models.ActionReset:
		h.poll.Reset()

	default:
		slog.Warn("unknown action", "action", req.Action)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown action")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CommandResponse{Success: true})
}
