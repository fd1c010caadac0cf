// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/retropoll/history"
	"github.com/danielhkuo/retropoll/middleware"
)

type ArchiveHandler struct {
	store *history.Store
}

func NewArchiveHandler(store *history.Store) *ArchiveHandler {
	return &ArchiveHandler{store: store}
}

// List handles GET /history. The archive only spans the current process
// lifetime; it exists so the admin can revisit earlier results from the
// same session, not as durable storage.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	archived, err := h.store.List()
	if err != nil {
		slog.Error("failed to list archived polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Archive error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, archived)
}
