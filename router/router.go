// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/danielhkuo/retropoll/handlers"
	"github.com/danielhkuo/retropoll/history"
	"github.com/danielhkuo/retropoll/middleware"
	"github.com/danielhkuo/retropoll/poll"
)

func NewRouter(p *poll.Poll, store *history.Store, retryDelay time.Duration) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	commandHandler := handlers.NewCommandHandler(p)
	eventsHandler := handlers.NewEventsHandler(p)
	statusHandler := handlers.NewStatusHandler(p, store, retryDelay)
	archiveHandler := handlers.NewArchiveHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Command endpoint (one action per request)
	mux.HandleFunc("POST /api", middleware.WithLogging(commandHandler.Apply))

	// Broadcast stream. Not wrapped in WithLogging: the handler blocks for
	// the life of the connection and logs attach/detach itself.
	mux.HandleFunc("GET /event", eventsHandler.Stream)

	// Operator endpoints
	mux.HandleFunc("GET /status", middleware.WithLogging(statusHandler.Status))
	mux.HandleFunc("GET /history", middleware.WithLogging(archiveHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("retropoll API v1"))
	})

	return mux
}
