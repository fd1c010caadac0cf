package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/retropoll/broadcast"
	"github.com/danielhkuo/retropoll/cliparse"
	"github.com/danielhkuo/retropoll/history"
	"github.com/danielhkuo/retropoll/middleware"
	"github.com/danielhkuo/retropoll/poll"
	"github.com/danielhkuo/retropoll/router"
)

func main() {
	setupLogging()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the per-process history archive
	store, err := history.Open(cfg.HistoryDSN)
	if err != nil {
		slog.Error("history store open failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("History archive ready")

	// Build the poll core: one authoritative state machine, one hub
	p := poll.New(broadcast.NewHub(), store)

	// Create router. The retry delay is advertised via /status so clients
	// can adopt the operator's setting.
	mux := router.NewRouter(p, store, cfg.RetryDelay)

	// Create server. Browser clients may live on another origin.
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// setupLogging picks a text handler for interactive terminals and JSON
// for everything else (log collectors want one object per line).
func setupLogging() {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return // default slog text handler
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
}
