// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command viewer is a terminal client for a retropoll server: it keeps a
// live view of the current poll and prints every state change.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/retropoll/identity"
	"github.com/danielhkuo/retropoll/models"
	"github.com/danielhkuo/retropoll/syncclient"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8666", "Server base URL")
	identityDir := flag.String("identity-dir", "", "Identity key directory (default: user config dir)")
	retryDelay := flag.Duration("retry-delay", syncclient.DefaultRetryDelay, "Reconnect delay")
	flag.Parse()

	store, err := identity.NewStore(*identityDir)
	if err != nil {
		slog.Error("identity store unavailable", "error", err)
		os.Exit(1)
	}
	key, err := store.GetOrCreateKey()
	if err != nil {
		slog.Error("identity key unavailable", "error", err)
		os.Exit(1)
	}

	startedAt := time.Now()
	client := syncclient.New(syncclient.Config{
		BaseURL:    *serverURL,
		Key:        key,
		RetryDelay: *retryDelay,
		OnChange: func(view syncclient.View) {
			render(view, startedAt)
		},
		OnStale: func(previous, current int64) {
			fmt.Printf("\n*** server state was replaced (epoch %d -> %d); restart the viewer for a clean view ***\n",
				previous, current)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("viewer starting", "server", *serverURL, "key", key)
	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}

func render(view syncclient.View, startedAt time.Time) {
	fmt.Printf("\n[%s] watching since %s\n", view.State, humanize.Time(startedAt))

	switch view.State {
	case models.PhaseInitial:
		fmt.Println("Waiting for the admin to create a poll.")
	case models.PhaseFeedback:
		fmt.Printf("Subject: %s\n", view.Subject)
		fmt.Printf("Responses: %d / Participants: %d\n", view.Pending.Received, view.Pending.Expected)
	case models.PhaseReview:
		if view.Results == nil {
			return
		}
		fmt.Printf("Poll result for %s:\n", view.Results.Subject)
		max := 1
		for _, n := range view.Results.Histogram {
			if n > max {
				max = n
			}
		}
		for note, n := range view.Results.Histogram {
			bar := strings.Repeat("#", 40*n/max)
			fmt.Printf("  %d | %-40s %d\n", note, bar, n)
		}
		for _, item := range view.Results.Items {
			fmt.Printf("  - %s\n", item)
		}
	}
}
