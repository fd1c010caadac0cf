// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/retropoll/models"
)

// DefaultRetryDelay is the fixed pause between reconnect attempts. There
// is deliberately no exponential backoff and no retry ceiling: a dropped
// stream is always treated as transient.
const DefaultRetryDelay = time.Second

// maxEventBytes caps a single event frame. Results payloads grow with
// participant count and feedback length, well past bufio.Scanner's
// default token limit; a frame over that limit would otherwise kill the
// stream on every reconnect.
const maxEventBytes = 1 << 20

// View is the client's eventually-consistent projection of the server
// state, rebuilt from broadcast messages.
type View struct {
	Version *int64
	State   string
	Subject string
	Pending models.Pending
	Results *models.Results
}

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8666".
	BaseURL string
	// Key is the client's stable identity key.
	Key string
	// RetryDelay overrides DefaultRetryDelay when positive.
	RetryDelay time.Duration
	// OnChange, when set, is invoked with a copy of the view after every
	// merged message.
	OnChange func(View)
	// OnStale, when set, is invoked when the server's epoch version no
	// longer matches a previously observed one. The view is stale at that
	// point; the expected remediation is a restart, not a silent resync.
	OnStale func(previous, current int64)
	// HTTPClient overrides http.DefaultClient.
	HTTPClient *http.Client
}

// Client maintains a resilient event-stream connection and merges
// incoming snapshots and deltas into its local view.
type Client struct {
	baseURL    string
	key        string
	retryDelay time.Duration
	httpc      *http.Client
	onChange   func(View)
	onStale    func(previous, current int64)

	mu        sync.Mutex
	view      View
	connected bool
}

func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		key:        cfg.Key,
		retryDelay: cfg.RetryDelay,
		httpc:      cfg.HTTPClient,
		onChange:   cfg.OnChange,
		onStale:    cfg.OnStale,
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.httpc == nil {
		c.httpc = http.DefaultClient
	}
	return c
}

// Connected reports stream health. False until the first successful open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Snapshot returns a copy of the current view.
func (c *Client) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyViewLocked()
}

func (c *Client) copyViewLocked() View {
	view := c.view
	if c.view.Version != nil {
		v := *c.view.Version
		view.Version = &v
	}
	if c.view.Results != nil {
		results := *c.view.Results
		results.Items = append([]string(nil), c.view.Results.Items...)
		view.Results = &results
	}
	return view
}

// Run connects, reads the stream and reconnects after the fixed delay
// until ctx is cancelled. The identity key is re-declared before every
// connection attempt, so a connect after a server restart registers the
// client in the new epoch.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.Declare(ctx); err != nil {
			slog.Warn("declare failed", "error", err)
		}

		err := c.stream(ctx)
		c.setConnected(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Info("stream closed, retrying", "delay", c.retryDelay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/event", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	c.setConnected(true)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxEventBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var msg models.StateMessage
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg); err != nil {
			slog.Warn("discarding malformed event", "error", err)
			continue
		}
		c.apply(ctx, msg)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New("stream ended")
}

// apply merges one message into the view. Only fields present in the
// message overwrite local state; absent fields keep their prior value.
func (c *Client) apply(ctx context.Context, msg models.StateMessage) {
	c.mu.Lock()

	var stale *[2]int64
	if msg.Version != nil {
		if prev := c.view.Version; prev != nil && *prev != *msg.Version {
			stale = &[2]int64{*prev, *msg.Version}
		}
		v := *msg.Version
		c.view.Version = &v
	}
	if msg.State != "" {
		c.view.State = msg.State
	}
	if msg.Subject != nil {
		c.view.Subject = *msg.Subject
	}
	if msg.Pending != nil {
		c.view.Pending = *msg.Pending
	}
	if msg.Results != nil {
		results := *msg.Results
		results.Items = append([]string(nil), msg.Results.Items...)
		c.view.Results = &results
	}

	view := c.copyViewLocked()
	c.mu.Unlock()

	if stale != nil && c.onStale != nil {
		c.onStale(stale[0], stale[1])
	}
	if msg.Reset {
		// Server-side bookkeeping was wiped; re-register without waiting
		// for the user or a reconnect.
		if err := c.Declare(ctx); err != nil {
			slog.Warn("re-declare after reset failed", "error", err)
		}
	}
	if c.onChange != nil {
		c.onChange(view)
	}
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	c.connected = connected
	c.mu.Unlock()
}
