// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielhkuo/retropoll/models"
)

// Command senders. Commands are fire-and-forget from the caller's point
// of view: a success response only means the command was accepted, and
// the resulting state change arrives over the broadcast stream.

// Declare registers this client's identity key for the current epoch.
func (c *Client) Declare(ctx context.Context) error {
	return c.call(ctx, models.CommandRequest{
		Action: models.ActionDeclareKey,
		Key:    c.key,
	})
}

// PostFeedback submits (or resubmits) this client's response.
func (c *Client) PostFeedback(ctx context.Context, text string, note int) error {
	return c.call(ctx, models.CommandRequest{
		Action: models.ActionPostFeedback,
		Key:    c.key,
		Text:   text,
		Note:   &note,
	})
}

// NewPoll starts a new poll on the given subject (admin).
func (c *Client) NewPoll(ctx context.Context, subject string) error {
	return c.call(ctx, models.CommandRequest{
		Action:  models.ActionNewPoll,
		Subject: subject,
	})
}

// ForceResults finalizes the poll over the responses received so far (admin).
func (c *Client) ForceResults(ctx context.Context) error {
	return c.call(ctx, models.CommandRequest{Action: models.ActionForceResults})
}

// Reset wipes the server epoch (admin).
func (c *Client) Reset(ctx context.Context) error {
	return c.call(ctx, models.CommandRequest{Action: models.ActionReset})
}

func (c *Client) call(ctx context.Context, cmd models.CommandRequest) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%s rejected: %s", cmd.Action, errResp.Message)
		}
		return fmt.Errorf("%s rejected: status %d", cmd.Action, resp.StatusCode)
	}
	return nil
}
