// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll phase constants
const (
	PhaseInitial  = "initial"
	PhaseFeedback = "feedback"
	PhaseReview   = "review"
)

// Command action constants
const (
	ActionDeclareKey   = "declare-key"
	ActionPostFeedback = "post-feedback"
	ActionNewPoll      = "new-poll"
	ActionForceResults = "force-results"
	ActionReset        = "reset"
)

// NoteMin and NoteMax bound the rating scale.
const (
	NoteMin = 0
	NoteMax = 5
)

// HistogramBuckets is the number of note buckets (notes 0 through 5).
const HistogramBuckets = NoteMax - NoteMin + 1

// Request types

// CommandRequest is the single envelope accepted by POST /api.
// Only the fields relevant to the action need to be set.
type CommandRequest struct {
	Action  string `json:"action"`
	Key     string `json:"key,omitempty"`
	Text    string `json:"text,omitempty"`
	Note    *int   `json:"note,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Response types

type CommandResponse struct {
	Success bool `json:"success"`
}

// Domain types

// Response is one participant's submission for the current poll.
type Response struct {
	Text string `json:"text"`
	Note int    `json:"note"`
}

// Pending reports submission progress during the feedback phase.
type Pending struct {
	Received int `json:"received"`
	Expected int `json:"expected"`
}

// Results is the aggregate view computed when a poll enters review.
// Items are the non-blank feedback texts in submission order; Histogram
// counts responses per note value.
type Results struct {
	Subject   string                `json:"subject"`
	Items     []string              `json:"items"`
	Histogram [HistogramBuckets]int `json:"histogram"`
}

// StateMessage is one broadcast payload. Every field is optional: a full
// snapshot carries all of them, a delta carries only what changed. Clients
// merge present fields and keep prior values for absent ones, so the
// distinction between "absent" and "zero" matters - hence the pointers.
type StateMessage struct {
	Version *int64   `json:"version,omitempty"`
	State   string   `json:"state,omitempty"`
	Subject *string  `json:"subject,omitempty"`
	Pending *Pending `json:"pending,omitempty"`
	Results *Results `json:"results,omitempty"`
	Reset   bool     `json:"reset,omitempty"`
}

// ArchivedPoll is one finalized poll kept by the history archive.
type ArchivedPoll struct {
	ID         string                `json:"id"`
	Subject    string                `json:"subject"`
	Items      []string              `json:"items"`
	Histogram  [HistogramBuckets]int `json:"histogram"`
	Responses  int                   `json:"responses"`
	ComputedAt time.Time             `json:"computed_at"`
}

// StatusResponse is returned by GET /status. RetryDelay is the reconnect
// delay the operator configured; clients may adopt it instead of their
// own default.
type StatusResponse struct {
	Version     int64  `json:"version"`
	Phase       string `json:"phase"`
	Subscribers int    `json:"subscribers"`
	Uptime      string `json:"uptime"`
	Archived    int64  `json:"archived"`
	RetryDelay  string `json:"retry_delay"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
