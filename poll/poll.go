// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/retropoll/broadcast"
	"github.com/danielhkuo/retropoll/models"
	"github.com/danielhkuo/retropoll/session"
)

var (
	ErrEmptyKey      = errors.New("key is required")
	ErrNoteRange     = fmt.Errorf("note must be an integer between %d and %d", models.NoteMin, models.NoteMax)
	ErrNotCollecting = errors.New("poll is not collecting feedback")
)

// Archiver receives each finalized poll. The history package implements it;
// tests stub it out.
type Archiver interface {
	Archive(subject string, items []string, histogram [models.HistogramBuckets]int, responses int) error
}

// Poll is the authoritative server-side state for the single live poll.
// Every command is applied atomically under mu before the next is accepted,
// and every mutation publishes a delta through the hub while still holding
// the lock, so subscribers observe mutations in application order.
type Poll struct {
	mu sync.Mutex

	version   int64
	phase     string
	subject   string
	responses map[string]models.Response
	order     []string // response keys in first-submission order
	results   *models.Results

	registry *session.Registry
	hub      *broadcast.Hub
	archiver Archiver
}

// New creates a poll in the initial phase at epoch version 1. A fresh
// process always starts a fresh epoch, so a restart reads as a version
// change to any client that was connected before it.
func New(hub *broadcast.Hub, archiver Archiver) *Poll {
	return &Poll{
		version:   1,
		phase:     models.PhaseInitial,
		responses: make(map[string]models.Response),
		registry:  session.NewRegistry(),
		hub:       hub,
		archiver:  archiver,
	}
}

// Subscribe atomically snapshots the current state and attaches a new
// subscriber whose first delivered message is that snapshot. Holding mu
// here means no publish can slip between the snapshot and the attach.
func (p *Poll) Subscribe() *broadcast.Subscriber {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hub.Subscribe(p.snapshotLocked())
}

// Unsubscribe detaches a subscriber created by Subscribe.
func (p *Poll) Unsubscribe(sub *broadcast.Subscriber) {
	p.hub.Unsubscribe(sub)
}

// Snapshot returns the full current state as a broadcast message.
func (p *Poll) Snapshot() models.StateMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Poll) snapshotLocked() models.StateMessage {
	version := p.version
	subject := p.subject
	msg := models.StateMessage{
		Version: &version,
		State:   p.phase,
		Subject: &subject,
		Pending: p.pendingLocked(),
	}
	if p.results != nil {
		results := *p.results
		results.Items = append([]string(nil), p.results.Items...)
		msg.Results = &results
	}
	return msg
}

func (p *Poll) pendingLocked() *models.Pending {
	return &models.Pending{
		Received: len(p.responses),
		Expected: p.registry.Expected(),
	}
}

// Version returns the current epoch version.
func (p *Poll) Version() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// Phase returns the current phase.
func (p *Poll) Phase() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Subscribers returns the number of attached viewers.
func (p *Poll) Subscribers() int {
	return p.hub.Len()
}

// Declare idempotently registers key as an expected participant for the
// current epoch and broadcasts the updated pending counts.
func (p *Poll) Declare(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registry.Declare(key) {
		slog.Info("participant declared", "expected", p.registry.Expected())
	}
	p.hub.Publish(models.StateMessage{Pending: p.pendingLocked()})
	return nil
}

// PostFeedback records one participant's response. Only legal during the
// feedback phase; a key that never declared is declared implicitly, and a
// resubmission overwrites the prior response (last-write-wins). When the
// final expected response arrives the poll flushes into review.
func (p *Poll) PostFeedback(key, text string, note int) error {
	if key == "" {
		return ErrEmptyKey
	}
	if note < models.NoteMin || note > models.NoteMax {
		return ErrNoteRange
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != models.PhaseFeedback {
		return ErrNotCollecting
	}

	p.registry.MarkResponded(key)
	if _, seen := p.responses[key]; !seen {
		p.order = append(p.order, key)
	}
	p.responses[key] = models.Response{Text: text, Note: note}

	slog.Info("feedback received",
		"received", len(p.responses),
		"expected", p.registry.Expected(),
	)

	if expected := p.registry.Expected(); expected > 0 && len(p.responses) >= expected {
		p.flushLocked()
		p.hub.Publish(p.reviewDeltaLocked())
		return nil
	}

	p.hub.Publish(models.StateMessage{Pending: p.pendingLocked()})
	return nil
}

// NewPoll starts collecting feedback on a new subject. Responses are
// cleared but declared keys persist as the expected baseline; the epoch
// version is untouched.
func (p *Poll) NewPoll(subject string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subject = subject
	p.responses = make(map[string]models.Response)
	p.order = nil
	p.results = nil
	p.registry.ClearResponded()
	p.phase = models.PhaseFeedback

	slog.Info("poll created", "subject", subject, "expected", p.registry.Expected())
	p.hub.Publish(p.snapshotLocked())
}

// ForceResults short-circuits into review over whatever responses have
// been received so far. Outside the feedback phase there is nothing to
// finalize, so a repeated or stray force is a no-op; without the guard a
// double-click on the force button would archive the same poll twice.
func (p *Poll) ForceResults() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != models.PhaseFeedback {
		return
	}

	p.flushLocked()
	slog.Info("results forced", "responses", len(p.order))
	p.hub.Publish(p.reviewDeltaLocked())
}

// Reset tears down the whole epoch: registry, responses, subject and
// results are wiped, the version is bumped, and the broadcast carries a
// reset marker so connected clients re-declare their identity.
func (p *Poll) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.version++
	p.phase = models.PhaseInitial
	p.subject = ""
	p.responses = make(map[string]models.Response)
	p.order = nil
	p.results = nil
	p.registry.Reset()

	slog.Info("epoch reset", "version", p.version)

	msg := p.snapshotLocked()
	msg.Reset = true
	p.hub.Publish(msg)
}

// flushLocked computes results from received responses and enters review.
// Blank texts are dropped from the item list but still count in the
// histogram and the received total.
func (p *Poll) flushLocked() {
	results := &models.Results{
		Subject: p.subject,
		Items:   []string{},
	}
	for _, key := range p.order {
		resp := p.responses[key]
		if strings.TrimSpace(resp.Text) != "" {
			results.Items = append(results.Items, resp.Text)
		}
		results.Histogram[resp.Note]++
	}
	p.results = results
	p.phase = models.PhaseReview

	if p.archiver != nil {
		if err := p.archiver.Archive(results.Subject, results.Items, results.Histogram, len(p.order)); err != nil {
			slog.Error("failed to archive poll", "error", err, "subject", results.Subject)
		}
	}
}

func (p *Poll) reviewDeltaLocked() models.StateMessage {
	results := *p.results
	results.Items = append([]string(nil), p.results.Items...)
	return models.StateMessage{
		State:   p.phase,
		Pending: p.pendingLocked(),
		Results: &results,
	}
}
