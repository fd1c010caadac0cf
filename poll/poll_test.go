// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"testing"

	"github.com/danielhkuo/retropoll/broadcast"
	"github.com/danielhkuo/retropoll/models"
)

func newPoll() *Poll {
	return New(broadcast.NewHub(), nil)
}

func TestDeclareIsIdempotent(t *testing.T) {
	p := newPoll()

	if err := p.Declare("alice"); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if err := p.Declare("alice"); err != nil {
		t.Fatalf("Repeat declare failed: %v", err)
	}

	snap := p.Snapshot()
	if snap.Pending.Expected != 1 {
		t.Errorf("Expected 1 participant after double declare, got %d", snap.Pending.Expected)
	}

	if err := p.Declare("bob"); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if snap := p.Snapshot(); snap.Pending.Expected != 2 {
		t.Errorf("Expected 2 participants, got %d", snap.Pending.Expected)
	}
}

func TestDeclareRequiresKey(t *testing.T) {
	p := newPoll()
	if err := p.Declare(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Expected ErrEmptyKey, got %v", err)
	}
}

func TestPostFeedbackLastWriteWins(t *testing.T) {
	p := newPoll()
	p.Declare("alice")
	p.Declare("bob")
	p.NewPoll("retro")

	if err := p.PostFeedback("alice", "a", 3); err != nil {
		t.Fatalf("PostFeedback failed: %v", err)
	}
	if err := p.PostFeedback("alice", "b", 5); err != nil {
		t.Fatalf("Resubmission failed: %v", err)
	}

	snap := p.Snapshot()
	if snap.Pending.Received != 1 {
		t.Errorf("Expected received unchanged at 1 after resubmission, got %d", snap.Pending.Received)
	}

	// Finalize and check the surviving response
	p.ForceResults()
	snap = p.Snapshot()
	if snap.Results == nil {
		t.Fatal("Expected results after force")
	}
	if len(snap.Results.Items) != 1 || snap.Results.Items[0] != "b" {
		t.Errorf("Expected single item 'b', got %v", snap.Results.Items)
	}
	if snap.Results.Histogram[5] != 1 || snap.Results.Histogram[3] != 0 {
		t.Errorf("Expected note 5 to win, histogram %v", snap.Results.Histogram)
	}
}

func TestPostFeedbackRejectsOutOfRangeNote(t *testing.T) {
	p := newPoll()
	p.Declare("alice")
	p.NewPoll("retro")

	for _, note := range []int{-1, 6, 100} {
		if err := p.PostFeedback("alice", "x", note); !errors.Is(err, ErrNoteRange) {
			t.Errorf("Expected ErrNoteRange for note %d, got %v", note, err)
		}
	}

	// Rejection must not mutate state
	if snap := p.Snapshot(); snap.Pending.Received != 0 {
		t.Errorf("Expected no responses after rejected notes, got %d", snap.Pending.Received)
	}
}

func TestPostFeedbackOutsideFeedbackPhase(t *testing.T) {
	p := newPoll()

	// initial phase
	if err := p.PostFeedback("alice", "x", 3); !errors.Is(err, ErrNotCollecting) {
		t.Errorf("Expected ErrNotCollecting in initial phase, got %v", err)
	}

	// review phase (late straggler after finalization)
	p.Declare("alice")
	p.NewPoll("retro")
	p.ForceResults()
	if err := p.PostFeedback("alice", "late", 2); !errors.Is(err, ErrNotCollecting) {
		t.Errorf("Expected ErrNotCollecting in review phase, got %v", err)
	}
}

func TestAutoTransitionOnLastResponse(t *testing.T) {
	p := newPoll()
	p.Declare("a")
	p.Declare("b")
	p.Declare("c")
	p.NewPoll("retro")

	p.PostFeedback("a", "one", 1)
	p.PostFeedback("b", "two", 2)
	if p.Phase() != models.PhaseFeedback {
		t.Fatalf("Expected feedback phase before last response, got %s", p.Phase())
	}

	p.PostFeedback("c", "three", 3)
	if p.Phase() != models.PhaseReview {
		t.Fatalf("Expected review phase after last response, got %s", p.Phase())
	}

	snap := p.Snapshot()
	total := 0
	for _, n := range snap.Results.Histogram {
		total += n
	}
	if total != 3 {
		t.Errorf("Expected histogram to sum to 3, got %d (%v)", total, snap.Results.Histogram)
	}
}

func TestNoAutoTransitionWithoutParticipants(t *testing.T) {
	p := newPoll()
	p.NewPoll("retro")

	// An undeclared key auto-declares, making expected == received == 1,
	// which does trigger the transition; that is the declared baseline.
	// But with zero declared keys and zero responses nothing fires.
	if p.Phase() != models.PhaseFeedback {
		t.Fatalf("Expected feedback phase, got %s", p.Phase())
	}
}

func TestPostFeedbackAutoDeclares(t *testing.T) {
	p := newPoll()
	p.Declare("alice")
	p.Declare("bob")
	p.NewPoll("retro")

	// carol never declared; her submission registers her
	p.PostFeedback("carol", "hi", 4)

	snap := p.Snapshot()
	if snap.Pending.Expected != 3 {
		t.Errorf("Expected 3 participants after auto-declare, got %d", snap.Pending.Expected)
	}
	if snap.Pending.Received != 1 {
		t.Errorf("Expected 1 response, got %d", snap.Pending.Received)
	}
}

func TestHistogramCorrectness(t *testing.T) {
	p := newPoll()
	keys := []string{"k0", "k1", "k2", "k3"}
	for _, k := range keys {
		p.Declare(k)
	}
	p.NewPoll("retro")

	notes := []int{0, 2, 2, 5}
	for i, k := range keys {
		if err := p.PostFeedback(k, "t", notes[i]); err != nil {
			t.Fatalf("PostFeedback(%s) failed: %v", k, err)
		}
	}

	snap := p.Snapshot()
	if snap.Results == nil {
		t.Fatal("Expected results")
	}
	expected := [models.HistogramBuckets]int{1, 0, 2, 0, 0, 1}
	if snap.Results.Histogram != expected {
		t.Errorf("Expected histogram %v, got %v", expected, snap.Results.Histogram)
	}
}

func TestForceResultsShortCircuit(t *testing.T) {
	p := newPoll()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		p.Declare(k)
	}
	p.NewPoll("retro")

	p.PostFeedback("a", "first", 1)
	p.PostFeedback("b", "second", 4)

	p.ForceResults()

	if p.Phase() != models.PhaseReview {
		t.Fatalf("Expected review phase, got %s", p.Phase())
	}

	snap := p.Snapshot()
	total := 0
	for _, n := range snap.Results.Histogram {
		total += n
	}
	if total != 2 {
		t.Errorf("Expected results over 2 received responses, histogram sums to %d", total)
	}
	if len(snap.Results.Items) != 2 {
		t.Errorf("Expected 2 items, got %v", snap.Results.Items)
	}
}

func TestResultsItemsInSubmissionOrder(t *testing.T) {
	p := newPoll()
	p.Declare("a")
	p.Declare("b")
	p.Declare("c")
	p.NewPoll("retro")

	p.PostFeedback("b", "second submitter", 2)
	p.PostFeedback("a", "first submitter... not", 3)
	p.PostFeedback("c", "third", 1)

	snap := p.Snapshot()
	want := []string{"second submitter", "first submitter... not", "third"}
	if len(snap.Results.Items) != len(want) {
		t.Fatalf("Expected %d items, got %v", len(want), snap.Results.Items)
	}
	for i, item := range want {
		if snap.Results.Items[i] != item {
			t.Errorf("Item %d: expected %q, got %q", i, item, snap.Results.Items[i])
		}
	}
}

func TestBlankTextsExcludedFromItemsButCounted(t *testing.T) {
	p := newPoll()
	p.Declare("a")
	p.Declare("b")
	p.NewPoll("retro")

	p.PostFeedback("a", "   ", 5)
	p.PostFeedback("b", "real feedback", 2)

	snap := p.Snapshot()
	if len(snap.Results.Items) != 1 || snap.Results.Items[0] != "real feedback" {
		t.Errorf("Expected blank text excluded, got items %v", snap.Results.Items)
	}
	if snap.Results.Histogram[5] != 1 {
		t.Errorf("Expected blank-text note still counted, histogram %v", snap.Results.Histogram)
	}
}

func TestResetBumpsEpochAndClearsEverything(t *testing.T) {
	p := newPoll()
	p.Declare("alice")
	p.Declare("bob")
	p.NewPoll("retro")
	p.PostFeedback("alice", "x", 3)

	before := p.Version()
	p.Reset()

	if p.Version() <= before {
		t.Errorf("Expected version to strictly increase, %d -> %d", before, p.Version())
	}
	if p.Phase() != models.PhaseInitial {
		t.Errorf("Expected initial phase after reset, got %s", p.Phase())
	}

	snap := p.Snapshot()
	if snap.Pending.Expected != 0 || snap.Pending.Received != 0 {
		t.Errorf("Expected counts reset to 0, got %+v", snap.Pending)
	}
	if snap.Results != nil {
		t.Error("Expected results cleared on reset")
	}
	if *snap.Subject != "" {
		t.Errorf("Expected subject cleared, got %q", *snap.Subject)
	}

	// Re-declaring after reset is a fresh registration, not a merge with
	// the prior epoch's record.
	p.Declare("alice")
	if snap := p.Snapshot(); snap.Pending.Expected != 1 {
		t.Errorf("Expected fresh participant count 1, got %d", snap.Pending.Expected)
	}
}

func TestNewPollKeepsDeclaredKeys(t *testing.T) {
	p := newPoll()
	p.Declare("alice")
	p.Declare("bob")
	p.NewPoll("first")
	p.PostFeedback("alice", "x", 1)
	p.PostFeedback("bob", "y", 2)

	if p.Phase() != models.PhaseReview {
		t.Fatalf("Expected review after all responses, got %s", p.Phase())
	}

	// Second poll in the same epoch: declared keys are the new baseline
	p.NewPoll("second")
	snap := p.Snapshot()
	if snap.Pending.Expected != 2 {
		t.Errorf("Expected declared keys to persist across polls, got expected=%d", snap.Pending.Expected)
	}
	if snap.Pending.Received != 0 {
		t.Errorf("Expected responses cleared, got received=%d", snap.Pending.Received)
	}
	if snap.Results != nil {
		t.Error("Expected results cleared by new poll")
	}
	if p.Version() != 1 {
		t.Errorf("Expected new poll to keep epoch version, got %d", p.Version())
	}
}
