// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/retropoll/broadcast"
	"github.com/danielhkuo/retropoll/history"
	"github.com/danielhkuo/retropoll/models"
	"github.com/danielhkuo/retropoll/poll"
)

// NewTestPoll builds a poll wired to a fresh hub, without an archiver.
func NewTestPoll(t *testing.T) *poll.Poll {
	t.Helper()
	return poll.New(broadcast.NewHub(), nil)
}

// NewTestHistory opens a private in-memory archive for one test.
func NewTestHistory(t *testing.T) *history.Store {
	t.Helper()

	// A distinct named in-memory database per test keeps archives isolated.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	store, err := history.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test history store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// StartFeedback moves a poll into the feedback phase on a throwaway subject.
func StartFeedback(t *testing.T, p *poll.Poll, subject string) {
	t.Helper()
	p.NewPoll(subject)
	if p.Phase() != models.PhaseFeedback {
		t.Fatalf("Expected feedback phase, got %s", p.Phase())
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req
}

// Command builds a POST /api request for the given command.
func Command(t *testing.T, cmd models.CommandRequest) *http.Request {
	t.Helper()
	return MakeRequest("POST", "/api", cmd)
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// NewEventScanner wraps a stream body in a scanner sized for large
// result payloads, which can exceed bufio.Scanner's default token limit.
func NewEventScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	return scanner
}

// ReadEvent reads the next server-sent event from an open stream and
// decodes its data payload.
func ReadEvent(t *testing.T, scanner *bufio.Scanner) models.StateMessage {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var msg models.StateMessage
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg); err != nil {
			t.Fatalf("Failed to decode event %q: %v", line, err)
		}
		return msg
	}
	t.Fatalf("Stream ended before an event arrived: %v", scanner.Err())
	return models.StateMessage{}
}
