// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the RetroPoll server.

# Handler Types

Each handler is a struct with its dependencies injected via a constructor:

  - CommandHandler: POST /api, the single command endpoint
  - EventsHandler: GET /event, the server-sent event stream
  - StatusHandler: GET /status, operator summary
  - ArchiveHandler: GET /history, finalized polls for this process

# Command Endpoint

One action per request:

	{"action": "declare-key", "key": "..."}
	{"action": "post-feedback", "key": "...", "text": "...", "note": 4}
	{"action": "new-poll", "subject": "..."}
	{"action": "force-results"}
	{"action": "reset"}

The response only signals acceptance; the resulting state change reaches
clients through the broadcast stream. Admin actions are gated by the UI
alone - this is explicitly not a security boundary.

# Event Stream

A new subscriber's first event is a full state snapshot, so a late joiner
never waits for the next mutation. Subsequent events are deltas carrying
only changed fields. A request failure is scoped to that request; it
never disturbs the stream of other viewers.
*/
package handlers
