// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the RetroPoll server.

RetroPoll is a live-feedback application: an admin creates a poll subject,
participants submit a 0-5 rating plus free-text feedback, and aggregated
results are broadcast to every connected viewer the moment the poll
finalizes.

# Starting the Server

	go run main.go

Or with flags:

	go run main.go -p 8666

# Configuration

Optional settings (flags fall back to a .env file and then the process
environment):

  - PORT (-p): Server port (default: 8666)
  - HISTORY_DSN (-history-dsn): History archive DSN (default: in-memory)
  - RETRY_DELAY (-retry-delay): Client reconnect delay advertised via
    /status (default: 1s)

# Architecture

The server is a single authoritative state machine broadcast over a
persistent event stream:

  - poll: the server-owned state machine; serializes every command and
    versions the poll epoch
  - session: declared-participant registry for the current epoch
  - broadcast: one-to-many fan-out hub with per-subscriber buffers
  - handlers: command endpoint, event stream, status, history
  - history: per-process archive of finalized polls (in-memory sqlite)
  - syncclient: viewer-side reconnecting stream consumer
  - identity: viewer-side persistent identity key
  - router, middleware, models, cliparse: HTTP plumbing and shared types

Data flow: command endpoint -> poll state machine (mutate + version) ->
broadcast hub -> all connected viewers.

See package documentation for each component.
*/
package main
