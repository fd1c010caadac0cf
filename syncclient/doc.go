// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package syncclient is the viewer-side synchronization logic.

A Client keeps one long-lived event-stream connection to the server and
merges every received message into a local View. The merge is per-field:
fields present in a message overwrite local state, absent fields keep
their prior value.

# Reconnection

Transport errors are always transient: the client closes the stream and
retries after a fixed delay, indefinitely. There is no exponential
backoff and no retry ceiling. The identity key is re-declared before
every connect, and again whenever a message carries the reset marker,
because a reset wipes the server-side registry without necessarily
dropping the connection.

# Staleness

The client tracks the last observed epoch version. If a message carries
a different version than one previously observed, the local view is
stale: OnStale fires and the recommended remediation is a restart of the
consumer, not a silent resync.
*/
package syncclient
