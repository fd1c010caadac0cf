// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package history archives finalized polls for the current process.

The archive is backed by an in-memory sqlite database: poll state must
not survive a process restart, so the default DSN is memory-only and the
archive exists purely so the admin can revisit results from earlier polls
in the same session.
*/
package history
