// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poll implements the authoritative poll state machine.

# Phases

A poll moves through three phases:

	initial -> feedback -> review

	p.NewPoll("How was the sprint?")  // initial -> feedback
	p.PostFeedback(key, text, note)   // collects responses
	p.ForceResults()                  // feedback -> review (admin shortcut)
	p.Reset()                         // any -> initial, epoch bump

The transition into review happens automatically once every declared
participant has responded, or immediately on ForceResults. On entry the
poll computes a histogram of notes (0..5) and the list of non-blank
feedback texts in submission order, and hands both to the Archiver.

# Epochs

Reset wipes all server-side bookkeeping and bumps the epoch version. Two
live connections observing the same version are looking at the same poll
instance; a version change a client did not cause means the server state
was replaced underneath it. A fresh process starts a fresh epoch.

# Concurrency

All mutations are applied atomically under one mutex, and each mutation
publishes its broadcast delta while still holding the lock. Subscribe
snapshots and attaches under the same lock, so a late joiner's first
message is a snapshot that no concurrent mutation can predate.

# Idempotence

Declaring a key twice in an epoch grows the expected count once.
Resubmitting feedback overwrites the prior response (last-write-wins)
without changing the received count.
*/
package poll
