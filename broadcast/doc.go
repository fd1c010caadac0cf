// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast fans state messages out to connected viewers.

Each subscriber owns an independently buffered channel, so adding or
removing a subscriber never blocks an in-flight publish and one slow
viewer cannot stall the rest. A publish to a full buffer is dropped for
that subscriber only; the protocol is self-healing because a reconnecting
client always receives a fresh full snapshot rather than replayed deltas.

	sub := hub.Subscribe(snapshot) // snapshot is the first delivered message
	defer hub.Unsubscribe(sub)
	for msg := range sub.C {
		...
	}
*/
package broadcast
