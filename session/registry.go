// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

// Registry tracks which client keys have declared themselves for the
// current epoch and whether each has responded to the current poll.
//
// Registry is not safe for concurrent use on its own; the poll state
// machine serializes all access under its command lock.
type Registry struct {
	participants map[string]bool // key -> hasResponded
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[string]bool)}
}

// Declare registers a key as an expected participant. The first sighting
// of a key in an epoch grows the expected count; repeats are no-ops.
// Returns true if the key was newly registered.
func (r *Registry) Declare(key string) bool {
	if _, ok := r.participants[key]; ok {
		return false
	}
	r.participants[key] = false
	return true
}

// MarkResponded records that a key has submitted a response, declaring it
// first if it was never seen (a straggler may submit without declaring).
func (r *Registry) MarkResponded(key string) {
	r.participants[key] = true
}

// Expected returns the number of declared participants this epoch.
func (r *Registry) Expected() int {
	return len(r.participants)
}

// ClearResponded keeps every declared key but marks all of them as not
// having responded. Used when a new poll starts within the same epoch.
func (r *Registry) ClearResponded() {
	for key := range r.participants {
		r.participants[key] = false
	}
}

// Reset drops every key. Used on epoch reset.
func (r *Registry) Reset() {
	r.participants = make(map[string]bool)
}
