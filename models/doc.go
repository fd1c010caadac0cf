// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire types shared by server and client.

The central type is StateMessage, the broadcast payload. All of its
fields are optional: a snapshot carries everything, a delta carries only
what changed, and clients merge present fields over their local view.
Fields whose zero value is meaningful (version, subject, pending,
results) are pointers so that "absent" and "zero" stay distinguishable
on the wire.
*/
package models
