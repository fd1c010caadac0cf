// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity persists the viewer's opaque identity key.

The key is generated once, stored in a file under a well-known directory,
and returned unchanged on every later call. It is random but not secret:
its only job is to deduplicate a participant's session, and collision
probability is ignored by design of the product.
*/
package identity
