// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

Routes use Go 1.22+ method-qualified patterns:

	POST /api      -> command endpoint
	GET  /event    -> broadcast stream
	GET  /status   -> operator summary
	GET  /history  -> archived polls
	GET  /health   -> liveness probe
*/
package router
