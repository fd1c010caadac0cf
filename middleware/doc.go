// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: request/response logging with timing
  - JSONResponse / ErrorResponse: consistent JSON output
  - ParseJSONBody: request body decoding
  - CORS: cross-origin support for browser viewers
*/
package middleware
