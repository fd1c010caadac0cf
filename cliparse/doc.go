// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing.

Flags take precedence, then a .env file in the working directory, then
the process environment, then built-in defaults. Nothing is required:
a bare "go run main.go" serves on the default port with an in-memory
history archive.
*/
package cliparse
