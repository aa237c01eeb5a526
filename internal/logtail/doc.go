// Package logtail reads the end of the stoq log file for `stoq logs`.
//
// Read keeps a ring buffer of the last N lines, so memory is bounded by N
// rather than the file size, and returns them oldest first. A missing file is
// not an error.
//
// Format pretty-prints the JSON lines written by the TUI through
// zerolog.ConsoleWriter:
//
//	2025-06-01 12:00:00 DBG api request method=GET path=/api/v1/products status=200
//
// Lines that do not parse as JSON are passed through untouched.
package logtail
