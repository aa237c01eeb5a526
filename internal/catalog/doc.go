// Package catalog defines the product resource and the field rules shared by
// the HTTP client, the demo server and the edit form.
//
// Validation mirrors the server: EAN is exactly 13 digits, name is at most
// 150 characters, description at most 250, price is non-negative, and the
// selling place is "event" or "store". Pictures travel as base64 in JSON and
// must be images no larger than 5 MiB.
package catalog
