// Package handlers defines the HTTP-layer error codes used by the health
// surface's fallback responses.
//
// The codes are lowercase snake_case and mirror common HTTP status semantics;
// handlers pass them to `fail()` together with the status and a message, and
// clients branch on the code rather than the prose.
package handlers

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
