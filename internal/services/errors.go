// Package services defines the business logic for the media bot: catalog
// ingestion, title search, broadcast fan-out, and admin statistics. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing chat messages (or deliberate silence) is performed at the
// bot handler layer.
package services

import "errors"

var (
	// ErrNotReady indicates that the catalog store has not finished
	// initialization. Dependent commands fail individually instead of
	// taking the event loop down.
	ErrNotReady = errors.New("catalog store not ready")

	// ErrRateLimited is returned when a user queries again inside the
	// cooldown window. Callers drop the query without responding.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyQuery is returned when a search request contains no text.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrNoTitle is returned when a channel post caption yields no usable
	// title. Callers skip the post silently.
	ErrNoTitle = errors.New("caption yields no title")

	// ErrAlreadyCataloged indicates the channel post was ingested before;
	// the ingestion is a no-op so edits and reposts cannot duplicate
	// catalog entries.
	ErrAlreadyCataloged = errors.New("already cataloged")
)
