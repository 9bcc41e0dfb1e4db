// Package services – SearchService
//
// This file implements the user-facing query path: trim and validate the
// free-text query, enforce the per-user cooldown, forward to the hosted
// search index with typo tolerance, and shape the hits for rendering. The
// service never touches the catalog store; search is answered entirely from
// the index projection.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-media-bot/internal/search"
)

// SearchService answers free-text title queries from the hosted index.
// It owns the per-user cooldown: a query arriving inside the window is
// dropped before any index call is made.
type SearchService struct {
	// Index is the hosted search index queried for fuzzy title matches.
	Index search.Index
	// Cooldown enforces the minimum gap between accepted queries per user.
	Cooldown *Cooldown
	// MaxHits caps a single query's result set (defaults to search.DefaultMaxHits).
	MaxHits int

	// Ready reports whether the index finished initialization. A nil func
	// means always ready.
	Ready func() bool

	titler cases.Caser
}

// NewSearchService constructs a SearchService with the given cooldown window.
func NewSearchService(idx search.Index, cooldown *Cooldown, ready func() bool) *SearchService {
	return &SearchService{
		Index:    idx,
		Cooldown: cooldown,
		MaxHits:  search.DefaultMaxHits,
		Ready:    ready,
		titler:   cases.Title(language.Und, cases.NoLower),
	}
}

// Search runs one typo-tolerant title query for userID.
//
// Returns:
//   - ErrEmptyQuery when the trimmed query is empty,
//   - ErrRateLimited when the user queried again inside the cooldown window
//     (no index call is made),
//   - ErrNotReady when the index has not finished initialization,
//   - the matching hits otherwise (possibly none).
func (s *SearchService) Search(ctx context.Context, userID int64, query string) ([]search.Hit, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int64("user_id", userID),
		),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.Cooldown != nil && !s.Cooldown.Allow(userID) {
		span.SetAttributes(attribute.Bool("rate_limited", true))
		return nil, ErrRateLimited
	}
	if s.Ready != nil && !s.Ready() {
		return nil, ErrNotReady
	}

	hits, err := s.Index.Search(ctx, query, s.MaxHits)
	if err != nil {
		return nil, err
	}
	searchesServed.Inc()
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

// DisplayTitle normalizes a hit title for use as a button label. Titles are
// ingested verbatim from channel captions, so casing varies wildly; labels
// are title-cased without forcing already-uppercase runs down.
func (s *SearchService) DisplayTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	return s.titler.String(title)
}
