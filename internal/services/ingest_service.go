// Package services – IngestService
//
// This file implements the channel-post ingestion and index synchronization
// path: derive a title from the post caption, skip duplicates, persist a
// catalog row, then mirror it into the hosted search index. The catalog store
// is the source of truth; the index is a derived projection keyed by the
// store's synthetic ID.
//
// The two writes are not atomic. An index failure after a successful insert
// leaves the record queryable in the store but invisible to search; the
// failure is counted and logged, and repair is left to an external
// reconciliation job.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the post ID and the duplicate/indexed outcome.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-media-bot/internal/domain"
	"github.com/tbourn/go-media-bot/internal/repo"
	"github.com/tbourn/go-media-bot/internal/search"
)

// MediaRepo defines the repository contract required by IngestService.
// Implementations are responsible for persistence of catalog rows.
type MediaRepo interface {
	// CreateMedia inserts a catalog row and returns it with the synthetic ID.
	CreateMedia(ctx context.Context, db *gorm.DB, title string, postID int64) (*domain.MediaRecord, error)

	// FindMediaByPostID fetches the row for a channel post, if any.
	FindMediaByPostID(ctx context.Context, db *gorm.DB, postID int64) (*domain.MediaRecord, error)

	// CountMedia returns the live catalog size.
	CountMedia(ctx context.Context, db *gorm.DB) (int64, error)

	// CatalogStats returns the catalog size and the highest post ID seen.
	CatalogStats(ctx context.Context, db *gorm.DB) (count int64, maxPostID int64, err error)
}

// IngestService synchronizes library channel posts into the catalog store and
// the hosted search index. It is safe for concurrent use: the dedupe check
// and the insert are serialized through an internal mutex so concurrent
// updates for the same post collapse into one row, with the store's unique
// key on post_id as the backstop.
type IngestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo MediaRepo
	// Index is the hosted search index mirroring the catalog.
	Index search.Index

	// Ready reports whether the catalog store finished initialization.
	// A nil func means always ready.
	Ready func() bool

	mu sync.Mutex
}

// NewIngestService constructs an IngestService over the given store handle,
// repository, and index.
func NewIngestService(db *gorm.DB, r MediaRepo, idx search.Index, ready func() bool) *IngestService {
	return &IngestService{DB: db, Repo: r, Index: idx, Ready: ready}
}

// DeriveTitle extracts the catalog title from a channel post caption: the
// first line, trimmed. It returns "" when the caption yields nothing usable,
// in which case the post must be skipped.
func DeriveTitle(caption string) string {
	line := caption
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Ingest records one library channel post: duplicate check, catalog insert,
// index mirror, in that order.
//
// Returns:
//   - ErrNotReady when the store has not finished initialization,
//   - ErrNoTitle when the caption yields no title,
//   - ErrAlreadyCataloged when the post was ingested before (edits/reposts),
//   - the new MediaRecord otherwise, even when the index mirror failed.
func (s *IngestService) Ingest(ctx context.Context, caption string, postID int64) (*domain.MediaRecord, error) {
	tr := otel.Tracer("services/IngestService")
	ctx, span := tr.Start(ctx, "Ingest",
		trace.WithAttributes(
			attribute.Int64("post_id", postID),
		),
	)
	defer span.End()

	if s.Ready != nil && !s.Ready() {
		return nil, ErrNotReady
	}

	title := DeriveTitle(caption)
	if title == "" {
		return nil, ErrNoTitle
	}

	// Serialize dedupe-check + insert; the unique key on post_id backstops
	// any write racing in from outside this process.
	s.mu.Lock()
	rec, err := s.insertOnce(ctx, title, postID)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, ErrAlreadyCataloged) {
			span.SetAttributes(attribute.Bool("duplicate", true))
			ingestDuplicates.Inc()
		}
		return nil, err
	}
	recordsCreated.Inc()

	// Mirror into the hosted index. A failure here leaves the row
	// store-only until external reconciliation; the duplicate check above
	// suppresses any automatic retry on a later repost.
	doc := search.Document{
		ObjectID: search.ObjectID(rec.ID),
		Title:    rec.Title,
		PostID:   rec.PostID,
	}
	if err := s.Index.Save(ctx, doc); err != nil {
		indexWriteFailures.Inc()
		log.Error().
			Err(err).
			Int64("record_id", rec.ID).
			Int64("post_id", rec.PostID).
			Msg("index mirror failed after catalog insert")
		return rec, nil
	}
	span.SetAttributes(attribute.Bool("indexed", true))

	log.Info().
		Int64("record_id", rec.ID).
		Int64("post_id", rec.PostID).
		Str("title", rec.Title).
		Msg("cataloged channel post")
	return rec, nil
}

// insertOnce performs the lookup-then-insert step under the service mutex.
func (s *IngestService) insertOnce(ctx context.Context, title string, postID int64) (*domain.MediaRecord, error) {
	if _, err := s.Repo.FindMediaByPostID(ctx, s.DB, postID); err == nil {
		return nil, ErrAlreadyCataloged
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	rec, err := s.Repo.CreateMedia(ctx, s.DB, title, postID)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyCataloged
		}
		return nil, err
	}
	return rec, nil
}

// TotalRecords returns the live catalog size, queried from the store.
func (s *IngestService) TotalRecords(ctx context.Context) (int64, error) {
	tr := otel.Tracer("services/IngestService")
	ctx, span := tr.Start(ctx, "TotalRecords")
	defer span.End()

	if s.Ready != nil && !s.Ready() {
		return 0, ErrNotReady
	}
	return s.Repo.CountMedia(ctx, s.DB)
}

// Snapshot returns the catalog size together with the highest ingested post
// ID, the quickest proxy for "how far behind the channel are we".
func (s *IngestService) Snapshot(ctx context.Context) (count int64, maxPostID int64, err error) {
	tr := otel.Tracer("services/IngestService")
	ctx, span := tr.Start(ctx, "Snapshot")
	defer span.End()

	if s.Ready != nil && !s.Ready() {
		return 0, 0, ErrNotReady
	}
	return s.Repo.CatalogStats(ctx, s.DB)
}
