package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-media-bot/internal/domain"
	"github.com/tbourn/go-media-bot/internal/repo"
	"github.com/tbourn/go-media-bot/internal/search"
)

// ----- Fakes -----

// mediaRepoShim adapts the repo free functions for service tests.
type mediaRepoShim struct{}

func (mediaRepoShim) CreateMedia(ctx context.Context, db *gorm.DB, title string, postID int64) (*domain.MediaRecord, error) {
	return repo.CreateMedia(ctx, db, title, postID)
}

func (mediaRepoShim) FindMediaByPostID(ctx context.Context, db *gorm.DB, postID int64) (*domain.MediaRecord, error) {
	return repo.FindMediaByPostID(ctx, db, postID)
}

func (mediaRepoShim) CountMedia(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountMedia(ctx, db)
}

func (mediaRepoShim) CatalogStats(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	return repo.CatalogStats(ctx, db)
}

// fakeIndex records Save/Search calls and can be told to fail.
type fakeIndex struct {
	saved   []search.Document
	saveErr error

	searchQ     string
	searchLimit int
	hits        []search.Hit
	searchErr   error
}

func (f *fakeIndex) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	f.searchQ, f.searchLimit = query, limit
	return f.hits, f.searchErr
}

func (f *fakeIndex) Save(ctx context.Context, doc search.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, doc)
	return nil
}

func (f *fakeIndex) Ping(ctx context.Context) error { return nil }

func newIngestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("ingest_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.MediaRecord{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- Tests -----

func TestDeriveTitle(t *testing.T) {
	if got := DeriveTitle("Inception 2010\nHD"); got != "Inception 2010" {
		t.Fatalf("DeriveTitle = %q; want %q", got, "Inception 2010")
	}
	if got := DeriveTitle("  Tenet  "); got != "Tenet" {
		t.Fatalf("DeriveTitle = %q; want %q", got, "Tenet")
	}
	if got := DeriveTitle(""); got != "" {
		t.Fatalf("DeriveTitle(\"\") = %q; want empty", got)
	}
	if got := DeriveTitle("\n\nsecond line only"); got != "" {
		t.Fatalf("DeriveTitle = %q; want empty for blank first line", got)
	}
}

func TestIngest_CreatesRecordAndMirrorsDocument(t *testing.T) {
	db := newIngestDB(t)
	idx := &fakeIndex{}
	svc := NewIngestService(db, mediaRepoShim{}, idx, nil)

	rec, err := svc.Ingest(context.Background(), "Inception 2010\nHD", 501)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if rec.Title != "Inception 2010" || rec.PostID != 501 || rec.ID == 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(idx.saved) != 1 {
		t.Fatalf("expected 1 mirrored document, got %d", len(idx.saved))
	}
	doc := idx.saved[0]
	if doc.ObjectID != search.ObjectID(rec.ID) || doc.Title != "Inception 2010" || doc.PostID != 501 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestIngest_DuplicatePostIsNoOp(t *testing.T) {
	db := newIngestDB(t)
	idx := &fakeIndex{}
	svc := NewIngestService(db, mediaRepoShim{}, idx, nil)

	if _, err := svc.Ingest(context.Background(), "Inception 2010", 501); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), "Inception 2010 (edited)", 501); !errors.Is(err, ErrAlreadyCataloged) {
		t.Fatalf("second Ingest err = %v; want ErrAlreadyCataloged", err)
	}

	var count int64
	if err := db.Model(&domain.MediaRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 record after duplicate, got %d", count)
	}
	if len(idx.saved) != 1 {
		t.Fatalf("expected exactly 1 document after duplicate, got %d", len(idx.saved))
	}
}

func TestIngest_NoTitleSkips(t *testing.T) {
	db := newIngestDB(t)
	svc := NewIngestService(db, mediaRepoShim{}, &fakeIndex{}, nil)

	if _, err := svc.Ingest(context.Background(), "   \nHD rip", 502); !errors.Is(err, ErrNoTitle) {
		t.Fatalf("err = %v; want ErrNoTitle", err)
	}
}

func TestIngest_IndexFailureKeepsCatalogRow(t *testing.T) {
	db := newIngestDB(t)
	idx := &fakeIndex{saveErr: errors.New("index down")}
	svc := NewIngestService(db, mediaRepoShim{}, idx, nil)

	rec, err := svc.Ingest(context.Background(), "Tenet 2020", 601)
	if err != nil {
		t.Fatalf("Ingest should not fail on index error: %v", err)
	}
	if rec == nil || rec.ID == 0 {
		t.Fatalf("expected persisted record despite index failure, got %+v", rec)
	}

	// The duplicate check now suppresses any automatic re-index on repost.
	if _, err := svc.Ingest(context.Background(), "Tenet 2020", 601); !errors.Is(err, ErrAlreadyCataloged) {
		t.Fatalf("repost err = %v; want ErrAlreadyCataloged", err)
	}
}

func TestIngest_NotReady(t *testing.T) {
	svc := NewIngestService(nil, mediaRepoShim{}, &fakeIndex{}, func() bool { return false })

	if _, err := svc.Ingest(context.Background(), "Dune 2021", 701); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v; want ErrNotReady", err)
	}
	if _, err := svc.TotalRecords(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("TotalRecords err = %v; want ErrNotReady", err)
	}
}

func TestTotalRecords_CountsCatalog(t *testing.T) {
	db := newIngestDB(t)
	svc := NewIngestService(db, mediaRepoShim{}, &fakeIndex{}, nil)

	for i := int64(1); i <= 3; i++ {
		if _, err := svc.Ingest(context.Background(), fmt.Sprintf("Movie %d", i), 800+i); err != nil {
			t.Fatalf("Ingest %d: %v", i, err)
		}
	}
	n, err := svc.TotalRecords(context.Background())
	if err != nil {
		t.Fatalf("TotalRecords: %v", err)
	}
	if n != 3 {
		t.Fatalf("TotalRecords = %d; want 3", n)
	}

	count, maxPostID, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if count != 3 || maxPostID != 803 {
		t.Fatalf("Snapshot = (%d, %d); want (3, 803)", count, maxPostID)
	}
}
