// Package repo implements the data persistence layer for the media catalog,
// backed by GORM. This file provides repository functions for the MediaRecord
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - When an insert collides with an existing post_id, CreateMedia
//     returns ErrDuplicate.
//   - On other DB errors (connectivity issues, missing schema, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.Ingest / services.Catalog) which enforces the
// store-then-index ordering and duplicate no-op behavior.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-media-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a catalog row already exists for the
// given post_id.
var ErrDuplicate = errors.New("duplicate")

// CreateMedia inserts a new catalog row and returns it with the synthetic ID
// assigned by the store. A post_id collision returns ErrDuplicate so callers
// can treat reposts and edits as a no-op.
func CreateMedia(ctx context.Context, db *gorm.DB, title string, postID int64) (*domain.MediaRecord, error) {
	rec := &domain.MediaRecord{
		Title:  title,
		PostID: postID,
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// FindMediaByPostID fetches the catalog entry for a channel post. If the
// record does not exist, it returns ErrNotFound. On other DB errors, the raw
// error is returned.
func FindMediaByPostID(ctx context.Context, db *gorm.DB, postID int64) (*domain.MediaRecord, error) {
	var rec domain.MediaRecord
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountMedia uses a raw COUNT so a missing table surfaces as an error (as tests expect).
func CountMedia(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM movies").Scan(&total).Error
	return total, err
}

// isUniqueViolation reports whether err is a unique-index collision.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations;
// Postgres reports SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value") ||
		strings.Contains(low, "sqlstate 23505")
}
