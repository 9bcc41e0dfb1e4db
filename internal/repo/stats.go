// Package repo implements the data persistence layer for the media catalog,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the admin commands. Each function is context-aware and safe to call from
// services or handlers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-media-bot/internal/domain"
)

// CatalogStats returns aggregate metadata for the media catalog: the total
// number of records and the highest post_id ingested so far.
//
// It executes two lightweight queries against the movies table. When the
// catalog is empty, the returned count and maxPostID are both 0.
//
// Return values:
//   - count:     total catalog records
//   - maxPostID: greatest post_id seen, or 0 if no rows
//   - err:       database error, if any
func CatalogStats(ctx context.Context, db *gorm.DB) (count int64, maxPostID int64, err error) {
	q := db.WithContext(ctx).Model(&domain.MediaRecord{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	// Get latest post_id (avoid MAX() -> TEXT in SQLite)
	var row struct {
		PostID int64
	}
	if err = q.Select("post_id").Order("post_id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.PostID, nil
}
