// Package repo implements the data persistence layer for the media catalog,
// backed by GORM. This file contains database bootstrapping helpers for
// Postgres (production) and SQLite (local development and tests, pure Go
// driver) plus schema migrations.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tbourn/go-media-bot/internal/domain"
)

// Open connects to the catalog store described by databaseURL. A
// postgres:// or postgresql:// DSN selects the Postgres driver; anything
// else is treated as a SQLite file path (an optional sqlite: prefix is
// stripped).
func Open(databaseURL string) (*gorm.DB, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return OpenPostgres(databaseURL)
	}
	return OpenSQLite(strings.TrimPrefix(databaseURL, "sqlite:"))
}

// OpenPostgres opens the Postgres-backed catalog store and tunes the pool.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Pool: 10 steady connections plus burst headroom, recycled hourly.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(30)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Ping verifies store connectivity within the context deadline. The startup
// retry loop uses it to decide whether the catalog is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates the movies table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.MediaRecord{})
}
