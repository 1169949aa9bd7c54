// Package repo implements the persistence layer of the idea board: raw
// key/blob backends (SQLite via GORM, Redis, in-memory) and the SlotStore
// that serializes idea and vote records on top of them.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// sqlitePragmas are applied to every connection opened by OpenSQLite.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// OpenSQLite opens (or creates) the SQLite database at dsn with WAL
// journaling, a single connection and the OpenTelemetry tracing plugin.
//
// dsn is a file path or a "file:" URI; ":memory:" and URIs skip the
// parent-directory check.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	if isFilePath(dsn) {
		if dir := filepath.Dir(dsn); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Slot writes replace a whole blob, so one writer is enough and keeps
	// in-memory databases on a single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	for _, p := range sqlitePragmas {
		if err := db.Exec(p).Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the slots table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.SlotBlob{})
}

func isFilePath(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}
