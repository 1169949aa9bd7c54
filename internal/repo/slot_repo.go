// Package repo implements the persistence layer of the idea board. This
// file provides the SQLite Backend: one row per storage key in the slots
// table, replaced wholesale on every write.
//
// Error semantics:
//   - A missing row is reported as ErrNotFound.
//   - On other DB errors (connectivity, missing table, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// SQLiteBackend stores blobs in the slots table through GORM.
type SQLiteBackend struct {
	DB *gorm.DB
}

// NewSQLiteBackend wraps an opened and migrated database handle.
func NewSQLiteBackend(db *gorm.DB) *SQLiteBackend {
	return &SQLiteBackend{DB: db}
}

// Load returns the payload stored under key, or ErrNotFound.
func (b *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var row domain.SlotBlob
	err := b.DB.WithContext(ctx).
		Where("name = ?", key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Payload), nil
}

// Save upserts the payload for key.
func (b *SQLiteBackend) Save(ctx context.Context, key string, blob []byte) error {
	row := &domain.SlotBlob{
		Name:      key,
		Payload:   string(blob),
		UpdatedAt: time.Now().UTC(),
	}
	return b.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(row).Error
}

// Delete removes the row for key, if any.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	return b.DB.WithContext(ctx).
		Where("name = ?", key).
		Delete(&domain.SlotBlob{}).Error
}
