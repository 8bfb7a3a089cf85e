package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry - строка таблицы kv_entries
type KVEntry struct {
	StorageKey string    `gorm:"primarykey;size:255"`
	Value      []byte    `gorm:"not null"`
	UpdatedAt  time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// SQLiteKV - хранилище "на устройстве" для CLI-клиента.
type SQLiteKV struct {
	db *gorm.DB
}

// NewSQLiteKV создает таблицу при необходимости.
func NewSQLiteKV(db *gorm.DB) (*SQLiteKV, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).First(&entry, "storage_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{StorageKey: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&KVEntry{}, "storage_key = ?", key).Error
}
