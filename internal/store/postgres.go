// internal/store/postgres.go
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRecord is the single-table layout backing the Postgres adapter. Each
// collection lives in one row as a JSONB document, mirroring the key/value
// shape of the original store.
type KVRecord struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"type:jsonb;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

func (KVRecord) TableName() string { return "kv_records" }

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record KVRecord
	if err := p.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return record.Value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	record := KVRecord{Key: key, Value: value}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&KVRecord{}, "key = ?", key).Error
}
