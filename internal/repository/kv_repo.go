package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	apperrors "github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/errors"
)

// KVRepository is the durable key/value layer behind the identity store.
// Values are opaque; PutAll commits every entry or none.
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, entries map[string][]byte) error
}

// gormKV KVRepository backed by the kv_records table.
type gormKV struct {
	db *gorm.DB
}

// NewGormKV creates a KVRepository on PostgreSQL.
func NewGormKV(db *gorm.DB) KVRepository {
	return &gormKV{db: db}
}

func (r *gormKV) Get(ctx context.Context, key string) ([]byte, error) {
	var rec model.KVRecord
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

func (r *gormKV) PutAll(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	records := make([]model.KVRecord, 0, len(entries))
	for k, v := range entries {
		records = append(records, model.KVRecord{
			Key:       k,
			Value:     v,
			BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		})
	}
	// stable lock order across concurrent writers
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&records).Error
	})
}
