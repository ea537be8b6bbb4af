package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
)

// Repository aggregates the data-access layer.
type Repository struct {
	KV KVRepository
}

// NewRepository selects the KV backend named by cfg.Driver. db and rdb may
// be nil when the driver does not need them.
func NewRepository(cfg *config.StorageConfig, db *gorm.DB, rdb *redis.Client) (*Repository, error) {
	var kv KVRepository
	switch cfg.Driver {
	case config.StorageMemory:
		kv = NewMemoryKV()
	case config.StoragePostgres:
		if db == nil {
			return nil, fmt.Errorf("storage driver %q needs a database", cfg.Driver)
		}
		kv = NewGormKV(db)
	case config.StorageRedis:
		if rdb == nil {
			return nil, fmt.Errorf("storage driver %q needs redis", cfg.Driver)
		}
		kv = NewRedisKV(rdb)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	return &Repository{KV: kv}, nil
}
