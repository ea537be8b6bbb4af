package model

import "time"

// BaseModel carries the audit timestamps shared by persisted rows.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// KVRecord is one entry of the durable key/value layer.
// Value holds a whole serialized collection; writes replace it.
type KVRecord struct {
	Key   string `gorm:"type:varchar(128);primaryKey" json:"key"`
	Value []byte `gorm:"type:bytea;not null"          json:"value"`
	BaseModel
}

// TableName pins the table name.
func (KVRecord) TableName() string { return "kv_records" }
