package m20260301

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const ID = "20260301"

// Initial schema. The models are snapshotted here so later changes to
// the application models do not alter this migration.

type PreferenceEntry struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (PreferenceEntry) TableName() string {
	return "preference_entries"
}

type Message struct {
	ID                uint           `gorm:"primaryKey"`
	AccountUUID       string         `gorm:"column:account_uuid;index"`
	Folder            string         `gorm:"index"`
	UID               uint32         `gorm:"column:uid"`
	Subject           string         `gorm:"column:subject"`
	InternalDate      time.Time      `gorm:"column:internal_date"`
	Size              int64          `gorm:"column:size"`
	Seen              bool           `gorm:"column:seen"`
	Headers           datatypes.JSON `gorm:"column:headers"`
	StorageProviderID string         `gorm:"column:storage_provider_id"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

type IdempotencyStoreGormItem struct {
	Key        string    `gorm:"column:key;primary_key"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

func (IdempotencyStoreGormItem) TableName() string {
	return "idempotency_keys"
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(&PreferenceEntry{}, &Message{}, &IdempotencyStoreGormItem{})
}

func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&PreferenceEntry{}, &Message{}, &IdempotencyStoreGormItem{})
}
