// Package localstore manages the locally stored messages of each
// account.
package localstore

import (
	"time"

	"gorm.io/datatypes"
)

// Message is a locally cached message of one account.
type Message struct {
	ID                uint           `json:"-" gorm:"primaryKey"`
	AccountUUID       string         `json:"accountUuid" gorm:"column:account_uuid;index"`
	Folder            string         `json:"folder" gorm:"index"`
	UID               uint32         `json:"uid" gorm:"column:uid"`
	Subject           string         `json:"subject"`
	InternalDate      time.Time      `json:"internalDate"`
	Size              int64          `json:"size"`
	Seen              bool           `json:"seen"`
	Headers           datatypes.JSON `json:"headers"`
	StorageProviderID string         `json:"storageProviderId" gorm:"column:storage_provider_id"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Message) TableName() string {
	return "messages"
}

// Store manages data regarding locally stored messages.
type Store interface {
	// Insert a message into the local store.
	InsertMessage(m *Message) error

	// MessageCount of one folder of an account.
	MessageCount(accountUUID, folder string) (int64, error)

	// RemoveAccount drops all local data of an account.
	RemoveAccount(accountUUID string) error

	// ResetVisibleLimits evicts messages beyond the per-folder display
	// count, newest first.
	ResetVisibleLimits(accountUUID string, displayCount int) error

	// SwitchStorageProvider repoints all messages of an account to
	// another storage provider.
	SwitchStorageProvider(accountUUID, providerID string) error

	// ProviderAvailable reports whether a storage provider is usable.
	ProviderAvailable(providerID string) bool
}
