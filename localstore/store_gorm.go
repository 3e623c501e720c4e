package localstore

import (
	"fmt"

	"gorm.io/gorm"
)

type GormStore struct {
	db        *gorm.DB
	providers map[string]struct{}
}

// NewGormStore creates a message store. The given storage providers
// are considered available.
func NewGormStore(db *gorm.DB, providers ...string) *GormStore {
	known := make(map[string]struct{}, len(providers))
	for _, id := range providers {
		known[id] = struct{}{}
	}
	return &GormStore{db: db, providers: known}
}

func (s *GormStore) InsertMessage(m *Message) error {
	return s.db.Create(m).Error
}

func (s *GormStore) MessageCount(accountUUID, folder string) (int64, error) {
	var count int64
	err := s.db.Model(&Message{}).
		Where("account_uuid = ? AND folder = ?", accountUUID, folder).
		Count(&count).Error
	return count, err
}

func (s *GormStore) RemoveAccount(accountUUID string) error {
	return s.db.Delete(&Message{}, "account_uuid = ?", accountUUID).Error
}

func (s *GormStore) ResetVisibleLimits(accountUUID string, displayCount int) error {
	if displayCount < 0 {
		return fmt.Errorf("invalid display count %d", displayCount)
	}

	var folders []string
	err := s.db.Model(&Message{}).
		Where("account_uuid = ?", accountUUID).
		Distinct().
		Pluck("folder", &folders).Error
	if err != nil {
		return err
	}

	for _, folder := range folders {
		var overflow []uint
		err := s.db.Model(&Message{}).
			Where("account_uuid = ? AND folder = ?", accountUUID, folder).
			Order("internal_date desc").
			Offset(displayCount).
			Limit(-1).
			Pluck("id", &overflow).Error
		if err != nil {
			return err
		}

		if len(overflow) > 0 {
			if err := s.db.Delete(&Message{}, overflow).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *GormStore) SwitchStorageProvider(accountUUID, providerID string) error {
	if !s.ProviderAvailable(providerID) {
		return fmt.Errorf("storage provider '%s' not available", providerID)
	}

	return s.db.Model(&Message{}).
		Where("account_uuid = ?", accountUUID).
		Update("storage_provider_id", providerID).Error
}

func (s *GormStore) ProviderAvailable(providerID string) bool {
	_, ok := s.providers[providerID]
	return ok
}
