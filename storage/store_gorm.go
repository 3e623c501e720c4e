package storage

import (
	"errors"

	"github.com/koivumail/mail-prefs-api/datastore/lib"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceEntry is a single stored key-value pair.
type PreferenceEntry struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (PreferenceEntry) TableName() string {
	return "preference_entries"
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db}
}

func (s *GormStore) Get(key string) (string, bool, error) {
	entry := PreferenceEntry{}
	err := s.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *GormStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.Model(&PreferenceEntry{}).Order("key asc").Pluck("key", &keys).Error
	return keys, err
}

func (s *GormStore) IsEmpty() (bool, error) {
	var count int64
	if err := s.db.Model(&PreferenceEntry{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *GormStore) Edit() *Editor {
	return newEditor(s)
}

func (s *GormStore) apply(puts map[string]string, removes []string) error {
	return lib.GormTransaction(s.db, func(tx *gorm.DB) error {
		for key, value := range puts {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&PreferenceEntry{Key: key, Value: value}).Error
			if err != nil {
				return err
			}
		}

		if len(removes) > 0 {
			if err := tx.Delete(&PreferenceEntry{}, "key IN ?", removes).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
