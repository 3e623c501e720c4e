package localstore

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T, providers ...string) *GormStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.AutoMigrate(&Message{}); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return NewGormStore(db, providers...)
}

func insertMessages(t *testing.T, store *GormStore, accountUUID, folder string, count int) {
	t.Helper()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		err := store.InsertMessage(&Message{
			AccountUUID:       accountUUID,
			Folder:            folder,
			UID:               uint32(i + 1),
			Subject:           fmt.Sprintf("message %d", i+1),
			InternalDate:      base.Add(time.Duration(i) * time.Minute),
			StorageProviderID: "internal",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestMessageCount(t *testing.T) {
	store := newTestStore(t)
	insertMessages(t, store, "uuid-1", "INBOX", 3)
	insertMessages(t, store, "uuid-1", "Sent", 1)
	insertMessages(t, store, "uuid-2", "INBOX", 2)

	count, err := store.MessageCount("uuid-1", "INBOX")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 messages, got %d", count)
	}
}

func TestRemoveAccount(t *testing.T) {
	store := newTestStore(t)
	insertMessages(t, store, "uuid-1", "INBOX", 3)
	insertMessages(t, store, "uuid-2", "INBOX", 2)

	if err := store.RemoveAccount("uuid-1"); err != nil {
		t.Fatal(err)
	}

	if count, _ := store.MessageCount("uuid-1", "INBOX"); count != 0 {
		t.Errorf("expected account data to be dropped, got %d messages", count)
	}

	if count, _ := store.MessageCount("uuid-2", "INBOX"); count != 2 {
		t.Errorf("expected the other account to be untouched, got %d messages", count)
	}
}

func TestResetVisibleLimits(t *testing.T) {
	t.Run("evicts the oldest overflow per folder", func(t *testing.T) {
		store := newTestStore(t)
		insertMessages(t, store, "uuid-1", "INBOX", 5)
		insertMessages(t, store, "uuid-1", "Sent", 2)

		if err := store.ResetVisibleLimits("uuid-1", 3); err != nil {
			t.Fatal(err)
		}

		if count, _ := store.MessageCount("uuid-1", "INBOX"); count != 3 {
			t.Errorf("expected 3 messages in INBOX, got %d", count)
		}
		if count, _ := store.MessageCount("uuid-1", "Sent"); count != 2 {
			t.Errorf("expected Sent to be untouched, got %d messages", count)
		}

		var remaining []uint32
		err := store.db.Model(&Message{}).
			Where("account_uuid = ? AND folder = ?", "uuid-1", "INBOX").
			Order("uid asc").
			Pluck("uid", &remaining).Error
		if err != nil {
			t.Fatal(err)
		}

		// Newest messages carry the highest UIDs.
		want := []uint32{3, 4, 5}
		for i := range want {
			if remaining[i] != want[i] {
				t.Fatalf("expected remaining UIDs %v, got %v", want, remaining)
			}
		}
	})

	t.Run("rejects a negative display count", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.ResetVisibleLimits("uuid-1", -1); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestSwitchStorageProvider(t *testing.T) {
	store := newTestStore(t, "internal", "external")
	insertMessages(t, store, "uuid-1", "INBOX", 2)

	t.Run("repoints all messages of the account", func(t *testing.T) {
		if err := store.SwitchStorageProvider("uuid-1", "external"); err != nil {
			t.Fatal(err)
		}

		var count int64
		err := store.db.Model(&Message{}).
			Where("account_uuid = ? AND storage_provider_id = ?", "uuid-1", "external").
			Count(&count).Error
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("expected 2 messages on 'external', got %d", count)
		}
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		if err := store.SwitchStorageProvider("uuid-1", "floppy"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestProviderAvailable(t *testing.T) {
	store := newTestStore(t, "internal")

	if !store.ProviderAvailable("internal") {
		t.Error("expected 'internal' to be available")
	}
	if store.ProviderAvailable("external") {
		t.Error("expected 'external' to be unavailable")
	}
}
