package storage

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.AutoMigrate(&PreferenceEntry{}); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestGormStore(t *testing.T) {
	store := NewGormStore(newTestDB(t))

	t.Run("starts empty", func(t *testing.T) {
		empty, err := store.IsEmpty()
		if err != nil {
			t.Fatal(err)
		}
		if !empty {
			t.Error("expected an empty store")
		}
	})

	t.Run("commit persists puts and removes", func(t *testing.T) {
		if err := store.Edit().PutString("a", "1").PutString("b", "2").Commit(); err != nil {
			t.Fatal(err)
		}

		if v, ok, err := store.Get("a"); err != nil || !ok || v != "1" {
			t.Errorf("got %q, %t, %v", v, ok, err)
		}

		if err := store.Edit().Remove("a").Commit(); err != nil {
			t.Fatal(err)
		}

		if _, ok, _ := store.Get("a"); ok {
			t.Error("expected 'a' to be removed")
		}
	})

	t.Run("put upserts an existing key", func(t *testing.T) {
		if err := store.Edit().PutString("b", "changed").Commit(); err != nil {
			t.Fatal(err)
		}

		if v, _, _ := store.Get("b"); v != "changed" {
			t.Errorf("expected b=changed, got %q", v)
		}
	})

	t.Run("keys are listed in order", func(t *testing.T) {
		if err := store.Edit().PutString("z", "1").PutString("c", "1").Commit(); err != nil {
			t.Fatal(err)
		}

		keys, err := store.Keys()
		if err != nil {
			t.Fatal(err)
		}

		want := []string{"b", "c", "z"}
		if len(keys) != len(want) {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Fatalf("expected keys %v, got %v", want, keys)
			}
		}
	})
}
