package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/koivumail/mail-prefs-api/migrations/internal/m20260301"
)

func List() []*gormigrate.Migration {
	ms := []*gormigrate.Migration{
		{
			ID:       m20260301.ID,
			Migrate:  m20260301.Migrate,
			Rollback: m20260301.Rollback,
		},
	}
	return ms
}
