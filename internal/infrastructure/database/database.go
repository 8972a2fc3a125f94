package database

import (
	"airgrid-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// behind connection poolers (PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for every marketplace entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Registry{},
		&domain.Listing{},
		&domain.LocationIndex{},
		&domain.LeaseRecord{},
		&domain.LedgerAccount{},
		&domain.ListingEvent{},
	)
}
