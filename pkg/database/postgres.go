package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stayhub/internal/models"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and the indexes that back the write
// invariants. Shared with the integration test setup and the seeder.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// One review per (listing, user); backstop for the service-level check
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_review_once_per_user
		ON reviews (listing_id, user_id)
	`)

	return nil
}
