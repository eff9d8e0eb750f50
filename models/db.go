package models

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres and prepares the schema. TranslateError is on so
// unique-index violations surface as gorm.ErrDuplicatedKey regardless of the
// underlying driver.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Product{},
		&Review{},
		&CartItem{},
	)
}

// Active restricts a query to rows that have not been soft-deleted. Every
// catalog, review, and user-visible read goes through this scope; only
// primary-key ownership checks load rows regardless of state.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
