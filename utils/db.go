package utils

import (
	"fmt"

	"github.com/rnr-capital/fritter-backend/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormTransaction is the callback passed to gorm.DB.Transaction. Returning an
// error rolls the whole transaction back.
type GormTransaction func(tx *gorm.DB) error

// GetDBConnection opens the postgres database described by DB_* variables.
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(GetEnv("DB_NAME", "fritter"))
}

func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	sslmode := GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASS", ""),
		dbName,
		GetEnv("DB_PORT", "5432"),
		sslmode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// DatabaseSetupAndMigration creates or updates every table the core relies on.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}
