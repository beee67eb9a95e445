// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rnr-capital/fritter-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CreateTempDB opens a private in-memory database with all tables migrated.
// The database disappears with the test.
func CreateTempDB(t testing.TB) (*gorm.DB, string) {
	t.Helper()
	name := "fritter_test_" + uuid.New().String()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("fail to open temp db: %s", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("fail to get temp db handle: %s", err)
	}
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp db: %s", err)
	}
	return db, name
}
