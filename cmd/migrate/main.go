package main

import (
	"github.com/rnr-capital/fritter-backend/utils"
	"github.com/rnr-capital/fritter-backend/utils/dotenv"
	. "github.com/rnr-capital/fritter-backend/utils/flag"
	. "github.com/rnr-capital/fritter-backend/utils/log"
)

func main() {
	ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		LogV2.Fatalf("Failed to connect to database: %v", err)
	}

	// Ping the database to verify connection
	if err := db.Exec("SELECT 1").Error; err != nil {
		LogV2.Fatalf("Failed to ping database: %v", err)
	}

	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		LogV2.Fatalf("Failed to migrate database: %v", err)
	}
	LogV2.Info("database migrated")
}
