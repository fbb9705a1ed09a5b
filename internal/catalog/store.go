package catalog

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a SQLite-backed catalog database and migrates its
// schema. Used for local development and tests; production deployments
// run on PostgreSQL via the database package.
func OpenSQLite(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = "querybank.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&QueryTask{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// OpenInMemory opens an in-memory SQLite catalog (useful for testing).
func OpenInMemory() (*gorm.DB, error) {
	return OpenSQLite(":memory:")
}
