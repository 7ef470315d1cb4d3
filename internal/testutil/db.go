package testutil

import (
	"context"
	"testing"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"

	"gorm.io/gorm"
)

// NewDB returns a migrated, seeded in-memory SQLite database that is closed
// when the test ends. A single connection keeps every query on the same
// in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		DBType:         "sqlite",
		DatabaseURL:    ":memory:",
		DBMaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	data, err := database.DefaultReferenceData()
	if err != nil {
		t.Fatalf("Failed to load seed data: %v", err)
	}
	if err := database.Seed(context.Background(), db, data); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}
